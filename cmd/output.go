package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/wheelkit/cli/pkg/util"
	"gopkg.in/yaml.v3"
)

// PrintTableNoPad renders rows as a table without cell padding. When header
// is true the first row is styled as the header.
func PrintTableNoPad(rows pterm.TableData, header bool) {
	table := pterm.DefaultTable.WithData(rows).WithHasHeader(header).WithBoxed(false)
	if err := table.Render(); err != nil {
		pterm.Error.Printfln("failed to render table: %v", err)
	}
}

func printJSON(v any) error {
	return util.PrintPrettyJSON(stdout, v)
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// printStructured writes v in the named machine format. It reports false for
// formats it does not handle so callers can fall back to styled output.
func printStructured(format string, v any) (bool, error) {
	switch format {
	case "json":
		return true, printJSON(v)
	case "yaml":
		return true, printYAML(v)
	}
	return false, nil
}
