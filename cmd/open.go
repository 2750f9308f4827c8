package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/wheelkit/cli/pkg/util"
	"github.com/wheelkit/cli/pkg/web"
)

// OpenCmd opens pages in the system browser.
type OpenCmd struct {
	open    func(string) error
	baseURL string
}

// OpenInput holds input for opening a page.
type OpenInput struct {
	Target string
	Query  map[string]string
	// PrintOnly prints the resolved URL instead of opening it.
	PrintOnly bool
}

// Open resolves the target against the configured base URL unless it is
// already external, appends the query and opens it.
func (o OpenCmd) Open(ctx context.Context, in OpenInput) error {
	target := in.Target
	if !util.IsExternal(target) {
		if o.baseURL == "" {
			return fmt.Errorf("%q is not an absolute URL and no download.base_url is configured", target)
		}
		target = strings.TrimRight(o.baseURL, "/") + "/" + strings.TrimLeft(target, "/")
	}
	if q := util.EncodeQuery(in.Query); q != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + strings.TrimPrefix(q, "?")
	}

	if in.PrintOnly {
		pterm.Println(target)
		return nil
	}
	if err := o.open(target); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	pterm.Success.Printfln("Opened %s", target)
	return nil
}

var openCmd = &cobra.Command{
	Use:   "open <url|path>",
	Short: "Open a page in the system browser",
	Long: `Open a page in the system browser. Relative paths are resolved against the
configured download.base_url.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().StringToString("query", nil, "Query parameters to append, e.g. --query id=7")
	openCmd.Flags().Bool("print", false, "Print the URL instead of opening it")
}

func runOpen(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetStringToString("query")
	printOnly, _ := cmd.Flags().GetBool("print")

	o := OpenCmd{open: web.OpenURL, baseURL: appConfig.Download.BaseURL}
	return o.Open(cmd.Context(), OpenInput{Target: args[0], Query: query, PrintOnly: printOnly})
}
