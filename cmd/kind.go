package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/wheelkit/cli/pkg/kind"
)

// KindCmd classifies values.
type KindCmd struct{}

// KindInput holds input for classifying a value.
type KindInput struct {
	Value  string
	As     string
	Output string
}

type kindResult struct {
	Kind        string `json:"kind"`
	Empty       bool   `json:"empty"`
	EmptyObject bool   `json:"emptyObject"`
	Blank       bool   `json:"blank"`
	Text        string `json:"text"`
}

// Describe prints the kind and emptiness of a value.
func (k KindCmd) Describe(ctx context.Context, in KindInput) error {
	v, err := decodeValue(in.Value, in.As)
	if err != nil {
		return err
	}
	res := kindResult{
		Kind:        kind.TypeOf(v).String(),
		Empty:       kind.IsEmpty(v),
		EmptyObject: kind.IsEmptyObject(v),
		Blank:       kind.IsNullOrWhiteSpace(v),
		Text:        kind.Trim(v),
	}

	if in.Output == "json" {
		return printJSON(res)
	}

	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Kind", res.Kind})
	rows = append(rows, []string{"Empty", fmt.Sprintf("%t", res.Empty)})
	rows = append(rows, []string{"Empty object", fmt.Sprintf("%t", res.EmptyObject)})
	rows = append(rows, []string{"Blank", fmt.Sprintf("%t", res.Blank)})
	PrintTableNoPad(rows, true)
	return nil
}

// decodeValue parses raw as JSON, falling back to a plain string. as forces
// "string", "date" (RFC 3339 or YYYY-MM-DD) or "regexp".
func decodeValue(raw, as string) (any, error) {
	switch as {
	case "", "json":
	case "string":
		return raw, nil
	case "date":
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("%q is not an RFC 3339 or YYYY-MM-DD date", raw)
	case "regexp":
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid regexp: %w", err)
		}
		return re, nil
	default:
		return nil, fmt.Errorf("unsupported --as %q (want json, string, date or regexp)", as)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw, nil
	}
	return v, nil
}

var kindCmd = &cobra.Command{
	Use:   "kind <value>",
	Short: "Classify a value and report whether it is empty",
	Long: `Classify a value into null, boolean, number, string, array, object, date or
regExp and report whether it counts as empty. The value is parsed as JSON
when possible and taken as a string otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runKind,
}

func init() {
	kindCmd.Flags().String("as", "", "Interpret the value as json, string, date or regexp")
	kindCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func runKind(cmd *cobra.Command, args []string) error {
	as, _ := cmd.Flags().GetString("as")
	output, _ := cmd.Flags().GetString("output")
	return KindCmd{}.Describe(cmd.Context(), KindInput{Value: args[0], As: as, Output: output})
}
