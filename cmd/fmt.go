package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/wheelkit/cli/pkg/util"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Formatting helpers for durations, dates, identity numbers and more",
}

var fmtDurationCmd = &cobra.Command{
	Use:   "duration <seconds|duration>",
	Short: "Render a duration as \"1h 2m 3s\"",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseDuration(args[0])
		if err != nil {
			return err
		}
		pterm.Println(util.OrDash(util.DurationText(d)))
		return nil
	},
}

var fmtDaysCmd = &cobra.Command{
	Use:   "days <start> <end>",
	Short: "Count whole days between two dates",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sep, _ := cmd.Flags().GetString("sep")
		n, err := util.DaysBetween(args[0], args[1], sep)
		if err != nil {
			return err
		}
		pterm.Println(strconv.Itoa(n))
		return nil
	},
}

var fmtLabelsCmd = &cobra.Command{
	Use:   "labels <start> <end>",
	Short: "List day-of-month labels between two dates",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sep, _ := cmd.Flags().GetString("sep")
		suffix, _ := cmd.Flags().GetString("suffix")
		start, err := util.ParseDate(args[0], sep)
		if err != nil {
			return err
		}
		end, err := util.ParseDate(args[1], sep)
		if err != nil {
			return err
		}
		pterm.Println(strings.Join(util.DayLabels(start, end, suffix), " "))
		return nil
	},
}

var fmtDigitsCmd = &cobra.Command{
	Use:   "digits <number>",
	Short: "Spell each digit as a Chinese numeral",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.Println(util.ChineseDigits(args[0]))
		return nil
	},
}

var maskKinds = []util.MaskKind{
	util.MaskPhone, util.MaskIDCard, util.MaskOrgID, util.MaskMilitaryCard,
	util.MaskArmedPoliceCard, util.MaskSoldierCard, util.MaskPassport,
	util.MaskHouseholdBook, util.MaskForeignerResidence, util.MaskHKMacaoPass,
	util.MaskTaiwanPass, util.MaskOther,
}

var fmtMaskCmd = &cobra.Command{
	Use:   "mask <value>",
	Short: "Mask an identity number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, _ := cmd.Flags().GetString("kind")
		if !lo.Contains(maskKinds, util.MaskKind(k)) {
			names := lo.Map(maskKinds, func(m util.MaskKind, _ int) string { return string(m) })
			return fmt.Errorf("unknown kind %q (want one of %s)", k, strings.Join(names, ", "))
		}
		pterm.Println(util.Mask(args[0], util.MaskKind(k)))
		return nil
	},
}

var fmtGUIDCmd = &cobra.Command{
	Use:   "guid",
	Short: "Print random upper-case GUIDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		for range max(n, 1) {
			pterm.Println(util.GUID())
		}
		return nil
	},
}

var fmtColorCmd = &cobra.Command{
	Use:   "color",
	Short: "Print a random #rrggbb color",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := util.RandomColor()
		var r, g, b uint8
		if _, err := fmt.Sscanf(c, "#%02x%02x%02x", &r, &g, &b); err == nil {
			pterm.Println(pterm.NewRGB(r, g, b).Sprint("■") + " " + c)
			return nil
		}
		pterm.Println(c)
		return nil
	},
}

var fmtBytesCmd = &cobra.Command{
	Use:   "bytes <n>",
	Short: "Render a byte count in binary units",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid byte count %q", args[0])
		}
		pterm.Println(util.FormatBytes(n))
		return nil
	},
}

var fmtQueryCmd = &cobra.Command{
	Use:   "query <key=value...|url>",
	Short: "Build a query string from pairs, or decode one from a URL with --parse",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parse, _ := cmd.Flags().GetBool("parse")
		if parse {
			params := util.ParseQuery(args[0])
			if len(params) == 0 {
				pterm.Info.Println("No query parameters")
				return nil
			}
			keys := lo.Keys(params)
			sort.Strings(keys)
			rows := pterm.TableData{{"Key", "Value"}}
			for _, k := range keys {
				rows = append(rows, []string{k, util.OrDash(params[k])})
			}
			PrintTableNoPad(rows, true)
			return nil
		}

		params := map[string]string{}
		for _, arg := range args {
			k, v, ok := strings.Cut(arg, "=")
			if !ok || k == "" {
				return fmt.Errorf("expected key=value, got %q", arg)
			}
			params[k] = v
		}
		pterm.Println(util.EncodeQuery(params))
		return nil
	},
}

var fmtExtentCmd = &cobra.Command{
	Use:   "extent <field> [file]",
	Short: "Print the smallest and largest numeric value of a field across records",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) > 1 {
			file = args[1]
		}
		records, err := TreeCmd{stdin: cmd.InOrStdin()}.read(file)
		if err != nil {
			return err
		}
		low, okLow := util.MinField(records, args[0])
		high, okHigh := util.MaxField(records, args[0])
		if !okLow || !okHigh {
			pterm.Warning.Printfln("No numeric values for %q", args[0])
			return nil
		}
		rows := pterm.TableData{{"Min", "Max"}}
		rows = append(rows, []string{strconv.FormatFloat(low, 'f', -1, 64), strconv.FormatFloat(high, 'f', -1, 64)})
		PrintTableNoPad(rows, true)
		return nil
	},
}

var fmtDateTimeCmd = &cobra.Command{
	Use:   "datetime <timestamp-ms>",
	Short: "Render a Unix millisecond timestamp as \"2006年01月02日 15:04\"",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q (want milliseconds since the epoch)", args[0])
		}
		loc := time.Local
		if utc, _ := cmd.Flags().GetBool("utc"); utc {
			loc = time.UTC
		}
		pterm.Println(util.FormatDateTime(ms, loc))
		return nil
	},
}

var fmtCountCmd = &cobra.Command{
	Use:   "count <value...>",
	Short: "Count how often each value occurs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		counts := util.CountValues(args)
		keys := lo.Keys(counts)
		sort.Slice(keys, func(i, j int) bool {
			if counts[keys[i]] != counts[keys[j]] {
				return counts[keys[i]] > counts[keys[j]]
			}
			return keys[i] < keys[j]
		})
		rows := pterm.TableData{{"Value", "Count"}}
		for _, k := range keys {
			rows = append(rows, []string{util.OrDash(k), strconv.Itoa(counts[k])})
		}
		PrintTableNoPad(rows, true)
		return nil
	},
}

var fmtEqualCmd = &cobra.Command{
	Use:   "equal <a> <b>",
	Short: "Compare two JSON values deeply",
	Long: `Compare two JSON values deeply. Numbers compare by value, so 1 and 1.0 are
equal. Text that is not JSON is compared as a plain string.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := decodeValue(args[0], "json")
		if err != nil {
			return err
		}
		b, err := decodeValue(args[1], "json")
		if err != nil {
			return err
		}
		equal := util.Equal(a, b)
		pterm.Println(strconv.FormatBool(equal))
		if showDiff, _ := cmd.Flags().GetBool("diff"); showDiff && !equal {
			pterm.Println(util.Diff(a, b))
		}
		return nil
	},
}

var fmtGroupCmd = &cobra.Command{
	Use:   "group [file]",
	Short: "Bucket records by a field; records without a value go to \"default\"",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) > 0 {
			file = args[0]
		}
		field, _ := cmd.Flags().GetString("field")
		strip, _ := cmd.Flags().GetBool("strip")
		output, _ := cmd.Flags().GetString("output")

		records, err := TreeCmd{stdin: cmd.InOrStdin()}.read(file)
		if err != nil {
			return err
		}
		groups := util.Group(records, field)
		if strip {
			if groups, err = util.Clone(groups); err != nil {
				return err
			}
			key := lo.Ternary(field == "", util.DefaultGroupField, field)
			for _, rs := range groups {
				for _, r := range rs {
					delete(r, key)
				}
			}
		}

		if ok, err := printStructured(output, groups); ok || err != nil {
			return err
		}
		names := lo.Keys(groups)
		sort.Strings(names)
		rows := pterm.TableData{{"Group", "Records"}}
		for _, name := range names {
			rows = append(rows, []string{name, strconv.Itoa(len(groups[name]))})
		}
		PrintTableNoPad(rows, true)
		return nil
	},
}

func init() {
	fmtDaysCmd.Flags().String("sep", "-", "Date separator")
	fmtLabelsCmd.Flags().String("sep", "-", "Date separator")
	fmtLabelsCmd.Flags().String("suffix", "日", "Text appended to each day")
	fmtMaskCmd.Flags().String("kind", string(util.MaskPhone), "Identity document kind")
	fmtGUIDCmd.Flags().IntP("count", "n", 1, "How many GUIDs to print")
	fmtQueryCmd.Flags().Bool("parse", false, "Decode the query string of a URL")
	fmtDateTimeCmd.Flags().Bool("utc", false, "Render in UTC instead of the local zone")
	fmtEqualCmd.Flags().Bool("diff", false, "Print the differences when the values are not equal")
	fmtGroupCmd.Flags().String("field", util.DefaultGroupField, "Field to group by")
	fmtGroupCmd.Flags().Bool("strip", false, "Drop the group field from the grouped records")
	fmtGroupCmd.Flags().StringP("output", "o", "", "Output format (json, yaml)")

	fmtCmd.AddCommand(fmtDurationCmd)
	fmtCmd.AddCommand(fmtDaysCmd)
	fmtCmd.AddCommand(fmtLabelsCmd)
	fmtCmd.AddCommand(fmtDigitsCmd)
	fmtCmd.AddCommand(fmtMaskCmd)
	fmtCmd.AddCommand(fmtGUIDCmd)
	fmtCmd.AddCommand(fmtColorCmd)
	fmtCmd.AddCommand(fmtBytesCmd)
	fmtCmd.AddCommand(fmtQueryCmd)
	fmtCmd.AddCommand(fmtExtentCmd)
	fmtCmd.AddCommand(fmtDateTimeCmd)
	fmtCmd.AddCommand(fmtCountCmd)
	fmtCmd.AddCommand(fmtEqualCmd)
	fmtCmd.AddCommand(fmtGroupCmd)
}

// parseDuration accepts Go durations ("90m") or a plain count of seconds.
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (want seconds or e.g. 1h30m)", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
