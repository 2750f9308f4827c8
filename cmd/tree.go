package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wheelkit/cli/pkg/timing"
	"github.com/wheelkit/cli/pkg/tree"
	"github.com/wheelkit/cli/pkg/util"
	"gopkg.in/yaml.v3"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// fieldsFlag collects repeatable key=name overrides of the record field names.
type fieldsFlag struct {
	fields tree.Fields
	set    []string
}

var _ pflag.Value = (*fieldsFlag)(nil)

var fieldKeys = []string{"id", "parentId", "children", "level", "order", "path"}

func (f *fieldsFlag) String() string { return strings.Join(f.set, ",") }

func (f *fieldsFlag) Type() string { return "key=name" }

func (f *fieldsFlag) Set(v string) error {
	key, name, ok := strings.Cut(v, "=")
	key, name = strings.TrimSpace(key), strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected key=name, got %q", v)
	}
	switch key {
	case "id":
		f.fields.ID = name
	case "parentId":
		f.fields.ParentID = name
	case "children":
		f.fields.Children = name
	case "level":
		f.fields.Level = name
	case "order":
		f.fields.Order = name
	case "path":
		f.fields.Path = name
	default:
		return fmt.Errorf("unknown field %q (want one of %s)", key, strings.Join(fieldKeys, ", "))
	}
	f.set = append(f.set, v)
	return nil
}

// TreeCmd builds and queries trees.
type TreeCmd struct {
	stdin io.Reader
}

// TreeSource holds the shared input options of the tree subcommands.
type TreeSource struct {
	File      string
	Root      string
	BaseLevel int
	Fields    tree.Fields
}

// options turns the source flags into build options.
func (s TreeSource) options() (tree.Options, error) {
	marker, err := parseScalar(s.Root)
	if err != nil {
		return tree.Options{}, fmt.Errorf("invalid --root: %w", err)
	}
	return tree.Options{RootMarker: marker, BaseLevel: s.BaseLevel, Fields: s.Fields}, nil
}

// TreeBuildInput holds input for building a tree.
type TreeBuildInput struct {
	TreeSource
	Strict bool
	Report bool
	Output string
	Label  string
}

// Build reads the records, assembles the forest and prints it.
func (t TreeCmd) Build(ctx context.Context, in TreeBuildInput) error {
	if in.Output != "" && in.Output != "tree" && in.Output != "json" && in.Output != "yaml" {
		return fmt.Errorf("unsupported output format %q (want tree, json or yaml)", in.Output)
	}

	records, err := t.read(in.File)
	if err != nil {
		return err
	}
	opts, err := in.options()
	if err != nil {
		return err
	}

	var (
		roots []*tree.Node
		rep   tree.Report
	)
	if in.Strict {
		roots, err = tree.BuildStrict(records, opts)
		if err != nil {
			return err
		}
		rep.Total, rep.Placed = len(records), tree.Count(roots)
	} else {
		roots, rep = tree.BuildWithReport(records, opts)
		if !rep.Clean() {
			pterm.Debug.Printfln("%d of %d records not placed", rep.Dropped(), rep.Total)
		}
	}

	if ok, err := printStructured(in.Output, roots); ok || err != nil {
		if err == nil && in.Report {
			printReport(roots, rep, opts.Fields)
		}
		return err
	}

	if len(roots) == 0 {
		pterm.Info.Println("No root records found")
	} else if err := renderForest(roots, in.Label); err != nil {
		return err
	}
	if in.Report {
		printReport(roots, rep, opts.Fields)
	}
	return nil
}

// TreeFindInput holds input for searching a tree.
type TreeFindInput struct {
	TreeSource
	ID     string
	Label  string
	Match  string
	Fuzzy  bool
	One    bool
	Output string
}

// Find prints the nodes matching an id or a label query.
func (t TreeCmd) Find(ctx context.Context, in TreeFindInput) error {
	if in.ID == "" && in.Match == "" {
		return fmt.Errorf("one of --id or --match is required")
	}
	roots, _, err := t.load(in.TreeSource)
	if err != nil {
		return err
	}

	var hits []*tree.Node
	switch {
	case in.ID != "":
		id, err := parseScalar(in.ID)
		if err != nil {
			return fmt.Errorf("invalid --id: %w", err)
		}
		hits = findNodes(roots, in.One, func(n *tree.Node, _ int, _ []*tree.Node) bool {
			return tree.SameID(n.ID(), id)
		})
	case in.Fuzzy:
		hits = fuzzyFind(roots, in.Label, in.Match)
		if in.One && len(hits) > 1 {
			hits = hits[:1]
		}
	default:
		needle := strings.ToLower(in.Match)
		hits = findNodes(roots, in.One, func(n *tree.Node, _ int, _ []*tree.Node) bool {
			return strings.Contains(strings.ToLower(nodeLabel(n, in.Label)), needle)
		})
	}

	if ok, err := printStructured(in.Output, hits); ok || err != nil {
		return err
	}
	if len(hits) == 0 {
		pterm.Info.Println("No matching records")
		return nil
	}
	printNodeTable(hits, in.Label)
	return nil
}

// TreeFlattenInput holds input for flattening a tree.
type TreeFlattenInput struct {
	TreeSource
	Label  string
	Output string
}

// Flatten prints every placed node in pre-order.
func (t TreeCmd) Flatten(ctx context.Context, in TreeFlattenInput) error {
	roots, _, err := t.load(in.TreeSource)
	if err != nil {
		return err
	}
	flat := tree.Flatten(roots)

	if ok, err := printStructured(in.Output, lo.Map(flat, func(n *tree.Node, _ int) tree.Record {
		rec := n.ToRecord()
		delete(rec, n.Fields().Children)
		return rec
	})); ok || err != nil {
		return err
	}
	if len(flat) == 0 {
		pterm.Info.Println("No records placed")
		return nil
	}
	printNodeTable(flat, in.Label)
	return nil
}

// TreePositionInput holds input for locating a record.
type TreePositionInput struct {
	TreeSource
	ID     string
	Left   string
	Top    string
	Output string
}

// Position prints the absolute offset of a record: its left and top fields
// summed with those of every ancestor.
func (t TreeCmd) Position(ctx context.Context, in TreePositionInput) error {
	id, err := parseScalar(in.ID)
	if err != nil {
		return fmt.Errorf("invalid --id: %w", err)
	}
	if id == nil {
		return fmt.Errorf("--id is required")
	}
	roots, _, err := t.load(in.TreeSource)
	if err != nil {
		return err
	}
	n := tree.FindOne(roots, func(n *tree.Node, _ int, _ []*tree.Node) bool {
		return tree.SameID(n.ID(), id)
	})
	if n == nil {
		return fmt.Errorf("record %s is not placed in the tree", in.ID)
	}

	chain := ancestry(roots, n)
	p := util.ElementPosition(&offsetBox{chain: chain, i: len(chain) - 1, left: in.Left, top: in.Top})

	if ok, err := printStructured(in.Output, p); ok || err != nil {
		return err
	}
	rows := pterm.TableData{{"ID", "X", "Y"}}
	rows = append(rows, []string{fmt.Sprint(n.ID()), strconv.Itoa(p.X), strconv.Itoa(p.Y)})
	PrintTableNoPad(rows, true)
	return nil
}

// ancestry returns the nodes along n's path, root first.
func ancestry(roots []*tree.Node, n *tree.Node) []*tree.Node {
	chain := make([]*tree.Node, 0, len(n.Path))
	level := roots
	for _, id := range n.Path {
		next, ok := lo.Find(level, func(c *tree.Node) bool { return tree.SameID(c.ID(), id) })
		if !ok {
			break
		}
		chain = append(chain, next)
		level = next.Children
	}
	return chain
}

// offsetBox exposes one node of a root-first chain as a positioned element
// whose offset parent is the previous node.
type offsetBox struct {
	chain     []*tree.Node
	i         int
	left, top string
}

func (b *offsetBox) Offset() (int, int) {
	n := b.chain[b.i]
	return offsetValue(n.Get(b.left)), offsetValue(n.Get(b.top))
}

func (b *offsetBox) OffsetParent() util.Positioned {
	if b.i == 0 {
		return nil
	}
	return &offsetBox{chain: b.chain, i: b.i - 1, left: b.left, top: b.top}
}

// offsetValue reads a numeric or numeric-string offset, rounding to whole
// units. Anything else counts as 0.
func offsetValue(v any) int {
	if v == nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(v)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}

// Watch rebuilds whenever the input file changes until ctx is done.
func (t TreeCmd) Watch(ctx context.Context, in TreeBuildInput) error {
	if in.File == "" || in.File == "-" {
		return fmt.Errorf("--watch needs a file argument")
	}
	file, err := filepath.Abs(in.File)
	if err != nil {
		return err
	}

	rebuild := func() {
		if err := t.Build(ctx, in); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	rebuild()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(file), err)
	}

	call, stop := timing.Debounce(func() {
		pterm.Println()
		pterm.Info.Printfln("%s changed, rebuilding", filepath.Base(file))
		rebuild()
	}, watchDebounce, false)
	defer stop()

	pterm.Info.Printfln("Watching %s (Ctrl+C to stop)", in.File)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != file {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				call()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			pterm.Warning.Printfln("watch error: %v", err)
		}
	}
}

const watchDebounce = 150 * time.Millisecond

func (t TreeCmd) load(src TreeSource) ([]*tree.Node, tree.Report, error) {
	records, err := t.read(src.File)
	if err != nil {
		return nil, tree.Report{}, err
	}
	opts, err := src.options()
	if err != nil {
		return nil, tree.Report{}, err
	}
	roots, rep := tree.BuildWithReport(records, opts)
	return roots, rep, nil
}

// read decodes records from file, or from stdin when file is empty or "-".
// Files ending in .yaml or .yml are YAML, everything else JSON.
func (t TreeCmd) read(file string) ([]tree.Record, error) {
	var (
		data []byte
		err  error
	)
	if file == "" || file == "-" {
		r := t.stdin
		if r == nil {
			r = os.Stdin
		}
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	var records []tree.Record
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("invalid YAML records: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("invalid JSON records (want an array of objects): %w", err)
		}
	}
	pterm.Debug.Printfln("Read %d records", len(records))
	return records, nil
}

// parseScalar decodes a JSON scalar. Text that is not JSON is taken as a
// plain string, so --root 0 is a number and --root top is "top".
func parseScalar(s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s, nil
	}
	switch v.(type) {
	case map[string]any, []any:
		return nil, fmt.Errorf("%q is not a scalar", s)
	}
	return v, nil
}

func findNodes(roots []*tree.Node, one bool, pred tree.Predicate) []*tree.Node {
	if one {
		if n := tree.FindOne(roots, pred); n != nil {
			return []*tree.Node{n}
		}
		return nil
	}
	return tree.Find(roots, pred)
}

// fuzzyFind ranks every placed node by how well its label matches query.
func fuzzyFind(roots []*tree.Node, labelField, query string) []*tree.Node {
	flat := tree.Flatten(roots)
	labels := lo.Map(flat, func(n *tree.Node, _ int) string { return nodeLabel(n, labelField) })
	matches := fuzzy.Find(query, labels)
	return lo.Map(matches, func(m fuzzy.Match, _ int) *tree.Node { return flat[m.Index] })
}

// labelTexts formats the node's values for a comma-separated list of label
// fields, in order. Missing and null values are "".
func labelTexts(n *tree.Node, fields string) []string {
	var out []string
	for _, f := range strings.Split(fields, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if v, ok := n.Record[f]; ok && v != nil {
			out = append(out, fmt.Sprint(v))
		} else {
			out = append(out, "")
		}
	}
	return out
}

// nodeLabel is the first non-empty label field value, or the id.
func nodeLabel(n *tree.Node, fields string) string {
	if s, ok := lo.Find(labelTexts(n, fields), func(s string) bool { return s != "" }); ok {
		return s
	}
	return fmt.Sprint(n.ID())
}

func styledLabel(n *tree.Node, field string) string {
	id := fmt.Sprint(n.ID())
	label := nodeLabel(n, field)
	if label == id {
		return labelStyle.Render(label)
	}
	return labelStyle.Render(label) + " " + idStyle.Render("#"+id)
}

func treeNodes(nodes []*tree.Node, field string) []pterm.TreeNode {
	return lo.Map(nodes, func(n *tree.Node, _ int) pterm.TreeNode {
		return pterm.TreeNode{Text: styledLabel(n, field), Children: treeNodes(n.Children, field)}
	})
}

func renderForest(roots []*tree.Node, field string) error {
	return pterm.DefaultTree.WithRoot(pterm.TreeNode{Children: treeNodes(roots, field)}).Render()
}

func pathText(p []any) string {
	return strings.Join(lo.Map(p, func(v any, _ int) string { return fmt.Sprint(v) }), " / ")
}

func printNodeTable(nodes []*tree.Node, field string) {
	rows := pterm.TableData{{"Level", "ID", "Label", "Path", "Children"}}
	for _, n := range nodes {
		label := util.FirstOrDash(labelTexts(n, field)...)
		rows = append(rows, []string{
			fmt.Sprintf("%d", n.Level),
			fmt.Sprint(n.ID()),
			label,
			pathText(n.Path),
			fmt.Sprintf("%d", len(n.Children)),
		})
	}
	PrintTableNoPad(rows, true)
}

func printReport(roots []*tree.Node, rep tree.Report, fields tree.Fields) {
	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Records", fmt.Sprintf("%d", rep.Total)})
	rows = append(rows, []string{"Roots", fmt.Sprintf("%d", len(roots))})
	rows = append(rows, []string{"Placed", fmt.Sprintf("%d", tree.Count(roots))})
	rows = append(rows, []string{"Orphans", recordIDs(rep.Orphans, fields)})
	rows = append(rows, []string{"Unreachable", recordIDs(rep.Unreachable, fields)})
	rows = append(rows, []string{"Duplicate IDs", util.JoinOrDash(lo.Map(rep.Duplicates, func(v any, _ int) string { return fmt.Sprint(v) })...)})
	PrintTableNoPad(rows, true)

	if rep.Clean() {
		pterm.Success.Println("Every record was placed")
	} else {
		pterm.Warning.Printfln("%d records were not placed", rep.Dropped())
	}
}

func recordIDs(records []tree.Record, fields tree.Fields) string {
	idField := fields.ID
	if idField == "" {
		idField = tree.DefaultIDField
	}
	ids := lo.Map(records, func(r tree.Record, _ int) string { return fmt.Sprint(r[idField]) })
	sort.Strings(ids)
	return util.JoinOrDash(ids...)
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Build nested trees from flat parent/child records",
}

var treeBuildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Assemble records into a tree and print it",
	Long: `Assemble a flat array of records into a forest using their id and parent
id fields. Records whose parent id equals the root marker become roots.

Input is a JSON array, or YAML when the file ends in .yaml or .yml. Without a
file (or with "-") records are read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTreeBuild,
}

var treeFindCmd = &cobra.Command{
	Use:   "find [file]",
	Short: "Search a tree by id or label",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTreeFind,
}

var treePositionCmd = &cobra.Command{
	Use:   "position [file]",
	Short: "Sum a record's offsets with those of its ancestors",
	Long: `Compute the absolute position of a record whose left and top fields are
relative to its parent, by adding up the offsets along its path from the root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTreePosition,
}

var treeFlattenCmd = &cobra.Command{
	Use:   "flatten [file]",
	Short: "List every placed record in pre-order with its level and path",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTreeFlatten,
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("root", "null", "Parent id value that marks a root record (JSON scalar)")
	cmd.Flags().Int("base-level", 0, "Level assigned to root records")
	cmd.Flags().Var(&fieldsFlag{}, "field", "Override a field name, e.g. --field id=key (repeatable; keys: "+strings.Join(fieldKeys, ", ")+")")
	cmd.Flags().StringP("output", "o", "", "Output format")
	cmd.Flags().String("label", "", "Field shown as the record label; a comma-separated list falls back in order")
}

func init() {
	addSourceFlags(treeBuildCmd)
	treeBuildCmd.Flags().Bool("strict", false, "Fail on orphans, cycles and duplicate ids")
	treeBuildCmd.Flags().Bool("report", false, "Print a summary of placed and dropped records")
	treeBuildCmd.Flags().Bool("watch", false, "Rebuild when the input file changes")

	addSourceFlags(treeFindCmd)
	treeFindCmd.Flags().String("id", "", "Find the record with this id (JSON scalar)")
	treeFindCmd.Flags().String("match", "", "Text to look for in the label")
	treeFindCmd.Flags().Bool("fuzzy", false, "Rank labels by fuzzy match instead of substring")
	treeFindCmd.Flags().Bool("one", false, "Stop at the first match")

	addSourceFlags(treeFlattenCmd)

	addSourceFlags(treePositionCmd)
	treePositionCmd.Flags().String("id", "", "Id of the record to locate (JSON scalar)")
	treePositionCmd.Flags().String("left", "left", "Field holding the horizontal offset")
	treePositionCmd.Flags().String("top", "top", "Field holding the vertical offset")

	treeCmd.AddCommand(treeBuildCmd)
	treeCmd.AddCommand(treeFindCmd)
	treeCmd.AddCommand(treeFlattenCmd)
	treeCmd.AddCommand(treePositionCmd)
}

func sourceFromFlags(cmd *cobra.Command, args []string) TreeSource {
	src := TreeSource{}
	if len(args) > 0 {
		src.File = args[0]
	}
	src.Root, _ = cmd.Flags().GetString("root")
	src.BaseLevel, _ = cmd.Flags().GetInt("base-level")
	if f, ok := cmd.Flags().Lookup("field").Value.(*fieldsFlag); ok {
		src.Fields = f.fields
	}
	return src
}

func runTreeBuild(cmd *cobra.Command, args []string) error {
	in := TreeBuildInput{TreeSource: sourceFromFlags(cmd, args)}
	in.Strict, _ = cmd.Flags().GetBool("strict")
	in.Report, _ = cmd.Flags().GetBool("report")
	in.Output, _ = cmd.Flags().GetString("output")
	in.Label, _ = cmd.Flags().GetString("label")
	watch, _ := cmd.Flags().GetBool("watch")

	t := TreeCmd{stdin: cmd.InOrStdin()}
	if watch {
		return t.Watch(cmd.Context(), in)
	}
	return t.Build(cmd.Context(), in)
}

func runTreeFind(cmd *cobra.Command, args []string) error {
	in := TreeFindInput{TreeSource: sourceFromFlags(cmd, args)}
	in.ID, _ = cmd.Flags().GetString("id")
	in.Label, _ = cmd.Flags().GetString("label")
	in.Match, _ = cmd.Flags().GetString("match")
	in.Fuzzy, _ = cmd.Flags().GetBool("fuzzy")
	in.One, _ = cmd.Flags().GetBool("one")
	in.Output, _ = cmd.Flags().GetString("output")

	t := TreeCmd{stdin: cmd.InOrStdin()}
	return t.Find(cmd.Context(), in)
}

func runTreeFlatten(cmd *cobra.Command, args []string) error {
	in := TreeFlattenInput{TreeSource: sourceFromFlags(cmd, args)}
	in.Label, _ = cmd.Flags().GetString("label")
	in.Output, _ = cmd.Flags().GetString("output")

	t := TreeCmd{stdin: cmd.InOrStdin()}
	return t.Flatten(cmd.Context(), in)
}

func runTreePosition(cmd *cobra.Command, args []string) error {
	in := TreePositionInput{TreeSource: sourceFromFlags(cmd, args)}
	in.ID, _ = cmd.Flags().GetString("id")
	in.Left, _ = cmd.Flags().GetString("left")
	in.Top, _ = cmd.Flags().GetString("top")
	in.Output, _ = cmd.Flags().GetString("output")

	t := TreeCmd{stdin: cmd.InOrStdin()}
	return t.Position(cmd.Context(), in)
}
