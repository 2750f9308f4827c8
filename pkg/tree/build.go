package tree

import (
	"sort"
)

type config struct {
	root      ident
	baseLevel int
	fields    Fields
}

func (o Options) resolve() config {
	return config{
		root:      identOf(o.RootMarker),
		baseLevel: o.BaseLevel,
		fields:    o.Fields.resolve(),
	}
}

// Build converts records into a forest and returns its top-level nodes.
//
// Records whose parent id is the root marker become top-level nodes; records
// whose parent id matches another record's id are attached beneath it. Orphans,
// records caught in parent cycles, and earlier duplicates of an id are left out
// silently. Use BuildWithReport or BuildStrict to observe them.
func Build(records []Record, opts Options) []*Node {
	roots, _ := BuildWithReport(records, opts)
	return roots
}

// BuildWithReport is Build plus a Report describing every record that could not
// be placed.
func BuildWithReport(records []Record, opts Options) ([]*Node, Report) {
	cfg := opts.resolve()
	rep := Report{Total: len(records)}
	if len(records) == 0 {
		return []*Node{}, rep
	}

	idx := newIndex(len(records))
	for _, r := range sortByOrder(records, cfg.fields.Order) {
		if idx.put(identOf(r[cfg.fields.ID]), r) {
			rep.Duplicates = append(rep.Duplicates, r[cfg.fields.ID])
		}
	}

	nodes := make(map[ident]*Node, len(idx.keys))
	for _, k := range idx.keys {
		nodes[k] = &Node{Record: idx.records[k], fields: cfg.fields}
	}

	roots := []*Node{}
	attached := make([]*Node, 0, len(idx.keys))
	for _, k := range idx.keys {
		n := nodes[k]
		pid := identOf(n.ParentID())
		if pid == cfg.root {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[pid]
		if !ok {
			rep.Orphans = append(rep.Orphans, n.Record)
			continue
		}
		parent.Children = append(parent.Children, n)
		attached = append(attached, n)
	}

	placed := make(map[*Node]bool, len(idx.keys))
	stack := make([]*Node, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		r := roots[i]
		r.Level = cfg.baseLevel
		r.Path = []any{r.ID()}
		stack = append(stack, r)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		placed[n] = true
		for i := len(n.Children) - 1; i >= 0; i-- {
			c := n.Children[i]
			c.Level = n.Level + 1
			c.Path = appendPath(n.Path, c.ID())
			stack = append(stack, c)
		}
	}
	rep.Placed = len(placed)

	for _, n := range attached {
		if !placed[n] {
			rep.Unreachable = append(rep.Unreachable, n.Record)
		}
	}
	return roots, rep
}

func appendPath(parent []any, id any) []any {
	p := make([]any, len(parent)+1)
	copy(p, parent)
	p[len(parent)] = id
	return p
}

// sortByOrder returns a copy of records, stably sorted by the order field when
// the first record carries a truthy order value. Records without a numeric
// order sort after those with one.
func sortByOrder(records []Record, field string) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	if !truthy(out[0][field]) {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := orderValue(out[i][field])
		b, bok := orderValue(out[j][field])
		switch {
		case aok && bok:
			return a < b
		case aok:
			return true
		default:
			return false
		}
	})
	return out
}

// index keeps records by id in first-insertion order. A repeated id replaces
// the stored record but keeps its original slot.
type index struct {
	keys    []ident
	records map[ident]Record
}

func newIndex(n int) *index {
	return &index{keys: make([]ident, 0, n), records: make(map[ident]Record, n)}
}

func (x *index) put(k ident, r Record) (replaced bool) {
	if _, ok := x.records[k]; ok {
		x.records[k] = r
		return true
	}
	x.keys = append(x.keys, k)
	x.records[k] = r
	return false
}
