package tree

import (
	"encoding/json"
	"maps"

	"github.com/samber/lo"
)

// ToRecord returns a new record holding the wrapped record's fields plus the
// computed level, path and (when non-empty) children under the configured
// field names. The wrapped record is left untouched.
func (n *Node) ToRecord() Record {
	out := make(Record, len(n.Record)+3)
	maps.Copy(out, n.Record)
	out[n.fields.Level] = n.Level
	out[n.fields.Path] = n.Path
	if len(n.Children) > 0 {
		out[n.fields.Children] = ToRecords(n.Children)
	} else {
		delete(out, n.fields.Children)
	}
	return out
}

// ToRecords converts nodes to plain records.
func ToRecords(nodes []*Node) []Record {
	return lo.Map(nodes, func(n *Node, _ int) Record { return n.ToRecord() })
}

// MarshalJSON encodes the node in its record form.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToRecord())
}

// MarshalYAML encodes the node in its record form.
func (n *Node) MarshalYAML() (any, error) {
	return n.ToRecord(), nil
}
