// Package tree converts flat parent-linked record lists into nested trees.
//
// Each record carries an identifier and a parent identifier under configurable
// field names. Build links every record to its parent, computes the depth level
// and the root-to-node identifier path, and returns the top-level nodes. Input
// records are never modified: every Node wraps a reference to its record and
// carries the computed fields alongside it.
package tree

// Record is an opaque mapping of field names to values.
type Record = map[string]any

// Default field names.
const (
	DefaultIDField       = "id"
	DefaultParentIDField = "parentId"
	DefaultChildrenField = "children"
	DefaultLevelField    = "level"
	DefaultOrderField    = "order"
	DefaultPathField     = "path"
)

// Fields maps the logical tree fields to record field names. Empty names fall
// back to the defaults.
type Fields struct {
	ID       string
	ParentID string
	Children string
	Level    string
	Order    string
	Path     string
}

// DefaultFields returns the field mapping used when none is configured.
func DefaultFields() Fields {
	return Fields{
		ID:       DefaultIDField,
		ParentID: DefaultParentIDField,
		Children: DefaultChildrenField,
		Level:    DefaultLevelField,
		Order:    DefaultOrderField,
		Path:     DefaultPathField,
	}
}

func (f Fields) resolve() Fields {
	d := DefaultFields()
	if f.ID != "" {
		d.ID = f.ID
	}
	if f.ParentID != "" {
		d.ParentID = f.ParentID
	}
	if f.Children != "" {
		d.Children = f.Children
	}
	if f.Level != "" {
		d.Level = f.Level
	}
	if f.Order != "" {
		d.Order = f.Order
	}
	if f.Path != "" {
		d.Path = f.Path
	}
	return d
}

// Options configures a single Build call.
type Options struct {
	// RootMarker is the parent id value of top-level records. A nil marker
	// matches records whose parent field is nil or absent.
	RootMarker any
	// BaseLevel is the level assigned to top-level nodes.
	BaseLevel int
	Fields    Fields
}

// Node is a record placed in the tree.
type Node struct {
	Record   Record
	Level    int
	Path     []any
	Children []*Node

	fields Fields
}

// ID returns the node's identifier.
func (n *Node) ID() any { return n.Record[n.fields.ID] }

// ParentID returns the node's parent identifier.
func (n *Node) ParentID() any { return n.Record[n.fields.ParentID] }

// Get returns a field of the wrapped record.
func (n *Node) Get(field string) any { return n.Record[field] }

// Fields returns the field mapping the node was built with.
func (n *Node) Fields() Fields { return n.fields }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }
