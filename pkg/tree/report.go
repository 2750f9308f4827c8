package tree

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

var (
	// ErrDuplicateID is returned in strict mode when two records share an id.
	ErrDuplicateID = errors.New("duplicate record id")
	// ErrOrphan is returned in strict mode when a parent id matches no record.
	ErrOrphan = errors.New("orphaned record")
	// ErrCycle is returned in strict mode when records are only reachable
	// through a parent cycle.
	ErrCycle = errors.New("parent cycle")
)

// Report describes how the input records were placed.
type Report struct {
	// Total is the number of input records.
	Total int
	// Placed is the number of nodes reachable from the returned roots.
	Placed int
	// Orphans are records whose parent id matched neither the root marker nor
	// any record id.
	Orphans []Record
	// Duplicates lists ids that occurred more than once. The last record with
	// a given id is the one kept.
	Duplicates []any
	// Unreachable are records attached to a parent that is itself part of a
	// cycle, so no root leads to them.
	Unreachable []Record
}

// Clean reports whether every record was placed without conflict.
func (r Report) Clean() bool {
	return len(r.Orphans) == 0 && len(r.Duplicates) == 0 && len(r.Unreachable) == 0
}

// Dropped is the number of input records missing from the tree.
func (r Report) Dropped() int {
	return r.Total - r.Placed
}

// Err joins one error per problem category, or returns nil for a clean report.
func (r Report) Err(fields Fields) error {
	f := fields.resolve()
	var errs []error
	if len(r.Duplicates) > 0 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrDuplicateID, r.Duplicates))
	}
	if len(r.Orphans) > 0 {
		ids := lo.Map(r.Orphans, func(rec Record, _ int) any { return rec[f.ID] })
		errs = append(errs, fmt.Errorf("%w: ids %v", ErrOrphan, ids))
	}
	if len(r.Unreachable) > 0 {
		ids := lo.Map(r.Unreachable, func(rec Record, _ int) any { return rec[f.ID] })
		errs = append(errs, fmt.Errorf("%w: ids %v", ErrCycle, ids))
	}
	return errors.Join(errs...)
}

// BuildStrict builds the tree like Build but also returns an error describing
// duplicates, orphans and cycles. The tree is returned either way.
func BuildStrict(records []Record, opts Options) ([]*Node, error) {
	roots, rep := BuildWithReport(records, opts)
	return roots, rep.Err(opts.Fields)
}
