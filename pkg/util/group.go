package util

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// DefaultGroup is the bucket for records without a usable group value.
const DefaultGroup = "default"

// DefaultGroupField is the field Group reads when none is given.
const DefaultGroupField = "group"

// Group buckets records by the text of field, keeping input order within
// each bucket. Records whose value is missing, null, false, zero or "" land
// in DefaultGroup, which is always present.
func Group(records []map[string]any, field string) map[string][]map[string]any {
	if field == "" {
		field = DefaultGroupField
	}
	out := lo.GroupBy(records, func(r map[string]any) string { return groupKey(r[field]) })
	if _, ok := out[DefaultGroup]; !ok {
		out[DefaultGroup] = []map[string]any{}
	}
	return out
}

func groupKey(v any) string {
	switch x := v.(type) {
	case nil:
		return DefaultGroup
	case string:
		if x == "" {
			return DefaultGroup
		}
		return x
	case bool:
		if !x {
			return DefaultGroup
		}
		return "true"
	}
	if f, ok := toFloat(v); ok && (f == 0 || math.IsNaN(f)) {
		return DefaultGroup
	}
	return fmt.Sprint(v)
}

// CountValues counts how often each value occurs.
func CountValues[T comparable](values []T) map[T]int {
	return lo.CountValues(values)
}
