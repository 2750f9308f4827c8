package util

import (
	"encoding/json"
	"strconv"

	"github.com/samber/lo"
)

// MaxField returns the largest numeric value of field across records. ok is
// false when no record holds a numeric value there.
func MaxField(records []map[string]any, field string) (float64, bool) {
	vals := numericValues(records, field)
	if len(vals) == 0 {
		return 0, false
	}
	return lo.Max(vals), true
}

// MinField is MaxField for the smallest value.
func MinField(records []map[string]any, field string) (float64, bool) {
	vals := numericValues(records, field)
	if len(vals) == 0 {
		return 0, false
	}
	return lo.Min(vals), true
}

func numericValues(records []map[string]any, field string) []float64 {
	return lo.FilterMap(records, func(r map[string]any, _ int) (float64, bool) {
		return toFloat(r[field])
	})
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}
