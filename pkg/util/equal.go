package util

import (
	"encoding/json"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// numbersByValue compares any two numeric values, including json.Number,
// by their float64 value so that 1, int64(1) and 1.0 are equal.
var numbersByValue = cmp.FilterValues(
	func(a, b any) bool {
		_, okA := numericValue(a)
		_, okB := numericValue(b)
		return okA && okB
	},
	cmp.Comparer(func(a, b any) bool {
		x, _ := numericValue(a)
		y, _ := numericValue(b)
		return x == y
	}),
)

// Equal reports whether a and b hold the same data, recursing into maps and
// slices. Numbers compare by value whatever their Go type; strings never
// equal numbers. Values must not contain structs with unexported fields.
func Equal(a, b any) bool {
	return cmp.Equal(a, b, numbersByValue)
}

// Diff describes how b differs from a, or returns "" when they are Equal.
func Diff(a, b any) string {
	return cmp.Diff(a, b, numbersByValue)
}

func numericValue(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	}
	return 0, false
}
