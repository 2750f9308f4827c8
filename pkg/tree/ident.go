package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

type identKind uint8

const (
	identNil identKind = iota
	identInt
	identUint
	identFloat
	identString
	identBool
	identOther
)

// ident is the comparable form of an identifier. Integers keep their exact
// value: non-negative ones share the uint key whatever their Go kind, and
// integral floats fold onto the same keys so that 1, int64(1) and 1.0 index
// the same record.
type ident struct {
	kind identKind
	i    int64
	u    uint64
	f    float64
	str  string
}

// SameID reports whether a and b identify the same record under the rules
// Build uses to link children to parents.
func SameID(a, b any) bool { return identOf(a) == identOf(b) }

func identOf(v any) ident {
	switch x := v.(type) {
	case nil:
		return ident{kind: identNil}
	case int:
		return intIdent(int64(x))
	case int8:
		return intIdent(int64(x))
	case int16:
		return intIdent(int64(x))
	case int32:
		return intIdent(int64(x))
	case int64:
		return intIdent(x)
	case uint:
		return ident{kind: identUint, u: uint64(x)}
	case uint8:
		return ident{kind: identUint, u: uint64(x)}
	case uint16:
		return ident{kind: identUint, u: uint64(x)}
	case uint32:
		return ident{kind: identUint, u: uint64(x)}
	case uint64:
		return ident{kind: identUint, u: x}
	case float32:
		return floatIdent(float64(x))
	case float64:
		return floatIdent(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return intIdent(n)
		}
		if n, err := strconv.ParseUint(x.String(), 10, 64); err == nil {
			return ident{kind: identUint, u: n}
		}
		if f, err := x.Float64(); err == nil {
			return floatIdent(f)
		}
		return ident{kind: identString, str: x.String()}
	case string:
		return ident{kind: identString, str: x}
	case bool:
		return ident{kind: identBool, str: strconv.FormatBool(x)}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ident{kind: identNil}
	}
	return ident{kind: identOther, str: fmt.Sprintf("%T:%v", v, v)}
}

func intIdent(n int64) ident {
	if n >= 0 {
		return ident{kind: identUint, u: uint64(n)}
	}
	return ident{kind: identInt, i: n}
}

// floatIdent maps integral floats in integer range onto the integer keys.
func floatIdent(f float64) ident {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return ident{kind: identFloat, f: f}
	}
	switch {
	case f >= 0 && f < 1<<64:
		return ident{kind: identUint, u: uint64(f)}
	case f < 0 && f >= -(1<<63):
		return ident{kind: identInt, i: int64(f)}
	}
	return ident{kind: identFloat, f: f}
}

// number reports the float64 value of numeric kinds, including json.Number
// values that parse.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
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
	}
	return 0, false
}

// truthy follows the loose truthiness the order check relies on.
func truthy(v any) bool {
	if f, ok := number(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return false
	}
	return true
}

// orderValue returns the numeric sort key of v. Numeric strings count.
func orderValue(v any) (float64, bool) {
	if f, ok := number(v); ok {
		return f, !math.IsNaN(f)
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) {
			return f, true
		}
	}
	return 0, false
}
