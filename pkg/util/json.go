package util

import (
	"encoding/json"
	"io"
)

// PrintPrettyJSON writes v to w as two-space indented JSON. Nil slices print
// as [] rather than null.
func PrintPrettyJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if isNilSlice(v) {
		v = []any{}
	}
	return enc.Encode(v)
}

func isNilSlice(v any) bool {
	switch s := v.(type) {
	case []any:
		return s == nil
	case []map[string]any:
		return s == nil
	case []string:
		return s == nil
	}
	return false
}
