package util

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Clone deep-copies v through a JSON round trip. Only exported, JSON-visible
// state survives the copy. Numbers held in interface values come back as
// json.Number, so large integers keep their exact value.
func Clone[T any](v T) (T, error) {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("failed to encode value: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode value: %w", err)
	}
	return out, nil
}
