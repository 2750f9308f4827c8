package util

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// GUID returns a random upper-case UUID (version 4).
func GUID() string {
	return strings.ToUpper(uuid.NewString())
}

// RandomColor returns a random "#rrggbb" color.
func RandomColor() string {
	return fmt.Sprintf("#%02x%02x%02x", rand.IntN(256), rand.IntN(256), rand.IntN(256))
}
