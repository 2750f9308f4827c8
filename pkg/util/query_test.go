package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExternal(t *testing.T) {
	assert.True(t, IsExternal("https://example.com"))
	assert.True(t, IsExternal("http://example.com"))
	assert.True(t, IsExternal("mailto:a@b.c"))
	assert.True(t, IsExternal("tel:123"))
	assert.False(t, IsExternal("/dashboard"))
	assert.False(t, IsExternal("ftp://host"))
}

func TestEncodeQuery(t *testing.T) {
	assert.Equal(t, "", EncodeQuery(nil))
	assert.Equal(t, "?a=1&b=x+y", EncodeQuery(map[string]string{"b": "x y", "a": "1"}))
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{"no query", "https://x.io/path", map[string]string{}},
		{"pairs", "https://x.io/?a=1&b=two", map[string]string{"a": "1", "b": "two"}},
		{"bare query", "?flag&k=v", map[string]string{"flag": "", "k": "v"}},
		{"last wins", "?a=1&a=2", map[string]string{"a": "2"}},
		{"escapes", "?q=hello%20world", map[string]string{"q": "hello world"}},
		{"bad escape kept", "?q=100%", map[string]string{"q": "100%"}},
		{"fragment dropped", "?a=1#top", map[string]string{"a": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.in))
		})
	}
}
