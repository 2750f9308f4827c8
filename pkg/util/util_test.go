package util

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGUID(t *testing.T) {
	id := GUID()
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}-[0-9A-F]{4}-4[0-9A-F]{3}-[89AB][0-9A-F]{3}-[0-9A-F]{12}$`), id)
	assert.NotEqual(t, id, GUID())
}

func TestRandomColor(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Regexp(t, regexp.MustCompile(`^#[0-9a-f]{6}$`), RandomColor())
	}
}

func TestMaxMinField(t *testing.T) {
	records := []map[string]any{
		{"area": "GX", "count": 5},
		{"area": "QY", "count": 4.5},
		{"area": "JN", "count": "7"},
		{"area": "WH"},
	}

	max, ok := MaxField(records, "count")
	require.True(t, ok)
	assert.Equal(t, 7.0, max)

	min, ok := MinField(records, "count")
	require.True(t, ok)
	assert.Equal(t, 4.5, min)

	_, ok = MaxField(records, "missing")
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	orig := map[string]any{"a": []any{json.Number("1"), map[string]any{"b": "c"}}}

	cp, err := Clone(orig)
	require.NoError(t, err)
	assert.Equal(t, orig, cp)

	cp["a"].([]any)[1].(map[string]any)["b"] = "changed"
	assert.Equal(t, "c", orig["a"].([]any)[1].(map[string]any)["b"])
}

func TestClone_KeepsNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"large integer", map[string]any{"id": int64(9007199254740993)}, map[string]any{"id": json.Number("9007199254740993")}},
		{"float", []any{1.5}, []any{json.Number("1.5")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clone(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	type point struct{ X, Y int }
	p, err := Clone(point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2}, p)
}

func TestClone_Unsupported(t *testing.T) {
	_, err := Clone(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

type box struct {
	left, top int
	parent    *box
}

func (b *box) Offset() (int, int) { return b.left, b.top }

func (b *box) OffsetParent() Positioned {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

func TestElementPosition(t *testing.T) {
	body := &box{left: 8, top: 8}
	panel := &box{left: 100, top: 50, parent: body}
	button := &box{left: 10, top: 5, parent: panel}

	assert.Equal(t, Point{X: 118, Y: 63}, ElementPosition(button))
	assert.Equal(t, Point{}, ElementPosition(nil))
}

func TestPrintPrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintPrettyJSON(&buf, map[string]any{"a": "<b>"}))
	assert.Equal(t, "{\n  \"a\": \"<b>\"\n}\n", buf.String())

	buf.Reset()
	var none []map[string]any
	require.NoError(t, PrintPrettyJSON(&buf, none))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadFileOrEmpty(t *testing.T) {
	data, err := ReadFileOrEmpty(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Nil(t, data)
}
