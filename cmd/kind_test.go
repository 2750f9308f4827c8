package cmd

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		raw, as string
		want    any
	}{
		{"42", "", json.Number("42")},
		{"42", "string", "42"},
		{"hello", "", "hello"},
		{`"hi"`, "json", "hi"},
		{"null", "", nil},
		{"2021-05-11", "date", time.Date(2021, 5, 11, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw+"/"+tt.as, func(t *testing.T) {
			got, err := decodeValue(tt.raw, tt.as)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	re, err := decodeValue("a+", "regexp")
	require.NoError(t, err)
	assert.IsType(t, &regexp.Regexp{}, re)

	_, err = decodeValue("tomorrow", "date")
	assert.Error(t, err)
	_, err = decodeValue("(", "regexp")
	assert.Error(t, err)
	_, err = decodeValue("x", "xml")
	assert.Error(t, err)
}

func TestKindDescribe(t *testing.T) {
	tests := []struct {
		name string
		in   KindInput
		want kindResult
	}{
		{"empty object", KindInput{Value: "{}"}, kindResult{Kind: "object", Empty: true, EmptyObject: true, Text: "map[]"}},
		{"array", KindInput{Value: "[1,2]"}, kindResult{Kind: "array", Text: "[1 2]"}},
		{"blank string", KindInput{Value: `"  "`}, kindResult{Kind: "string", Empty: true, Blank: true}},
		{"null", KindInput{Value: "null"}, kindResult{Kind: "null", Empty: true, Blank: true}},
		{"number", KindInput{Value: "0"}, kindResult{Kind: "number", Text: "0"}},
		{"regexp", KindInput{Value: "a+", As: "regexp"}, kindResult{Kind: "regExp", Text: "a+"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupStdoutCapture(t)
			tt.in.Output = "json"

			require.NoError(t, KindCmd{}.Describe(context.Background(), tt.in))

			var got kindResult
			require.NoError(t, json.Unmarshal(outBuf.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindDescribe_Table(t *testing.T) {
	setupStdoutCapture(t)

	require.NoError(t, KindCmd{}.Describe(context.Background(), KindInput{Value: "true"}))
	out := outBuf.String()
	assert.Contains(t, out, "boolean")
	assert.Contains(t, out, "Empty object")
}
