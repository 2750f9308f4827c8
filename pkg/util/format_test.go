package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", OrDash(""))
	assert.Equal(t, "x", OrDash("x"))
	assert.Equal(t, "b", FirstOrDash("", "b", "c"))
	assert.Equal(t, "-", FirstOrDash("", ""))
	assert.Equal(t, "a, b", JoinOrDash("a", "b"))
	assert.Equal(t, "-", JoinOrDash())
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.in))
		})
	}
}

func TestDurationText(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, ""},
		{999 * time.Millisecond, ""},
		{59 * time.Second, "59s"},
		{61 * time.Second, "1m 1s"},
		{time.Hour, "1h"},
		{3723500 * time.Millisecond, "1h 2m 3s"},
		{26*time.Hour + 5*time.Second, "26h 5s"},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DurationText(tt.in))
		})
	}
}

func TestChineseDigits(t *testing.T) {
	assert.Equal(t, "二零二四", ChineseDigits("2024"))
	assert.Equal(t, "一.五", ChineseDigits("1.5"))
	assert.Equal(t, "", ChineseDigits(""))
}
