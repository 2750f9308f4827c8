package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		sep        string
		want       int
	}{
		{"same day", "2021-05-11", "2021-05-11", "", 0},
		{"forward", "2021-05-11", "2021-06-21", "-", 41},
		{"backward", "2021-06-21", "2021-05-11", "-", 41},
		{"slash separator", "2020/02/28", "2020/03/01", "/", 2},
		{"four centuries", "1700-01-01", "2100-01-01", "-", 146097},
		{"four centuries backward", "2100-01-01", "1700-01-01", "-", 146097},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaysBetween(tt.start, tt.end, tt.sep)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysBetween_Invalid(t *testing.T) {
	_, err := DaysBetween("2021-05", "2021-05-11", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")

	_, err = DaysBetween("2021-05-11", "2021-xx-11", "-")
	require.Error(t, err)
}

func TestDayLabels(t *testing.T) {
	start := time.Date(2021, 6, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 6, 6, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"3日", "4日", "5日", "6日"}, DayLabels(start, end, "日"))
	assert.Empty(t, DayLabels(end, start, ""))
}
