package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a year, month, day triple joined by sep ("-" when empty).
func ParseDate(s, sep string) (time.Time, error) {
	if sep == "" {
		sep = "-"
	}
	parts := strings.Split(strings.TrimSpace(s), sep)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q: expected year%smonth%sday", s, sep, sep)
	}
	var ymd [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		ymd[i] = n
	}
	return time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC), nil
}

// DaysBetween returns the number of whole days between two dates written as
// year, month and day joined by sep.
func DaysBetween(start, end, sep string) (int, error) {
	s, err := ParseDate(start, sep)
	if err != nil {
		return 0, err
	}
	e, err := ParseDate(end, sep)
	if err != nil {
		return 0, err
	}
	// time.Duration saturates near 292 years, so subtract Unix seconds.
	secs := e.Unix() - s.Unix()
	if secs < 0 {
		secs = -secs
	}
	return int(secs / 86400), nil
}

// DayLabels lists day-of-month labels from start's day to end's day
// inclusive, each followed by suffix. Months are ignored.
func DayLabels(start, end time.Time, suffix string) []string {
	var out []string
	for d := start.Day(); d <= end.Day(); d++ {
		out = append(out, strconv.Itoa(d)+suffix)
	}
	return out
}

// DateTimeLayout renders as "2006年01月02日 15:04".
const DateTimeLayout = "2006年01月02日 15:04"

// FormatDateTime renders a Unix millisecond timestamp in loc (time.Local
// when nil) using DateTimeLayout.
func FormatDateTime(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format(DateTimeLayout)
}
