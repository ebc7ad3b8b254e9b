package engine

import (
	"fmt"
	"strings"
	"time"
)

// Layouts tried, in order, for timestamp literals without a zone offset.
// Fractional seconds after the seconds field are accepted by time.Parse even
// when the layout omits them.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04:05 GMT-0700",
	"02.01.2006 15:04",
}

const csvTimestampLayout = "2006-01-02 15:04:05.999999"

// ParseTimestamp parses a timestamp literal into the canonical representation:
// UTC with microsecond precision. Literals with an explicit offset are converted to UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return normalize(t), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return normalize(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// FormatTimestamp renders t the way CSV sinks write it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(csvTimestampLayout)
}

// yearOf returns the 4-digit calendar year of a normalized timestamp.
func yearOf(t time.Time) string {
	return fmt.Sprintf("%04d", t.Year())
}
