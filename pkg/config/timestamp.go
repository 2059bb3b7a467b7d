package config

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wire and display format for timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an absolute timestamp in local time, or a relative
// duration ("30d", "12h") meaning that long before now.
func ParseTimestamp(s string, now time.Time) (time.Time, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}

	d, err := ParseDuration(value)
	if err != nil || d < 0 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: expected %q or a duration like 30d", value, "YYYY-MM-DD HH:MM:SS")
	}
	return now.Add(-d), nil
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
