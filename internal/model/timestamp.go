package model

import (
	"fmt"
	"strings"
	"time"
)

// upstream sends RFC 3339 with milliseconds ("2026-02-16T14:20:00.086Z");
// the zone-less forms are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

const readableLayout = "2006-01-02 15:04 UTC"

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ReadableTime renders a timestamp in UTC, falling back to the raw string
// when it cannot be parsed.
func ReadableTime(s string) string {
	t, err := ParseTimestamp(s)
	if err != nil {
		return s
	}
	return t.UTC().Format(readableLayout)
}
