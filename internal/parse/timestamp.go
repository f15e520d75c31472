package parse

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar-date layout used for shift and schedule dates.
const DateLayout = "2006-01-02"

// Layouts without a zone; these are interpreted in the caller's location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	DateLayout,
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Timestamp parses the backend's timestamp strings. Zoned RFC 3339 values are converted
// into loc; zone-less values are taken to already be in loc.
func Timestamp(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %q", raw)
}

// CalendarDate normalizes a date or date-time string to YYYY-MM-DD.
// The calendar day is taken as written; no zone conversion happens.
func CalendarDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if len(s) >= len(DateLayout) {
		head := strings.ReplaceAll(s[:len(DateLayout)], "/", "-")
		if d, err := time.Parse(DateLayout, head); err == nil {
			rest := s[len(DateLayout):]
			if rest == "" || rest[0] == 'T' || rest[0] == ' ' {
				return d.Format(DateLayout), nil
			}
		}
	}
	return "", fmt.Errorf("unable to parse calendar date: %q", raw)
}
