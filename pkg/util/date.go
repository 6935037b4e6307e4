package util

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the calendar-date layout used by the upstream API and inbound requests.
const DateLayout = "2006-01-02"

var zoneSuffix = regexp.MustCompile(`([+-]\d{2}:\d{2}|Z)$`)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseDate parses a YYYY-MM-DD date, falling back to ParseTime and truncating to the day.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, ok := ParseTime(s); ok {
		return Day(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day drops the clock part of t, keeping its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the absolute number of whole days between two dates.
func DaysBetween(a, b time.Time) int {
	d := Day(b).Sub(Day(a)) / (24 * time.Hour)
	if d < 0 {
		d = -d
	}
	return int(d)
}

// StripZone removes a trailing "Z" or "+hh:mm"/"-hh:mm" offset from a timestamp,
// leaving the wall-clock part untouched. Applying it twice is a no-op.
func StripZone(ts string) string {
	return zoneSuffix.ReplaceAllString(ts, "")
}
