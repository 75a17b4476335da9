package util

import (
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout       = "2006-01-02"
	FetchTimeLayout  = "2006-01-02 15:04:05"
	UpdateTimeLayout = "2006/01/02 15:04 MST"
	// NoUpdateTime is displayed when none of a group's snapshots exist.
	NoUpdateTime = "--"
)

// ParseTime tries RFC3339, RFC3339Nano, "YYYY-MM-DD HH:MM[:SS]" and unix
// seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, FetchTimeLayout, "2006-01-02 15:04", DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// IsDate reports whether s is a calendar date in YYYY-MM-DD form.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ClockTime strips a leading "YYYY-MM-DD " from a calendar timestamp and
// returns HH:MM when the rest is a clock time. Anything else ("All Day",
// "Tentative") comes back trimmed but otherwise untouched.
func ClockTime(ts string) string {
	rest := strings.TrimSpace(ts)
	if len(rest) >= len(DateLayout) && IsDate(rest[:len(DateLayout)]) {
		rest = strings.TrimSpace(rest[len(DateLayout):])
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, rest); err == nil {
			return t.Format("15:04")
		}
	}
	return rest
}

// FormatUpdateTime renders t in loc for report headers, or NoUpdateTime
// for the zero time.
func FormatUpdateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return NoUpdateTime
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(UpdateTimeLayout)
}

// LatestTime returns the maximum of ts, or the zero time if ts is empty.
func LatestTime(ts ...time.Time) time.Time {
	var latest time.Time
	for _, t := range ts {
		if t.After(latest) {
			latest = t
		}
	}
	return latest
}
