package util

import (
    "strconv"
    "time"
)

// DayLayout is the canonical wire format for calendar dates.
const DayLayout = "2006-01-02"

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

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// ParseDay parses an ISO calendar date at UTC midnight. Full timestamps from
// upstream exports are tolerated and truncated to the day.
func ParseDay(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(DayLayout, s); err == nil {
        return t, true
    }
    if t, ok := ParseTime(s); ok {
        return t.UTC().Truncate(24 * time.Hour), true
    }
    return time.Time{}, false
}

// FormatDay renders t as an ISO calendar date in UTC.
func FormatDay(t time.Time) string {
    return t.UTC().Format(DayLayout)
}

// NextDay returns the calendar day after t.
func NextDay(t time.Time) time.Time {
    return t.AddDate(0, 0, 1)
}
