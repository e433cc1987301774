package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseDay(t *testing.T) {
    got, ok := ParseDay("2025-03-14")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected day %v", got)
    }
}

func TestParseDayFromTimestamp(t *testing.T) {
    got, ok := ParseDay("2025-03-14T18:30:00Z")
    if !ok {
        t.Fatalf("expected ok")
    }
    if FormatDay(got) != "2025-03-14" {
        t.Fatalf("unexpected day %v", got)
    }
}

func TestParseDayInvalid(t *testing.T) {
    if _, ok := ParseDay("not-a-date"); ok {
        t.Fatalf("expected failure")
    }
}

func TestNextDay(t *testing.T) {
    d := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
    if FormatDay(NextDay(d)) != "2025-03-01" {
        t.Fatalf("unexpected next day %v", NextDay(d))
    }
}
