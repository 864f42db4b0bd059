package store

import (
	"testing"
	"time"
)

func TestFormatTimestampSortsChronologically(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)
	ordered := []time.Time{
		base,
		base.Add(100 * time.Millisecond),
		base.Add(120 * time.Millisecond),
		base.Add(500 * time.Millisecond),
		base.Add(time.Second),
	}
	for i := 1; i < len(ordered); i++ {
		prev, next := formatTimestamp(ordered[i-1]), formatTimestamp(ordered[i])
		if prev >= next {
			t.Fatalf("expected %s to sort before %s", prev, next)
		}
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	local := time.FixedZone("ICT", 7*3600)
	ts := time.Date(2026, 3, 1, 17, 0, 5, 120000000, local)
	got := parseTimestamp(formatTimestamp(ts))
	if !got.Equal(ts) {
		t.Fatalf("expected %s, got %s", ts, got)
	}
	if formatTimestamp(ts) != "2026-03-01T10:00:05.120000000Z" {
		t.Fatalf("unexpected layout %s", formatTimestamp(ts))
	}
}
