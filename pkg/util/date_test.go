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

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2023-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatDate(got) != "2023-01-01" {
		t.Fatalf("unexpected date %v", got)
	}

	got, err = ParseDate("2023-03-04T15:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected truncated day, got %v", got)
	}

	if _, err := ParseDate("yesterday"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 2, 5, 18, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 400 {
		t.Fatalf("expected 400, got %d", got)
	}
	if got := DaysBetween(b, a); got != 400 {
		t.Fatalf("expected symmetric 400, got %d", got)
	}
}

func TestStripZone(t *testing.T) {
	cases := map[string]string{
		"2024-01-02T09:15:00+05:30":     "2024-01-02T09:15:00",
		"2024-01-02T09:15:00-04:00":     "2024-01-02T09:15:00",
		"2024-01-02T09:15:00Z":          "2024-01-02T09:15:00",
		"2024-01-02T09:15:00.000+05:30": "2024-01-02T09:15:00.000",
		"2024-01-02T09:15:00":           "2024-01-02T09:15:00",
	}
	for in, want := range cases {
		got := StripZone(in)
		if got != want {
			t.Fatalf("StripZone(%q) = %q, want %q", in, got, want)
		}
		if again := StripZone(got); again != got {
			t.Fatalf("StripZone not idempotent for %q: %q", in, again)
		}
	}
}
