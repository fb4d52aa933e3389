package main

import (
	"testing"
	"time"
)

func TestNormalizeDateRange(t *testing.T) {
	today := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	day := func(value string) time.Time {
		parsed, err := time.Parse(dateLayout, value)
		if err != nil {
			t.Fatalf("parse %s: %v", value, err)
		}
		return parsed
	}

	cases := []struct {
		name      string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"defaults", "", "", today.AddDate(0, 0, -7), today},
		{"malformed", "yesterday-ish", "31/31/2026", today.AddDate(0, 0, -7), today},
		{"swapped", "2026-01-20", "2026-01-10", day("2026-01-10"), day("2026-01-20")},
		{"future end", "2026-01-20", "2026-03-01", day("2026-01-20"), today},
		{"both future", "2026-02-10", "2026-02-20", today.AddDate(0, 0, -1), today},
		{"long range", "2025-06-01", "2026-01-31", day("2026-01-31").AddDate(0, 0, -90), day("2026-01-31")},
		{"older than a year", "2024-01-01", "2024-02-01", today.AddDate(0, 0, -365), today.AddDate(0, 0, -365)},
		{"short range before history", "2025-01-01", "2025-01-20", today.AddDate(0, 0, -365), today.AddDate(0, 0, -365)},
		{"other layout", "2026/01/05", "01/15/2026", day("2026-01-05"), day("2026-01-15")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := normalizeDateRange(tc.start, tc.end, today)
			if !start.Equal(tc.wantStart) {
				t.Fatalf("start: expected %s, got %s", formatDate(tc.wantStart), formatDate(start))
			}
			if !end.Equal(tc.wantEnd) {
				t.Fatalf("end: expected %s, got %s", formatDate(tc.wantEnd), formatDate(end))
			}
		})
	}
}

func TestNormalizeDateRangeBounds(t *testing.T) {
	today := time.Date(2026, 10, 18, 15, 30, 0, 0, time.Local)
	floor := calendarDay(today).AddDate(0, 0, -365)
	inputs := []string{"", "garbage", "2020-01-01", "2025-10-01", "2025-12-31", "2026-07-04", "2026-10-17", "2026-10-18", "2026-10-19", "2027-01-01"}

	for _, startInput := range inputs {
		for _, endInput := range inputs {
			start, end := normalizeDateRange(startInput, endInput, today)
			if start.After(end) {
				t.Fatalf("%q..%q: start %s after end %s", startInput, endInput, formatDate(start), formatDate(end))
			}
			if end.After(calendarDay(today)) {
				t.Fatalf("%q..%q: end %s after today", startInput, endInput, formatDate(end))
			}
			if start.Before(floor) {
				t.Fatalf("%q..%q: start %s older than a year", startInput, endInput, formatDate(start))
			}
			if daysBetween(start, end) > maxRangeDays {
				t.Fatalf("%q..%q: range %d days too long", startInput, endInput, daysBetween(start, end))
			}
		}
	}
}

func TestParseDateLayouts(t *testing.T) {
	for _, value := range []string{"2026-01-05", "2026/01/05", "01/05/2026", "01-05-2026", "2026-01-05 08:15:00", "2026-01-05T08:15:00", "2026-01-05T08:15:00Z"} {
		parsed, err := parseDate(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if got := formatDate(calendarDay(parsed)); got != "2026-01-05" {
			t.Fatalf("parse %q: expected 2026-01-05, got %s", value, got)
		}
	}
	if _, err := parseDate("  "); err == nil {
		t.Fatalf("expected error for blank date")
	}
}
