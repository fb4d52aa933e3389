package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultLookbackDays = 7
	maxHistoryDays      = 365
	maxRangeDays        = 90
	dateLayout          = "2006-01-02"
)

// normalizeDateRange turns user supplied start/end strings into a bounded
// range ending no later than today. Malformed input never fails; it falls back
// to the last week.
func normalizeDateRange(startInput string, endInput string, today time.Time) (time.Time, time.Time) {
	today = calendarDay(today)

	start, err := parseDate(startInput)
	if err != nil {
		start = today.AddDate(0, 0, -defaultLookbackDays)
	}
	end, err := parseDate(endInput)
	if err != nil {
		end = today
	}
	start, end = calendarDay(start), calendarDay(end)

	if start.After(end) {
		start, end = end, start
	}
	if end.After(today) {
		end = today
	}
	if start.After(today) {
		start = today.AddDate(0, 0, -1)
	}
	oldest := today.AddDate(0, 0, -maxHistoryDays)
	if end.Before(oldest) {
		end = oldest
	}
	if daysBetween(start, end) > maxRangeDays {
		start = end.AddDate(0, 0, -maxRangeDays)
	}
	// a range lying wholly before the history window keeps its length above,
	// so the start still needs pulling into the window
	if start.Before(oldest) {
		start = oldest
	}
	return start, end
}

func daysBetween(from time.Time, to time.Time) int {
	return int(calendarDay(to).Sub(calendarDay(from)).Hours() / 24)
}

func withinRange(day time.Time, start time.Time, end time.Time) bool {
	day = calendarDay(day)
	return !day.Before(calendarDay(start)) && !day.After(calendarDay(end))
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	layouts := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"01-02-2006",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %s", value)
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return parseDate(value)
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(dateLayout)
}

// calendarDay keeps only the wall-clock date of value, pinned to UTC so dates
// read from different sources compare by day.
func calendarDay(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	y, m, d := value.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
