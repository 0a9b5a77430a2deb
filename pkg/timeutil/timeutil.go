// Package timeutil provides civil-date utilities for Team Step Hub.
// All step history is keyed by ISO-8601 calendar dates ("2006-01-02") with no
// time-of-day or timezone component: "today" is whatever single civil date the
// caller supplies, never a timestamp.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// DayLayout is the ISO-8601 calendar date layout used for all history keys.
const DayLayout = "2006-01-02"

// ParseDay parses an ISO calendar date string into a midnight-UTC time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDay formats a time as an ISO calendar date string.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// Day truncates a time to its civil date (midnight UTC).
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current civil date of the calling process.
// Core computations never call this; it exists for outer layers that need a
// default when the caller has no better notion of "today".
func Today() time.Time {
	return Day(time.Now())
}

// AddDays returns the civil date n days after t (negative n goes backward).
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// MondayOf returns the Monday of the calendar week containing t.
func MondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return AddDays(t, -(weekday - 1)) // Monday = 1
}

// SundayOf returns the Sunday ending the calendar week containing t.
func SundayOf(t time.Time) time.Time {
	return AddDays(MondayOf(t), 6)
}

// DaysBetween returns the number of civil days from a to b (b - a).
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// TrailingDays returns the date keys of the window of n days ending at today,
// inclusive, oldest first.
func TrailingDays(today time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, FormatDay(AddDays(today, -i)))
	}
	return days
}

// InRange reports whether d falls within [start, end] inclusive.
func InRange(d, start, end time.Time) bool {
	d = Day(d)
	return !d.Before(Day(start)) && !d.After(Day(end))
}
