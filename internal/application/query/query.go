// Package query contains read operations following CQRS pattern.
// Queries never modify state - each one is a pure computation over a store
// snapshot and a caller-supplied "today" (a civil date, never a timestamp),
// with its own request/response types. Malformed history date keys are
// skipped wherever a query parses dates; they never abort a computation.
package query

import (
	"errors"
	"math"
	"time"

	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

// Period selects the time window of a leaderboard or contribution query.
type Period string

const (
	// PeriodToday - the single day "today".
	PeriodToday Period = "today"

	// PeriodWeek - the 7-day trailing window ending today, inclusive.
	PeriodWeek Period = "week"
)

// IsValid checks that the period is one of the known windows.
func (p Period) IsValid() bool {
	return p == PeriodToday || p == PeriodWeek
}

// ErrUnknownPeriod is returned when a query names an unknown period.
var ErrUnknownPeriod = errors.New("query: unknown period")

// ErrEmptyWindow is returned when a windowed query asks for zero days.
var ErrEmptyWindow = errors.New("query: window must cover at least one day")

// round1 rounds to one decimal place, the precision every progress percent
// in the app is displayed with.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// todayKey is the history key for the caller's today.
func todayKey(today time.Time) string {
	return timeutil.FormatDay(today)
}
