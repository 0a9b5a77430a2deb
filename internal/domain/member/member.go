// Package member contains the domain model for a tracked team member.
// This is core business logic - per-day history reads, window sums, and
// streaks live here, with no infrastructure dependencies.
package member

import (
	"strings"
	"time"

	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Username identifies a member. Usernames are case-sensitive and act as the
// primary key of the users section.
type Username string

// IsValid checks that the username is non-empty after trimming.
func (u Username) IsValid() bool {
	return strings.TrimSpace(string(u)) != ""
}

// String returns the string representation of the username.
func (u Username) String() string {
	return string(u)
}

// DefaultDailyGoal is the daily step goal assigned on lazy creation.
const DefaultDailyGoal = 10000

// StreakLookbackDays bounds how far back a streak computation walks.
const StreakLookbackDays = 30

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Member is a tracked participant: a daily goal and a date→steps history with
// at most one entry per calendar date.
type Member struct {
	// Name is the username; it is the key of the users section, so it is not
	// serialized inside the member document itself.
	Name string `json:"-"`

	// DailyGoal is the member's daily step goal in steps (always > 0).
	DailyGoal int `json:"dailyGoal"`

	// History maps ISO calendar dates to non-negative step counts.
	History map[string]int `json:"history"`
}

// New creates a member with the default daily goal and empty history.
func New(name string) *Member {
	return &Member{
		Name:      name,
		DailyGoal: DefaultDailyGoal,
		History:   make(map[string]int),
	}
}

// Clone returns a deep copy of the member.
func (m *Member) Clone() *Member {
	history := make(map[string]int, len(m.History))
	for date, steps := range m.History {
		history[date] = steps
	}
	return &Member{Name: m.Name, DailyGoal: m.DailyGoal, History: history}
}

// StepsOn returns the steps logged for the given date, 0 when absent.
func (m *Member) StepsOn(date string) int {
	return m.History[date]
}

// SetSteps records steps for a date, overwriting any existing entry.
// Re-logging replaces, never accumulates.
func (m *Member) SetSteps(date string, steps int) {
	if m.History == nil {
		m.History = make(map[string]int)
	}
	m.History[date] = steps
}

// GoalMetOn reports whether the member met their daily goal on the given date.
func (m *Member) GoalMetOn(date string) bool {
	return m.StepsOn(date) >= m.DailyGoal
}

// ══════════════════════════════════════════════════════════════════════════════
// WINDOWED ANALYTICS
// ══════════════════════════════════════════════════════════════════════════════

// WindowTotal sums the trailing window of n days ending at today, inclusive.
// The window is probed by exact date key, so malformed history keys simply
// never match and contribute nothing.
func (m *Member) WindowTotal(today time.Time, days int) int {
	total := 0
	for i := 0; i < days; i++ {
		total += m.StepsOn(timeutil.FormatDay(timeutil.AddDays(today, -i)))
	}
	return total
}

// WeekTotal sums the 7-day trailing window ending at today.
func (m *Member) WeekTotal(today time.Time) int {
	return m.WindowTotal(today, 7)
}

// TotalSteps sums every history entry regardless of date.
func (m *Member) TotalSteps() int {
	total := 0
	for _, steps := range m.History {
		total += steps
	}
	return total
}

// DaysLogged returns the number of dates with a history entry.
func (m *Member) DaysLogged() int {
	return len(m.History)
}

// SumRange sums history entries whose date falls within [start, end]
// inclusive. History keys that fail date parsing are skipped, never fatal.
func (m *Member) SumRange(start, end time.Time) int {
	total := 0
	for key, steps := range m.History {
		d, err := timeutil.ParseDay(key)
		if err != nil {
			continue
		}
		if timeutil.InRange(d, start, end) {
			total += steps
		}
	}
	return total
}

// ActiveInWindow reports whether any day of the trailing n-day window ending
// at today has steps > 0.
func (m *Member) ActiveInWindow(today time.Time, days int) bool {
	for i := 0; i < days; i++ {
		if m.StepsOn(timeutil.FormatDay(timeutil.AddDays(today, -i))) > 0 {
			return true
		}
	}
	return false
}

// Streak counts consecutive days, starting at today and walking backward up
// to StreakLookbackDays, on which the member met or exceeded their daily
// goal. The count stops at the first day where the goal was missed or no
// entry exists.
func (m *Member) Streak(today time.Time) int {
	streak := 0
	for i := 0; i < StreakLookbackDays; i++ {
		if !m.GoalMetOn(timeutil.FormatDay(timeutil.AddDays(today, -i))) {
			break
		}
		streak++
	}
	return streak
}
