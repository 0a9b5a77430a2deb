// Package challenge contains the domain model for the optional team step
// challenge: its start/active/ended lifecycle, inclusive-range progress, and
// pace derivations.
package challenge

import (
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/member"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

// Challenge is the single team-wide challenge record. At most one exists at a
// time; starting a new one discards the previous settings while leaving all
// step history untouched.
type Challenge struct {
	// Active reports whether the challenge is running.
	Active bool `json:"active"`

	// TeamGoal is the total team step target (> 0 when configured).
	TeamGoal int `json:"teamGoal"`

	// StartDate is the ISO date the challenge started (required when active).
	StartDate string `json:"startDate"`

	// EndDate is the ISO date the challenge ended, empty while active.
	// Stamped only on end; retained afterward for historical display.
	EndDate string `json:"endDate"`

	// TargetEndDate is an optional planning target, empty when unset.
	TargetEndDate string `json:"targetEndDate"`
}

// Start returns a freshly started challenge. Restarting while active simply
// overwrites: Active→Active with new parameters is a valid transition.
func Start(teamGoal int, startDate, targetEndDate string) Challenge {
	return Challenge{
		Active:        true,
		TeamGoal:      teamGoal,
		StartDate:     startDate,
		EndDate:       "",
		TargetEndDate: targetEndDate,
	}
}

// End transitions Active→Inactive, stamping the end date. All fields are
// retained so the ended challenge remains displayable.
func (c *Challenge) End(endDate string) {
	c.Active = false
	c.EndDate = endDate
}

// Configured reports whether the challenge has ever been set up, active or
// ended. An unconfigured challenge has nothing to display.
func (c Challenge) Configured() bool {
	return c.TeamGoal > 0 && c.StartDate != ""
}

// ProgressInRange sums every member's history entries dated within
// [StartDate, EndDate-or-today] inclusive. Entries outside the range and
// unparsable date keys contribute zero; a malformed start date makes the
// whole range unreadable and yields zero rather than an error.
func (c Challenge) ProgressInRange(users map[string]*member.Member, today time.Time) int {
	if c.StartDate == "" {
		return 0
	}
	start, err := timeutil.ParseDay(c.StartDate)
	if err != nil {
		return 0
	}
	end := timeutil.Day(today)
	if c.EndDate != "" {
		if parsed, err := timeutil.ParseDay(c.EndDate); err == nil {
			end = parsed
		}
	}

	total := 0
	for _, m := range users {
		total += m.SumRange(start, end)
	}
	return total
}

// ══════════════════════════════════════════════════════════════════════════════
// PACE
// ══════════════════════════════════════════════════════════════════════════════

// PaceMode describes which pacing derivation applies.
type PaceMode string

const (
	// PaceTarget - a target end date is ahead; steps/day to hit it is defined.
	PaceTarget PaceMode = "target"

	// PaceTargetToday - the target end date is today; no per-day division.
	PaceTargetToday PaceMode = "target_today"

	// PaceTargetPassed - the target end date is behind today; no pacing shown.
	PaceTargetPassed PaceMode = "target_passed"

	// PaceAverage - no target date; pace is the running daily average.
	PaceAverage PaceMode = "average"
)

// Pace is the pacing derivation for an active challenge.
type Pace struct {
	// Mode selects which of the fields below are meaningful.
	Mode PaceMode

	// DaysLeft until the target end date (PaceTarget, PaceTargetToday).
	DaysLeft int

	// StepsPerDay needed to reach the goal by the target date (PaceTarget).
	StepsPerDay float64

	// DaysIn since the start date, at least 1 (PaceAverage).
	DaysIn int

	// AvgPerDay is progress divided by DaysIn (PaceAverage).
	AvgPerDay float64

	// Remaining steps to the team goal, never negative.
	Remaining int

	// DaysToGoal at the current average pace (PaceAverage, when HasDaysToGoal).
	DaysToGoal int

	// HasDaysToGoal reports whether DaysToGoal is defined.
	HasDaysToGoal bool
}

// PaceAt derives pacing for the given progress as of today. It returns false
// when the challenge is not active, the relevant dates are unset or
// unparsable, or pacing is otherwise undefined.
func (c Challenge) PaceAt(progress int, today time.Time) (Pace, bool) {
	if !c.Active {
		return Pace{}, false
	}
	remaining := c.TeamGoal - progress
	if remaining < 0 {
		remaining = 0
	}

	if c.TargetEndDate != "" {
		target, err := timeutil.ParseDay(c.TargetEndDate)
		if err != nil {
			return Pace{}, false
		}
		daysLeft := timeutil.DaysBetween(today, target)
		if daysLeft < 0 {
			return Pace{Mode: PaceTargetPassed, Remaining: remaining}, true
		}
		if daysLeft == 0 {
			return Pace{Mode: PaceTargetToday, Remaining: remaining}, true
		}
		return Pace{
			Mode:        PaceTarget,
			DaysLeft:    daysLeft,
			StepsPerDay: float64(remaining) / float64(daysLeft),
			Remaining:   remaining,
		}, true
	}

	start, err := timeutil.ParseDay(c.StartDate)
	if err != nil {
		return Pace{}, false
	}
	daysIn := timeutil.DaysBetween(start, today)
	if daysIn < 1 {
		daysIn = 1
	}
	avg := float64(progress) / float64(daysIn)
	pace := Pace{
		Mode:      PaceAverage,
		DaysIn:    daysIn,
		AvgPerDay: avg,
		Remaining: remaining,
	}
	if avg > 0 && remaining > 0 {
		pace.DaysToGoal = int(float64(remaining) / avg)
		pace.HasDaysToGoal = true
	}
	return pace, true
}
