// Package weeklygoal contains the recurring Monday-Sunday team goal and its
// progress derivation.
package weeklygoal

import (
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/member"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

// WeeklyGoal is the single retained weekly team goal. Setting a new goal
// overwrites it and stamps the Monday of the week containing the caller's
// today, regardless of which week the caller intended.
type WeeklyGoal struct {
	// Goal is the team step target for the week (>= 0, 0 means unset).
	Goal int `json:"goal"`

	// WeekStart is the ISO date of the Monday of the week the goal was set
	// in, empty when no goal has ever been set.
	WeekStart string `json:"weekStart"`
}

// Set returns a weekly goal stamped with the current week's Monday.
func Set(goal int, today time.Time) WeeklyGoal {
	return WeeklyGoal{
		Goal:      goal,
		WeekStart: timeutil.FormatDay(timeutil.MondayOf(today)),
	}
}

// IsSet reports whether a weekly goal is in effect.
func (w WeeklyGoal) IsSet() bool {
	return w.Goal > 0
}

// ProgressThisWeek sums all members' steps from Monday of the current week
// through today. The window never projects past today, and it is always the
// week containing today at query time: a stale goal left over from a prior
// week is still measured against the current week's steps.
func ProgressThisWeek(users map[string]*member.Member, today time.Time) int {
	start := timeutil.MondayOf(today)
	end := timeutil.Day(today)
	total := 0
	for _, m := range users {
		total += m.SumRange(start, end)
	}
	return total
}

// ProgressPercent returns progress as a percentage of the goal, capped at
// 100. A zero goal yields 0.
func (w WeeklyGoal) ProgressPercent(progress int) float64 {
	if w.Goal <= 0 {
		return 0
	}
	pct := float64(progress) / float64(w.Goal) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
