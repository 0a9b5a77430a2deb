package query

import (
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/team"
	"github.com/step-hub/team-step-hub/internal/domain/weeklygoal"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEEKLY GOAL STATUS QUERY
// The weekly goal card: the stored goal measured against the current week.
// ══════════════════════════════════════════════════════════════════════════════

// WeeklyGoalStatusResult is the displayable state of the weekly team goal.
type WeeklyGoalStatusResult struct {
	// Set reports whether a goal is in effect.
	Set bool `json:"set"`

	// Goal is the weekly team step target.
	Goal int `json:"goal"`

	// StoredWeekStart is the Monday stamped when the goal was set. It may
	// belong to a prior week; progress below is still the current week's.
	StoredWeekStart string `json:"stored_week_start"`

	// WeekStart and WeekEnd bound the current calendar week (Monday-Sunday).
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`

	// Progress is the team's Monday-through-today step sum of the current
	// week. A stale goal from a prior week is measured against this sum
	// unchanged - deliberate, observable behavior.
	Progress int `json:"progress"`

	// ProgressPercent is Progress against Goal, 1-decimal, capped at 100.
	ProgressPercent float64 `json:"progress_percent"`
}

// WeeklyGoalStatus computes the weekly goal card as of today.
func WeeklyGoalStatus(snapshot *team.Snapshot, today time.Time) WeeklyGoalStatusResult {
	wg := snapshot.WeeklyGoal
	result := WeeklyGoalStatusResult{
		Set:             wg.IsSet(),
		Goal:            wg.Goal,
		StoredWeekStart: wg.WeekStart,
		WeekStart:       timeutil.FormatDay(timeutil.MondayOf(today)),
		WeekEnd:         timeutil.FormatDay(timeutil.SundayOf(today)),
	}

	result.Progress = weeklygoal.ProgressThisWeek(snapshot.Users, today)
	result.ProgressPercent = round1(wg.ProgressPercent(result.Progress))
	return result
}
