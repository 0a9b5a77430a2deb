package query

import (
	"sort"
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/team"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD QUERY
// Ranks every member by steps in the chosen window. Ordering is stable:
// members with equal steps keep the store's username order.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardQuery contains the parameters of a leaderboard request.
type LeaderboardQuery struct {
	// Period is the ranking window, today or week.
	Period Period
}

// Validate checks the query parameters.
func (q LeaderboardQuery) Validate() error {
	if !q.Period.IsValid() {
		return ErrUnknownPeriod
	}
	return nil
}

// LeaderboardRow is one ranked member.
type LeaderboardRow struct {
	// User is the member's username.
	User string `json:"user"`

	// Steps in the window: today's entry, or the 7-day trailing sum.
	Steps int `json:"steps"`

	// Goal is the member's daily goal, multiplied by 7 for the week window.
	Goal int `json:"goal"`

	// ProgressPercent is steps/goal*100 rounded to 1 decimal, 0 when the
	// goal is 0.
	ProgressPercent float64 `json:"progress_percent"`
}

// Leaderboard ranks all members for the window ending at today. Rows are
// sorted by steps descending; ties preserve username order.
func Leaderboard(snapshot *team.Snapshot, today time.Time, q LeaderboardQuery) ([]LeaderboardRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	names := snapshot.Usernames()
	rows := make([]LeaderboardRow, 0, len(names))
	for _, name := range names {
		m := snapshot.Member(name)

		var steps, goal int
		switch q.Period {
		case PeriodToday:
			steps = m.StepsOn(todayKey(today))
			goal = m.DailyGoal
		case PeriodWeek:
			steps = m.WeekTotal(today)
			goal = m.DailyGoal * 7
		}

		row := LeaderboardRow{User: name, Steps: steps, Goal: goal}
		if goal > 0 {
			row.ProgressPercent = round1(float64(steps) / float64(goal) * 100)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Steps > rows[j].Steps
	})
	return rows, nil
}
