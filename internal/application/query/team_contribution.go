package query

import (
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/team"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEAM CONTRIBUTION QUERY
// Per-member share of the team's steps in a window, for contribution charts.
// ══════════════════════════════════════════════════════════════════════════════

// TeamContributionQuery contains the parameters of a contribution request.
type TeamContributionQuery struct {
	// Period is the window, today or week (same windows as the leaderboard).
	Period Period
}

// Validate checks the query parameters.
func (q TeamContributionQuery) Validate() error {
	if !q.Period.IsValid() {
		return ErrUnknownPeriod
	}
	return nil
}

// TeamContribution returns each member's steps in the window, restricted to
// members with steps > 0. An empty result means "no data", not an error.
func TeamContribution(snapshot *team.Snapshot, today time.Time, q TeamContributionQuery) (map[string]int, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	contributions := make(map[string]int)
	for name, m := range snapshot.Users {
		var steps int
		switch q.Period {
		case PeriodToday:
			steps = m.StepsOn(todayKey(today))
		case PeriodWeek:
			steps = m.WeekTotal(today)
		}
		if steps > 0 {
			contributions[name] = steps
		}
	}
	return contributions, nil
}
