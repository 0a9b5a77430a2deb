package query

import (
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/team"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEAM STATISTICS QUERY
// The dashboard's aggregate view: participation, totals, averages, goal
// attainment, and streaks across the whole team.
// ══════════════════════════════════════════════════════════════════════════════

// TeamStats is the comprehensive team view.
type TeamStats struct {
	// TotalMembers is the number of known members.
	TotalMembers int `json:"total_members"`

	// ActiveToday counts members with steps > 0 today.
	ActiveToday int `json:"active_today"`

	// ActiveThisWeek counts members with any nonzero day in the 7-day
	// trailing window, each member at most once.
	ActiveThisWeek int `json:"active_this_week"`

	// TotalStepsAllTime sums every history entry of every member.
	TotalStepsAllTime int `json:"total_steps_all_time"`

	// TotalStepsToday sums today's entries.
	TotalStepsToday int `json:"total_steps_today"`

	// TotalStepsWeek sums the 7-day trailing window.
	TotalStepsWeek int `json:"total_steps_week"`

	// AvgStepsPerMemberToday is TotalStepsToday / TotalMembers (floor).
	AvgStepsPerMemberToday int `json:"avg_steps_per_member_today"`

	// AvgStepsPerMemberWeek is TotalStepsWeek / TotalMembers (floor).
	AvgStepsPerMemberWeek int `json:"avg_steps_per_member_week"`

	// AvgStepsPerMemberAllTime is TotalStepsAllTime / TotalMembers (floor).
	AvgStepsPerMemberAllTime int `json:"avg_steps_per_member_all_time"`

	// GoalsMetToday counts members whose today entry meets their daily goal.
	GoalsMetToday int `json:"goals_met_today"`

	// GoalsMetWeek counts members whose week total meets daily goal x 7.
	GoalsMetWeek int `json:"goals_met_week"`

	// LongestStreak is the longest current streak across members, 0 if none.
	LongestStreak int `json:"longest_streak"`

	// AvgStreak is the floor average of current streaks, 0 if none.
	AvgStreak int `json:"avg_streak"`

	// ParticipationRate is ActiveThisWeek as a percent of members.
	ParticipationRate float64 `json:"participation_rate"`

	// GoalSuccessRate is GoalsMetWeek as a percent of members.
	GoalSuccessRate float64 `json:"goal_success_rate"`
}

// TeamStatistics computes the full team view as of today. It returns nil
// when there are no members at all - the "no data" sentinel, not an error.
func TeamStatistics(snapshot *team.Snapshot, today time.Time) *TeamStats {
	if len(snapshot.Users) == 0 {
		return nil
	}

	stats := &TeamStats{TotalMembers: len(snapshot.Users)}
	day := todayKey(today)
	streakSum := 0

	for _, m := range snapshot.Users {
		stats.TotalStepsAllTime += m.TotalSteps()

		todaySteps := m.StepsOn(day)
		stats.TotalStepsToday += todaySteps
		if todaySteps > 0 {
			stats.ActiveToday++
		}
		if todaySteps >= m.DailyGoal {
			stats.GoalsMetToday++
		}

		weekSteps := m.WeekTotal(today)
		stats.TotalStepsWeek += weekSteps
		if m.ActiveInWindow(today, 7) {
			stats.ActiveThisWeek++
		}
		if weekSteps >= m.DailyGoal*7 {
			stats.GoalsMetWeek++
		}

		streak := m.Streak(today)
		streakSum += streak
		if streak > stats.LongestStreak {
			stats.LongestStreak = streak
		}
	}

	stats.AvgStepsPerMemberToday = stats.TotalStepsToday / stats.TotalMembers
	stats.AvgStepsPerMemberWeek = stats.TotalStepsWeek / stats.TotalMembers
	stats.AvgStepsPerMemberAllTime = stats.TotalStepsAllTime / stats.TotalMembers
	stats.AvgStreak = streakSum / stats.TotalMembers
	stats.ParticipationRate = round1(float64(stats.ActiveThisWeek) / float64(stats.TotalMembers) * 100)
	stats.GoalSuccessRate = round1(float64(stats.GoalsMetWeek) / float64(stats.TotalMembers) * 100)

	return stats
}
