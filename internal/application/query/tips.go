package query

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// TEAM TIPS QUERY
// Rule-based nudges for the dashboard, derived from TeamStats.
// ══════════════════════════════════════════════════════════════════════════════

// Thresholds for the tip rules.
const (
	lowParticipationPercent = 50
	lowGoalSuccessPercent   = 30
	lowDailyAverageSteps    = 5000
	notableStreakDays       = 7
)

// TeamTips returns dashboard nudges for the given stats. A nil stats (no
// members) yields no tips. When nothing needs nudging the single default
// praise line is returned.
func TeamTips(stats *TeamStats) []string {
	if stats == nil {
		return nil
	}

	var tips []string
	if stats.ParticipationRate < lowParticipationPercent {
		tips = append(tips, "Reminder: encourage inactive members to log their steps!")
	}
	if stats.GoalSuccessRate < lowGoalSuccessPercent {
		tips = append(tips, "Tip: consider adjusting individual goals to be more achievable")
	}
	if stats.AvgStepsPerMemberToday < lowDailyAverageSteps {
		tips = append(tips, "Challenge: try a lunchtime walking meeting to boost today's steps")
	}
	if stats.LongestStreak >= notableStreakDays {
		tips = append(tips, fmt.Sprintf("Amazing: someone has a %d-day streak! Keep it going!", stats.LongestStreak))
	}

	if len(tips) == 0 {
		tips = append(tips, "Great job! Your team is doing fantastic. Keep up the momentum!")
	}
	return tips
}
