package query

import (
	"sort"
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/internal/domain/team"
)

// ══════════════════════════════════════════════════════════════════════════════
// MEMBER STATS QUERY
// One member's lifetime view: totals, averages, goal attainment, streak, and
// the most recent entries.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultRecentLimit is how many recent entries are returned when the caller
// does not say.
const DefaultRecentLimit = 10

// MemberStatsQuery contains the parameters of a member stats request.
type MemberStatsQuery struct {
	// Username names the member.
	Username string

	// RecentLimit caps the recent-entries list (default DefaultRecentLimit).
	RecentLimit int
}

// Validate checks and defaults the query parameters.
func (q *MemberStatsQuery) Validate() error {
	if q.Username == "" {
		return shared.ErrEmptyUsername
	}
	if q.RecentLimit <= 0 {
		q.RecentLimit = DefaultRecentLimit
	}
	return nil
}

// HistoryEntry is one logged day for display.
type HistoryEntry struct {
	// Date is the ISO calendar date.
	Date string `json:"date"`

	// Steps logged on that date.
	Steps int `json:"steps"`

	// GoalMet reports whether the member's current daily goal was reached.
	GoalMet bool `json:"goal_met"`

	// ProgressPercent is steps against the current daily goal, 1-decimal.
	ProgressPercent float64 `json:"progress_percent"`
}

// MemberStatsResult is a member's lifetime view.
type MemberStatsResult struct {
	Username      string `json:"username"`
	DailyGoal     int    `json:"daily_goal"`
	DaysLogged    int    `json:"days_logged"`
	TotalSteps    int    `json:"total_steps"`
	AvgPerDay     int    `json:"avg_per_day"` // floor over logged days, 0 when none
	GoalsMet      int    `json:"goals_met"`
	TodaySteps    int    `json:"today_steps"`
	CurrentStreak int    `json:"current_streak"`

	// Recent lists the latest entries, newest first.
	Recent []HistoryEntry `json:"recent"`
}

// MemberStats computes one member's lifetime view as of today. Unknown
// members yield shared.ErrNotFound.
func MemberStats(snapshot *team.Snapshot, today time.Time, q MemberStatsQuery) (*MemberStatsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	m := snapshot.Member(q.Username)
	if m == nil {
		return nil, shared.NewDomainError("query", "MemberStats", shared.ErrNotFound, "unknown member")
	}

	result := &MemberStatsResult{
		Username:      q.Username,
		DailyGoal:     m.DailyGoal,
		DaysLogged:    m.DaysLogged(),
		TotalSteps:    m.TotalSteps(),
		TodaySteps:    m.StepsOn(todayKey(today)),
		CurrentStreak: m.Streak(today),
	}
	if result.DaysLogged > 0 {
		result.AvgPerDay = result.TotalSteps / result.DaysLogged
	}

	dates := make([]string, 0, len(m.History))
	for date, steps := range m.History {
		dates = append(dates, date)
		if steps >= m.DailyGoal {
			result.GoalsMet++
		}
	}
	// ISO dates sort chronologically as strings; newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > q.RecentLimit {
		dates = dates[:q.RecentLimit]
	}

	result.Recent = make([]HistoryEntry, 0, len(dates))
	for _, date := range dates {
		steps := m.StepsOn(date)
		entry := HistoryEntry{Date: date, Steps: steps, GoalMet: steps >= m.DailyGoal}
		if m.DailyGoal > 0 {
			entry.ProgressPercent = round1(float64(steps) / float64(m.DailyGoal) * 100)
		}
		result.Recent = append(result.Recent, entry)
	}

	return result, nil
}
