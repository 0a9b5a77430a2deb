package query

import (
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/challenge"
	"github.com/step-hub/team-step-hub/internal/domain/team"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGE STATUS QUERY
// The challenge card: settings, range-inclusive progress, and pace.
// ══════════════════════════════════════════════════════════════════════════════

// ChallengeStatusResult is the displayable state of the team challenge.
type ChallengeStatusResult struct {
	// Configured reports whether any challenge (active or ended) exists.
	Configured bool `json:"configured"`

	// Active reports whether the challenge is running.
	Active bool `json:"active"`

	// TeamGoal is the total team step target.
	TeamGoal int `json:"team_goal"`

	// StartDate, EndDate, TargetEndDate mirror the challenge record; empty
	// strings mean unset.
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TargetEndDate string `json:"target_end_date"`

	// Progress is the inclusive-range team step sum.
	Progress int `json:"progress"`

	// ProgressPercent is Progress against TeamGoal, 1-decimal, capped at 100.
	ProgressPercent float64 `json:"progress_percent"`

	// Pace is the pacing derivation, nil when undefined (inactive challenge,
	// unparsable dates).
	Pace *challenge.Pace `json:"pace,omitempty"`
}

// ChallengeStatus computes the challenge card as of today. An unconfigured
// challenge yields Configured == false with zero values.
func ChallengeStatus(snapshot *team.Snapshot, today time.Time) ChallengeStatusResult {
	c := snapshot.Challenge
	result := ChallengeStatusResult{
		Configured:    c.Configured(),
		Active:        c.Active,
		TeamGoal:      c.TeamGoal,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		TargetEndDate: c.TargetEndDate,
	}
	if !result.Configured {
		return result
	}

	result.Progress = c.ProgressInRange(snapshot.Users, today)
	if c.TeamGoal > 0 {
		pct := float64(result.Progress) / float64(c.TeamGoal) * 100
		if pct > 100 {
			pct = 100
		}
		result.ProgressPercent = round1(pct)
	}

	if pace, ok := c.PaceAt(result.Progress, today); ok {
		result.Pace = &pace
	}
	return result
}
