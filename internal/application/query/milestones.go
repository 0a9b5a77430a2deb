package query

import (
	"github.com/step-hub/team-step-hub/internal/domain/team"
)

// ══════════════════════════════════════════════════════════════════════════════
// MILESTONES QUERY
// Celebratory all-time markers over the fixed tier ladder.
// ══════════════════════════════════════════════════════════════════════════════

// MilestoneView is one tier for display.
type MilestoneView struct {
	Threshold   int    `json:"threshold"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MilestonesResult is the milestone state of the team.
type MilestonesResult struct {
	// Total is the all-time team step total.
	Total int `json:"total"`

	// Achieved is the highest reached tier, nil below the lowest.
	Achieved *MilestoneView `json:"achieved,omitempty"`

	// Next is the next tier ahead, nil at or above the highest.
	Next *MilestoneView `json:"next,omitempty"`

	// Remaining steps to the next tier, 0 when Next is nil.
	Remaining int `json:"remaining"`

	// Percent of the next tier's threshold already walked, 1-decimal.
	Percent float64 `json:"percent"`
}

// Milestones evaluates the milestone ladder over the team's all-time total.
func Milestones(snapshot *team.Snapshot) MilestonesResult {
	total := 0
	for _, m := range snapshot.Users {
		total += m.TotalSteps()
	}

	progress := team.EvaluateMilestones(total)
	result := MilestonesResult{
		Total:     progress.Total,
		Remaining: progress.Remaining,
		Percent:   round1(progress.Percent),
	}
	if progress.Achieved != nil {
		result.Achieved = &MilestoneView{
			Threshold:   progress.Achieved.Threshold,
			Title:       progress.Achieved.Title,
			Description: progress.Achieved.Description,
		}
	}
	if progress.Next != nil {
		result.Next = &MilestoneView{
			Threshold:   progress.Next.Threshold,
			Title:       progress.Next.Title,
			Description: progress.Next.Description,
		}
	}
	return result
}
