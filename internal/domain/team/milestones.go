package team

// Milestone is one tier of the fixed all-time team step ladder.
type Milestone struct {
	// Threshold is the all-time total steps required for this tier.
	Threshold int

	// Title is the celebratory label for the tier.
	Title string

	// Description is the short praise line shown with the tier.
	Description string
}

// MilestoneLevels is the fixed ladder, highest first.
var MilestoneLevels = []Milestone{
	{10_000_000, "10 Million Steps!", "Incredible achievement!"},
	{5_000_000, "5 Million Steps!", "Outstanding effort!"},
	{1_000_000, "1 Million Steps!", "Amazing teamwork!"},
	{500_000, "500K Steps!", "Great progress!"},
	{100_000, "100K Steps!", "Nice start!"},
}

// MilestoneProgress is the milestone state for a given all-time total.
type MilestoneProgress struct {
	// Total is the all-time team step total the evaluation used.
	Total int

	// Achieved is the highest tier with Threshold <= Total, nil below the
	// lowest tier.
	Achieved *Milestone

	// Next is the lowest tier with Threshold > Total, nil at or above the
	// highest tier.
	Next *Milestone

	// Remaining is the gap to the next tier, 0 when Next is nil.
	Remaining int

	// Percent is Total as a percentage of the next tier's threshold, 0 when
	// Next is nil.
	Percent float64
}

// EvaluateMilestones selects the achieved and next tiers for a total.
// Selection is monotonic in the total: crossing a threshold flips exactly the
// tier at that threshold.
func EvaluateMilestones(total int) MilestoneProgress {
	progress := MilestoneProgress{Total: total}

	for i := range MilestoneLevels {
		if total >= MilestoneLevels[i].Threshold {
			progress.Achieved = &MilestoneLevels[i]
			break
		}
	}

	for i := len(MilestoneLevels) - 1; i >= 0; i-- {
		if total < MilestoneLevels[i].Threshold {
			progress.Next = &MilestoneLevels[i]
			progress.Remaining = MilestoneLevels[i].Threshold - total
			progress.Percent = float64(total) / float64(MilestoneLevels[i].Threshold) * 100
			break
		}
	}

	return progress
}
