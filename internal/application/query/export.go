package query

import (
	"sort"

	"github.com/step-hub/team-step-hub/internal/domain/team"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT QUERY
// Flattens all stored history into normalized rows for external consumption,
// renderable as delimited text with header "Date,User,Steps,Daily Goal".
// ══════════════════════════════════════════════════════════════════════════════

// ExportRow is one (member, date) history entry.
type ExportRow struct {
	// Date is the ISO calendar date of the entry.
	Date string `json:"date"`

	// User is the member's username.
	User string `json:"user"`

	// Steps logged on that date.
	Steps int `json:"steps"`

	// DailyGoal is the member's goal at export time - goals are not
	// versioned, so this is the current goal, not the goal active on the
	// entry's date.
	DailyGoal int `json:"daily_goal"`
}

// ExportRows returns one row per history entry across all members, sorted by
// (date, user) ascending.
func ExportRows(snapshot *team.Snapshot) []ExportRow {
	var rows []ExportRow
	for _, name := range snapshot.Usernames() {
		m := snapshot.Member(name)
		for date, steps := range m.History {
			rows = append(rows, ExportRow{
				Date:      date,
				User:      name,
				Steps:     steps,
				DailyGoal: m.DailyGoal,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].User < rows[j].User
	})
	return rows
}
