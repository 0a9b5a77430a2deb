package query

import (
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/team"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEAM PROGRESS SERIES QUERY
// Daily team totals over the trailing window, for trend charts.
// ══════════════════════════════════════════════════════════════════════════════

// TeamProgressSeriesQuery contains the parameters of a series request.
type TeamProgressSeriesQuery struct {
	// Days is the window length in calendar days ending today, inclusive.
	Days int
}

// Validate checks the query parameters.
func (q TeamProgressSeriesQuery) Validate() error {
	if q.Days <= 0 {
		return ErrEmptyWindow
	}
	return nil
}

// SeriesPoint is the team total for one calendar day.
type SeriesPoint struct {
	// Date is the ISO calendar date.
	Date string `json:"date"`

	// TotalSteps is the sum over all members of that date's entry.
	TotalSteps int `json:"total_steps"`
}

// TeamProgressSeries returns one point per day of the last q.Days calendar
// days ending today, oldest first. Days with no entries contribute zero.
func TeamProgressSeries(snapshot *team.Snapshot, today time.Time, q TeamProgressSeriesQuery) ([]SeriesPoint, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	points := make([]SeriesPoint, 0, q.Days)
	for _, date := range timeutil.TrailingDays(today, q.Days) {
		total := 0
		for _, m := range snapshot.Users {
			total += m.StepsOn(date)
		}
		points = append(points, SeriesPoint{Date: date, TotalSteps: total})
	}
	return points, nil
}
