package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/step-hub/team-step-hub/internal/domain/member"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

func teamOf(members ...*member.Member) map[string]*member.Member {
	users := make(map[string]*member.Member, len(members))
	for _, m := range members {
		users[m.Name] = m
	}
	return users
}

func TestStartAndEndLifecycle(t *testing.T) {
	c := Start(100000, "2024-06-01", "2024-06-30")
	assert.True(t, c.Active)
	assert.True(t, c.Configured())
	assert.Equal(t, 100000, c.TeamGoal)
	assert.Equal(t, "", c.EndDate)

	c.End("2024-06-20")
	assert.False(t, c.Active)
	assert.True(t, c.Configured())
	assert.Equal(t, "2024-06-20", c.EndDate)
	assert.Equal(t, "2024-06-01", c.StartDate)
	assert.Equal(t, 100000, c.TeamGoal)
}

func TestRestartOverwrites(t *testing.T) {
	c := Start(100000, "2024-06-01", "")
	c = Start(50000, "2024-07-01", "2024-07-31")

	assert.True(t, c.Active)
	assert.Equal(t, 50000, c.TeamGoal)
	assert.Equal(t, "2024-07-01", c.StartDate)
	assert.Equal(t, "", c.EndDate)
}

func TestConfigured(t *testing.T) {
	assert.False(t, Challenge{}.Configured())
	assert.False(t, Challenge{TeamGoal: 100}.Configured())
	assert.True(t, Challenge{TeamGoal: 100, StartDate: "2024-06-01"}.Configured())
}

func TestProgressInRangeInclusive(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-15")

	alice := member.New("alice")
	alice.SetSteps("2024-05-31", 1000) // before start
	alice.SetSteps("2024-06-01", 2000) // on start
	alice.SetSteps("2024-06-15", 4000) // today

	bob := member.New("bob")
	bob.SetSteps("2024-06-10", 8000)
	bob.SetSteps("2024-06-16", 16000) // after today

	c := Start(100000, "2024-06-01", "")
	assert.Equal(t, 14000, c.ProgressInRange(teamOf(alice, bob), today))
}

func TestProgressInRangeUsesEndDateWhenEnded(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-30")

	alice := member.New("alice")
	alice.SetSteps("2024-06-10", 1000)
	alice.SetSteps("2024-06-25", 2000) // after the end date

	c := Start(100000, "2024-06-01", "")
	c.End("2024-06-20")

	assert.Equal(t, 1000, c.ProgressInRange(teamOf(alice), today))
}

func TestProgressInRangeMalformedStart(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-15")

	alice := member.New("alice")
	alice.SetSteps("2024-06-10", 1000)

	c := Challenge{Active: true, TeamGoal: 100, StartDate: "junk"}
	assert.Equal(t, 0, c.ProgressInRange(teamOf(alice), today))
}

func TestPaceInactive(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-15")

	c := Start(100000, "2024-06-01", "")
	c.End("2024-06-10")

	_, ok := c.PaceAt(50000, today)
	assert.False(t, ok)
}

func TestPaceTargetAhead(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-15")

	c := Start(100000, "2024-06-01", "2024-06-25")
	pace, ok := c.PaceAt(40000, today)
	assert.True(t, ok)
	assert.Equal(t, PaceTarget, pace.Mode)
	assert.Equal(t, 10, pace.DaysLeft)
	assert.Equal(t, 60000, pace.Remaining)
	assert.InDelta(t, 6000.0, pace.StepsPerDay, 0.001)
}

func TestPaceTargetToday(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-25")

	c := Start(100000, "2024-06-01", "2024-06-25")
	pace, ok := c.PaceAt(90000, today)
	assert.True(t, ok)
	assert.Equal(t, PaceTargetToday, pace.Mode)
	assert.Equal(t, 10000, pace.Remaining)
}

func TestPaceTargetPassed(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-07-01")

	c := Start(100000, "2024-06-01", "2024-06-25")
	pace, ok := c.PaceAt(90000, today)
	assert.True(t, ok)
	assert.Equal(t, PaceTargetPassed, pace.Mode)
}

func TestPaceAverage(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-11")

	c := Start(100000, "2024-06-01", "")
	pace, ok := c.PaceAt(20000, today)
	assert.True(t, ok)
	assert.Equal(t, PaceAverage, pace.Mode)
	assert.Equal(t, 10, pace.DaysIn)
	assert.InDelta(t, 2000.0, pace.AvgPerDay, 0.001)
	assert.Equal(t, 80000, pace.Remaining)
	assert.True(t, pace.HasDaysToGoal)
	assert.Equal(t, 40, pace.DaysToGoal)
}

func TestPaceAverageOnStartDay(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-01")

	// Day one still divides by at least one day.
	c := Start(100000, "2024-06-01", "")
	pace, ok := c.PaceAt(0, today)
	assert.True(t, ok)
	assert.Equal(t, 1, pace.DaysIn)
	assert.Equal(t, 0.0, pace.AvgPerDay)
	assert.False(t, pace.HasDaysToGoal)
}

func TestPaceGoalAlreadyReached(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-11")

	c := Start(100000, "2024-06-01", "")
	pace, ok := c.PaceAt(150000, today)
	assert.True(t, ok)
	assert.Equal(t, 0, pace.Remaining)
	assert.False(t, pace.HasDaysToGoal)
}

func TestPaceMalformedDates(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-11")

	c := Challenge{Active: true, TeamGoal: 100, StartDate: "2024-06-01", TargetEndDate: "junk"}
	_, ok := c.PaceAt(10, today)
	assert.False(t, ok)

	c = Challenge{Active: true, TeamGoal: 100, StartDate: "junk"}
	_, ok = c.PaceAt(10, today)
	assert.False(t, ok)
}
