package member

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

func TestUsernameIsValid(t *testing.T) {
	assert.True(t, Username("alice").IsValid())
	assert.True(t, Username("  bob  ").IsValid())
	assert.False(t, Username("").IsValid())
	assert.False(t, Username("   ").IsValid())
}

func TestNewMemberDefaults(t *testing.T) {
	m := New("alice")
	assert.Equal(t, "alice", m.Name)
	assert.Equal(t, DefaultDailyGoal, m.DailyGoal)
	assert.NotNil(t, m.History)
	assert.Equal(t, 0, m.DaysLogged())
}

func TestSetStepsOverwrites(t *testing.T) {
	m := New("alice")
	m.SetSteps("2024-06-10", 5000)
	m.SetSteps("2024-06-10", 8000)

	// Re-logging replaces, never accumulates.
	assert.Equal(t, 8000, m.StepsOn("2024-06-10"))
	assert.Equal(t, 1, m.DaysLogged())
}

func TestStepsOnAbsentDate(t *testing.T) {
	m := New("alice")
	assert.Equal(t, 0, m.StepsOn("2024-06-10"))
}

func TestClone(t *testing.T) {
	m := New("alice")
	m.SetSteps("2024-06-10", 5000)

	c := m.Clone()
	c.SetSteps("2024-06-10", 9999)
	c.DailyGoal = 1

	assert.Equal(t, 5000, m.StepsOn("2024-06-10"))
	assert.Equal(t, DefaultDailyGoal, m.DailyGoal)
}

func TestWindowTotal(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-12")

	m := New("alice")
	m.SetSteps("2024-06-12", 1000)
	m.SetSteps("2024-06-11", 2000)
	m.SetSteps("2024-06-06", 4000) // outside the 7-day window
	m.SetSteps("2024-06-13", 8000) // future, outside the window

	assert.Equal(t, 3000, m.WindowTotal(today, 2))
	assert.Equal(t, 3000, m.WeekTotal(today))
	assert.Equal(t, 7000, m.WindowTotal(today, 7))
}

func TestTotalSteps(t *testing.T) {
	m := New("alice")
	assert.Equal(t, 0, m.TotalSteps())

	m.SetSteps("2024-06-10", 5000)
	m.SetSteps("2023-01-01", 3000)
	assert.Equal(t, 8000, m.TotalSteps())
}

func TestSumRangeSkipsMalformedKeys(t *testing.T) {
	start, _ := timeutil.ParseDay("2024-06-10")
	end, _ := timeutil.ParseDay("2024-06-12")

	m := New("alice")
	m.SetSteps("2024-06-10", 1000)
	m.SetSteps("2024-06-12", 2000)
	m.SetSteps("2024-06-13", 4000)
	m.SetSteps("garbage", 8000)

	assert.Equal(t, 3000, m.SumRange(start, end))
}

func TestActiveInWindow(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-12")

	m := New("alice")
	assert.False(t, m.ActiveInWindow(today, 7))

	// A zero entry is logged but not active.
	m.SetSteps("2024-06-11", 0)
	assert.False(t, m.ActiveInWindow(today, 7))

	m.SetSteps("2024-06-06", 100)
	assert.True(t, m.ActiveInWindow(today, 7))
	assert.False(t, m.ActiveInWindow(today, 2))
}

func TestStreakCountsBackFromToday(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-12")

	m := New("alice")
	m.SetSteps("2024-06-12", 10000)
	m.SetSteps("2024-06-11", 10000)
	m.SetSteps("2024-06-10", 5000) // goal missed, streak stops here

	assert.Equal(t, 2, m.Streak(today))
}

func TestStreakZeroWhenTodayMissed(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-12")

	m := New("alice")
	m.SetSteps("2024-06-11", 10000) // yesterday met, today absent

	assert.Equal(t, 0, m.Streak(today))
}

func TestStreakCappedAtLookback(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-12")

	m := New("alice")
	for i := 0; i < StreakLookbackDays+10; i++ {
		m.SetSteps(timeutil.FormatDay(timeutil.AddDays(today, -i)), DefaultDailyGoal)
	}

	assert.Equal(t, StreakLookbackDays, m.Streak(today))
}

func TestGoalMetOn(t *testing.T) {
	m := New("alice")
	m.DailyGoal = 8000
	m.SetSteps("2024-06-10", 8000)
	m.SetSteps("2024-06-11", 7999)

	assert.True(t, m.GoalMetOn("2024-06-10"))
	assert.False(t, m.GoalMetOn("2024-06-11"))
	assert.False(t, m.GoalMetOn("2024-06-12"))
}
