package weeklygoal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/step-hub/team-step-hub/internal/domain/member"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

func TestSetStampsCurrentMonday(t *testing.T) {
	// 2024-06-12 is a Wednesday.
	today, _ := timeutil.ParseDay("2024-06-12")

	w := Set(70000, today)
	assert.Equal(t, 70000, w.Goal)
	assert.Equal(t, "2024-06-10", w.WeekStart)
	assert.True(t, w.IsSet())
}

func TestSetZeroClears(t *testing.T) {
	today, _ := timeutil.ParseDay("2024-06-12")

	w := Set(0, today)
	assert.False(t, w.IsSet())
}

func TestProgressThisWeekWindow(t *testing.T) {
	// Wednesday: the window is Monday through today, not the whole week.
	today, _ := timeutil.ParseDay("2024-06-12")

	alice := member.New("alice")
	alice.SetSteps("2024-06-09", 1000)  // Sunday of last week
	alice.SetSteps("2024-06-10", 2000)  // Monday
	alice.SetSteps("2024-06-12", 4000)  // today
	alice.SetSteps("2024-06-13", 8000)  // tomorrow, not counted
	alice.SetSteps("2024-06-16", 16000) // Sunday ahead, not counted

	users := map[string]*member.Member{"alice": alice}
	assert.Equal(t, 6000, ProgressThisWeek(users, today))
}

func TestProgressMeasuredAgainstCurrentWeek(t *testing.T) {
	// Goal set in one week, queried in the next: the stored goal still
	// applies but progress comes from the week containing today.
	setDay, _ := timeutil.ParseDay("2024-06-05")
	w := Set(50000, setDay)
	assert.Equal(t, "2024-06-03", w.WeekStart)

	alice := member.New("alice")
	alice.SetSteps("2024-06-05", 30000) // the week the goal was set in
	alice.SetSteps("2024-06-11", 7000)  // current week

	today, _ := timeutil.ParseDay("2024-06-12")
	users := map[string]*member.Member{"alice": alice}

	assert.True(t, w.IsSet())
	assert.Equal(t, 7000, ProgressThisWeek(users, today))
}

func TestProgressPercent(t *testing.T) {
	w := WeeklyGoal{Goal: 10000}

	assert.InDelta(t, 50.0, w.ProgressPercent(5000), 0.001)
	assert.InDelta(t, 100.0, w.ProgressPercent(10000), 0.001)
	assert.InDelta(t, 100.0, w.ProgressPercent(25000), 0.001) // capped
	assert.Equal(t, 0.0, WeeklyGoal{}.ProgressPercent(5000))
}
