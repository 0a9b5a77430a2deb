package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-03-15")
	assert.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDay("15/03/2024")
	assert.Error(t, err)

	_, err = ParseDay("not-a-date")
	assert.Error(t, err)

	_, err = ParseDay("")
	assert.Error(t, err)
}

func TestFormatDayRoundTrip(t *testing.T) {
	d, err := ParseDay("2024-12-31")
	assert.NoError(t, err)
	assert.Equal(t, "2024-12-31", FormatDay(d))
}

func TestDayTruncates(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	ts := time.Date(2024, 6, 10, 23, 45, 12, 0, loc)

	d := Day(ts)
	assert.Equal(t, "2024-06-10", FormatDay(d))
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, time.UTC, d.Location())
}

func TestAddDays(t *testing.T) {
	d, _ := ParseDay("2024-03-01")

	assert.Equal(t, "2024-03-03", FormatDay(AddDays(d, 2)))
	assert.Equal(t, "2024-02-29", FormatDay(AddDays(d, -1))) // leap year
	assert.Equal(t, "2024-03-01", FormatDay(AddDays(d, 0)))
}

func TestMondayOf(t *testing.T) {
	// 2024-06-12 is a Wednesday.
	wed, _ := ParseDay("2024-06-12")
	assert.Equal(t, "2024-06-10", FormatDay(MondayOf(wed)))

	// Monday maps to itself.
	mon, _ := ParseDay("2024-06-10")
	assert.Equal(t, "2024-06-10", FormatDay(MondayOf(mon)))

	// Sunday belongs to the week that started the previous Monday.
	sun, _ := ParseDay("2024-06-16")
	assert.Equal(t, "2024-06-10", FormatDay(MondayOf(sun)))
}

func TestSundayOf(t *testing.T) {
	wed, _ := ParseDay("2024-06-12")
	assert.Equal(t, "2024-06-16", FormatDay(SundayOf(wed)))

	sun, _ := ParseDay("2024-06-16")
	assert.Equal(t, "2024-06-16", FormatDay(SundayOf(sun)))
}

func TestDaysBetween(t *testing.T) {
	a, _ := ParseDay("2024-06-10")
	b, _ := ParseDay("2024-06-15")

	assert.Equal(t, 5, DaysBetween(a, b))
	assert.Equal(t, -5, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestTrailingDays(t *testing.T) {
	today, _ := ParseDay("2024-06-12")

	days := TrailingDays(today, 3)
	assert.Equal(t, []string{"2024-06-10", "2024-06-11", "2024-06-12"}, days)

	assert.Equal(t, []string{"2024-06-12"}, TrailingDays(today, 1))
	assert.Nil(t, TrailingDays(today, 0))
	assert.Nil(t, TrailingDays(today, -5))
}

func TestInRange(t *testing.T) {
	start, _ := ParseDay("2024-06-10")
	end, _ := ParseDay("2024-06-12")
	mid, _ := ParseDay("2024-06-11")
	before, _ := ParseDay("2024-06-09")
	after, _ := ParseDay("2024-06-13")

	assert.True(t, InRange(start, start, end)) // inclusive start
	assert.True(t, InRange(end, start, end))   // inclusive end
	assert.True(t, InRange(mid, start, end))
	assert.False(t, InRange(before, start, end))
	assert.False(t, InRange(after, start, end))
}
