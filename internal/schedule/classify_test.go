package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/planboard/internal/model"
)

// Wednesday, 2024-05-15. The containing week ends Sunday 2024-05-19
// (exclusive boundary 2024-05-19T00:00 is the next Sunday); the month
// boundary is 2024-06-01T00:00.
var wednesday = time.Date(2024, 5, 15, 9, 30, 0, 0, time.Local)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.Local)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{"yesterday is delayed", day(2024, 5, 14, 23), model.StatusDelayed},
		{"last month is delayed", day(2024, 4, 1, 12), model.StatusDelayed},
		{"same day is today", day(2024, 5, 15, 0), model.StatusToday},
		{"same day late evening is today", day(2024, 5, 15, 23), model.StatusToday},
		{"thursday is this week", day(2024, 5, 16, 8), model.StatusThisWeek},
		{"saturday is this week", day(2024, 5, 18, 8), model.StatusThisWeek},
		{"next sunday is this month", day(2024, 5, 19, 0), model.StatusThisMonth},
		{"month end is this month", day(2024, 5, 31, 23), model.StatusThisMonth},
		{"first of next month is upcoming", day(2024, 6, 1, 0), model.StatusUpcoming},
		{"next year is upcoming", day(2025, 1, 1, 0), model.StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.due, wednesday))
		})
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	// An earlier hour on the same calendar day never counts as delayed.
	due := day(2024, 5, 15, 1)
	now := day(2024, 5, 15, 22)
	assert.Equal(t, model.StatusToday, Classify(due, now))
}

func TestClassifyIsPure(t *testing.T) {
	due := day(2024, 5, 16, 8)
	first := Classify(due, wednesday)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(due, wednesday))
	}

	// A different today moves the bucket: the same due date is TODAY when
	// today catches up to it.
	assert.Equal(t, model.StatusToday, Classify(due, day(2024, 5, 16, 1)))
}

func TestEndOfWeekStartsSunday(t *testing.T) {
	// From a Wednesday, the exclusive boundary is the coming Sunday.
	assert.Equal(t, day(2024, 5, 19, 0), EndOfWeek(wednesday))

	// From a Sunday, the boundary is the following Sunday: the whole week
	// ahead is "this week".
	sunday := day(2024, 5, 19, 10)
	assert.Equal(t, day(2024, 5, 26, 0), EndOfWeek(sunday))
}

func TestEndOfMonthRollsOverYear(t *testing.T) {
	dec := day(2024, 12, 20, 10)
	assert.Equal(t, day(2025, 1, 1, 0), EndOfMonth(dec))
}
