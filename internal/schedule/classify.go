// Package schedule derives lifecycle buckets from due dates and repairs
// status drift caused by the passage of time.
package schedule

import (
	"time"

	"github.com/nhle/planboard/internal/model"
)

// StartOfDay truncates t to 00:00 in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfWeek returns the exclusive week boundary for the week containing
// today: 00:00 of the next Sunday. Weeks start on Sunday.
func EndOfWeek(today time.Time) time.Time {
	d := StartOfDay(today)
	return d.AddDate(0, 0, 7-int(d.Weekday()))
}

// EndOfMonth returns the exclusive month boundary for the month containing
// today: 00:00 of the first day of the next month.
func EndOfMonth(today time.Time) time.Time {
	d := StartOfDay(today)
	return time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, d.Location())
}

// Classify maps a due instant to its lifecycle bucket relative to today.
// Both instants are truncated to day granularity first; time of day never
// affects the bucket. Callers must pass the current today on every call.
//
// Tasks with no due instant are not classified here: the caller decides
// between StatusWaiting (never scheduled) and StatusNoDueDate (cleared).
func Classify(due, today time.Time) string {
	dueDay := StartOfDay(due)
	todayDay := StartOfDay(today)

	switch {
	case dueDay.Before(todayDay):
		return model.StatusDelayed
	case dueDay.Equal(todayDay):
		return model.StatusToday
	case dueDay.Before(EndOfWeek(today)):
		return model.StatusThisWeek
	case dueDay.Before(EndOfMonth(today)):
		return model.StatusThisMonth
	default:
		return model.StatusUpcoming
	}
}
