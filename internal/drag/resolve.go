package drag

import (
	"time"

	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/remote"
	"github.com/nhle/planboard/internal/schedule"
	"github.com/nhle/planboard/internal/state"
)

const (
	rawDateLayout = "2006-01-02"
	rawTimeLayout = "15:04"
)

// Resolution is the outcome of a drag end. Either Intent is set (the drop
// produces a mutation), ReorderBefore is set (a pure client-side reorder
// within the same bucket, never persisted), or both are empty (cancelled
// or unresolvable drop: zero mutations).
type Resolution struct {
	Intent        *state.Intent
	ReorderBefore string
}

// Coordinator turns decoded drop targets into canonical mutation intents.
type Coordinator struct {
	// Lookup finds the current version of a task in the working set.
	Lookup func(taskID string) (model.Task, bool)
}

// Resolve maps a dropped item and its target to a resolution. Targets are
// mutually exclusive and handled in priority order: waiting list, calendar
// slot, kanban column, another task's card (which stands in for whichever
// bucket that task occupies).
func (c Coordinator) Resolve(item ItemID, target Target, now time.Time) Resolution {
	task, ok := c.Lookup(item.TaskID)
	if !ok {
		return Resolution{}
	}

	switch t := target.(type) {
	case WaitingTarget:
		return Resolution{Intent: waitingIntent(task.ID)}

	case SlotTarget:
		// The slot id carries the day as UTC calendar components; the due
		// instant must live in the caller's zone or day-granularity
		// comparisons against the local clock drift across midnight.
		due := time.Date(t.Day.Year(), t.Day.Month(), t.Day.Day(),
			t.Hour, 0, 0, 0, now.Location())
		status := schedule.Classify(due, now)
		return Resolution{Intent: &state.Intent{
			Op:     state.OpUpdate,
			Entity: remote.EntityTasks,
			ID:     task.ID,
			Patch: model.TaskPatch{
				Status:  &status,
				Due:     &due,
				RawDate: ptr(due.Format(rawDateLayout)),
				RawTime: ptr(due.Format(rawTimeLayout)),
			},
		}}

	case ColumnTarget:
		return c.resolveColumn(task, t.Status, now)

	case ItemTarget:
		other, ok := c.Lookup(t.Item.TaskID)
		if !ok {
			return Resolution{}
		}
		if other.Status == task.Status {
			// Same bucket: in-session visual reorder only.
			return Resolution{ReorderBefore: other.ID}
		}
		return c.resolveColumn(task, other.Status, now)

	default:
		return Resolution{}
	}
}

// resolveColumn builds the intent for a drop into a bucket column,
// synthesizing a default due instant when the task doesn't already carry
// a sensible one for that bucket.
func (c Coordinator) resolveColumn(task model.Task, bucket string, now time.Time) Resolution {
	if bucket == model.StatusWaiting {
		return Resolution{Intent: waitingIntent(task.ID)}
	}

	patch := model.TaskPatch{Status: &bucket}

	switch bucket {
	case model.StatusToday:
		if !dueFits(task, bucket, now) {
			setDue(&patch, at(now, 0, 10), true)
		}
	case model.StatusThisWeek:
		if !dueFits(task, bucket, now) {
			setDue(&patch, at(now, 1, 11), true)
		}
	case model.StatusNoDueDate:
		patch.ClearDue = true
		patch.RawDate = ptr("")
		patch.RawTime = ptr("")
	case model.StatusDelayed:
		// Only synthesize when nothing is scheduled; an existing past
		// date already explains the bucket. No time is forced.
		if task.Due == nil {
			setDue(&patch, at(now, -1, 0), false)
		}
	case model.StatusThisMonth, model.StatusUpcoming:
		// Status moves without a synthetic date.
	}

	return Resolution{Intent: &state.Intent{
		Op:     state.OpUpdate,
		Entity: remote.EntityTasks,
		ID:     task.ID,
		Patch:  patch,
	}}
}

func waitingIntent(taskID string) *state.Intent {
	status := model.StatusWaiting
	return &state.Intent{
		Op:     state.OpUpdate,
		Entity: remote.EntityTasks,
		ID:     taskID,
		Patch: model.TaskPatch{
			Status:   &status,
			ClearDue: true,
			RawDate:  ptr(""),
			RawTime:  ptr(""),
		},
	}
}

// dueFits reports whether the task's existing due instant already
// classifies into the target bucket.
func dueFits(task model.Task, bucket string, now time.Time) bool {
	return task.Due != nil && schedule.Classify(*task.Due, now) == bucket
}

// at returns now shifted by dayOffset days at the given hour.
func at(now time.Time, dayOffset, hour int) time.Time {
	d := schedule.StartOfDay(now).AddDate(0, 0, dayOffset)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, d.Location())
}

// setDue writes a synthesized due instant and its display strings.
func setDue(patch *model.TaskPatch, due time.Time, withTime bool) {
	patch.Due = &due
	patch.RawDate = ptr(due.Format(rawDateLayout))
	if withTime {
		patch.RawTime = ptr(due.Format(rawTimeLayout))
	} else {
		patch.RawTime = ptr("")
	}
}

func ptr[T any](v T) *T {
	return &v
}
