package schedule

import (
	"time"

	"github.com/nhle/planboard/internal/model"
)

// syncable is the exact set of statuses the healing scan may rewrite.
// Anything else was assigned outside the date-derivation flow (an external
// integration or a manual pin) and is left untouched.
var syncable = map[string]bool{
	model.StatusDelayed:   true,
	model.StatusToday:     true,
	model.StatusThisWeek:  true,
	model.StatusThisMonth: true,
	model.StatusUpcoming:  true,
	model.StatusWaiting:   true,
	model.StatusTodo:      true,
	model.StatusNoDueDate: true,
	"":                    true,
}

// Syncable reports whether the healing scan is allowed to rewrite status.
func Syncable(status string) bool {
	return syncable[status]
}

// Correction is a pending status repair for a single task.
type Correction struct {
	TaskID string
	Status string
}

// Corrections computes the status repairs needed to bring drifted tasks
// back in line with their due dates. Only non-completed, dated tasks with
// a syncable status are considered.
//
// The scan runs whenever the working set changes, not on a timer: drift
// from time passing alone is only healed the next time something else
// triggers a re-scan. Repairs are applied best-effort by the caller, with
// no retry and no user-facing notification on failure.
func Corrections(tasks []model.Task, now time.Time) []Correction {
	var out []Correction
	for _, t := range tasks {
		if t.Completed || t.Due == nil {
			continue
		}
		if !Syncable(t.Status) {
			continue
		}
		expected := Classify(*t.Due, now)
		if t.Status != expected {
			out = append(out, Correction{TaskID: t.ID, Status: expected})
		}
	}
	return out
}
