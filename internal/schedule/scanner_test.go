package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/planboard/internal/model"
)

func datedTask(id, status string, due time.Time) model.Task {
	return model.Task{ID: id, Title: id, Status: status, Due: &due}
}

func TestCorrectionsRepairsDrift(t *testing.T) {
	now := day(2024, 5, 15, 9)
	yesterday := day(2024, 5, 14, 10)

	tasks := []model.Task{
		// Was TODAY yesterday; the date has passed.
		datedTask("t1", model.StatusToday, yesterday),
		// Already correct.
		datedTask("t2", model.StatusToday, day(2024, 5, 15, 14)),
	}

	got := Corrections(tasks, now)
	assert.Equal(t, []Correction{{TaskID: "t1", Status: model.StatusDelayed}}, got)
}

func TestCorrectionsSkipsCompleted(t *testing.T) {
	now := day(2024, 5, 15, 9)
	task := datedTask("t1", model.StatusToday, day(2024, 5, 14, 10))
	task.Completed = true

	assert.Empty(t, Corrections([]model.Task{task}, now))
}

func TestCorrectionsSkipsUndated(t *testing.T) {
	now := day(2024, 5, 15, 9)
	task := model.Task{ID: "t1", Status: model.StatusToday}

	assert.Empty(t, Corrections([]model.Task{task}, now))
}

func TestCorrectionsLeavesForeignStatusesAlone(t *testing.T) {
	now := day(2024, 5, 15, 9)

	// A status assigned outside the date-derivation flow is never
	// rewritten, even though the date says DELAYED.
	blocked := datedTask("t1", "blocked", day(2024, 5, 14, 10))
	assert.Empty(t, Corrections([]model.Task{blocked}, now))
}

func TestCorrectionsRewritesLegacyStatuses(t *testing.T) {
	now := day(2024, 5, 15, 9)

	tests := []struct {
		status string
	}{
		{model.StatusWaiting},
		{model.StatusTodo},
		{model.StatusNoDueDate},
		{""},
	}
	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			task := datedTask("t1", tt.status, day(2024, 5, 20, 10))
			got := Corrections([]model.Task{task}, now)
			assert.Equal(t, []Correction{{TaskID: "t1", Status: model.StatusThisMonth}}, got)
		})
	}
}

func TestSyncable(t *testing.T) {
	assert.True(t, Syncable(model.StatusUpcoming))
	assert.True(t, Syncable(""))
	assert.False(t, Syncable("blocked"))
	assert.False(t, Syncable("in_review"))
}
