package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/planboard/internal/model"
)

func TestTasksInBucket(t *testing.T) {
	due := time.Date(2024, 5, 15, 10, 0, 0, 0, time.Local)
	set := NewSet()
	set.Tasks = []model.Task{
		{ID: "a", Status: model.StatusToday, Due: &due},
		{ID: "b", Status: model.StatusWaiting},
		{ID: "c", Status: model.StatusTodo},            // legacy, undated
		{ID: "d", Status: ""},                          // empty, undated
		{ID: "e", Status: model.StatusTodo, Due: &due}, // legacy but dated
		{ID: "f", Status: "blocked"},
	}

	today := set.TasksInBucket(model.StatusToday)
	assert.Equal(t, []string{"a"}, taskIDs(today))

	// The waiting bucket sweeps up undated legacy and empty statuses, but
	// not dated ones and not foreign statuses.
	waitingTasks := set.TasksInBucket(model.StatusWaiting)
	assert.Equal(t, []string{"b", "c", "d"}, taskIDs(waitingTasks))
}

func TestTasksOnDay(t *testing.T) {
	morning := time.Date(2024, 5, 15, 8, 0, 0, 0, time.Local)
	evening := time.Date(2024, 5, 15, 22, 30, 0, 0, time.Local)
	nextDay := time.Date(2024, 5, 16, 0, 0, 0, 0, time.Local)

	set := NewSet()
	set.Tasks = []model.Task{
		{ID: "a", Due: &morning},
		{ID: "b", Due: &evening},
		{ID: "c", Due: &nextDay},
		{ID: "d"},
	}

	got := set.TasksOnDay(time.Date(2024, 5, 15, 13, 0, 0, 0, time.Local))
	assert.Equal(t, []string{"a", "b"}, taskIDs(got))
}

func TestMoveTaskBefore(t *testing.T) {
	set := NewSet()
	set.Tasks = []model.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	rev := set.Revision()

	set.MoveTaskBefore("a", "c")
	assert.Equal(t, []string{"b", "a", "c"}, taskIDs(set.Tasks))
	assert.Greater(t, set.Revision(), rev)

	// Self-moves and unknown ids are no-ops.
	set.MoveTaskBefore("a", "a")
	set.MoveTaskBefore("ghost", "a")
	assert.Equal(t, []string{"b", "a", "c"}, taskIDs(set.Tasks))

	// Unknown anchor moves to the end.
	set.MoveTaskBefore("b", "ghost")
	assert.Equal(t, []string{"a", "c", "b"}, taskIDs(set.Tasks))
}

func taskIDs(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.ID
	}
	return out
}
