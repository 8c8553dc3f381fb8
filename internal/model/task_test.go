package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskDurationDefaults(t *testing.T) {
	assert.Equal(t, time.Hour, Task{}.Duration())
	assert.Equal(t, time.Hour, Task{DurationMin: -5}.Duration())
	assert.Equal(t, 90*time.Minute, Task{DurationMin: 90}.Duration())
}

func TestTaskHourSpan(t *testing.T) {
	due := time.Date(2024, 5, 15, 9, 30, 0, 0, time.Local)
	task := Task{Due: &due, DurationMin: 90}

	assert.Equal(t, 9.5, task.StartHour())
	assert.Equal(t, 11.0, task.EndHour())

	undated := Task{DurationMin: 90}
	assert.Equal(t, 0.0, undated.StartHour())
}

func TestTaskIsTemp(t *testing.T) {
	assert.True(t, Task{ID: "temp-1715763600000"}.IsTemp())
	assert.False(t, Task{ID: "t1"}.IsTemp())
	assert.False(t, Task{ID: "temporary"}.IsTemp())
	assert.False(t, Task{}.IsTemp())
}

func TestPatchApply(t *testing.T) {
	due := time.Date(2024, 5, 16, 14, 0, 0, 0, time.Local)
	title := "new title"
	status := StatusThisWeek

	task := Task{ID: "t1", Title: "old", Status: StatusWaiting}
	before := task.UpdatedAt

	TaskPatch{
		Title:  &title,
		Status: &status,
		Due:    &due,
	}.Apply(&task)

	assert.Equal(t, "new title", task.Title)
	assert.Equal(t, StatusThisWeek, task.Status)
	require.NotNil(t, task.Due)
	assert.Equal(t, due, *task.Due)
	assert.True(t, task.UpdatedAt.After(before))
}

func TestPatchApplyClearsDue(t *testing.T) {
	due := time.Date(2024, 5, 16, 14, 0, 0, 0, time.Local)
	task := Task{ID: "t1", Due: &due, RawDate: "2024-05-16", RawTime: "14:00"}

	empty := ""
	TaskPatch{
		ClearDue: true,
		RawDate:  &empty,
		RawTime:  &empty,
	}.Apply(&task)

	assert.Nil(t, task.Due)
	assert.Equal(t, "", task.RawDate)
	assert.Equal(t, "", task.RawTime)
}

func TestPatchApplyLeavesUnsetFields(t *testing.T) {
	task := Task{ID: "t1", Title: "keep", Priority: PriorityHigh}

	status := StatusToday
	TaskPatch{Status: &status}.Apply(&task)

	assert.Equal(t, "keep", task.Title)
	assert.Equal(t, PriorityHigh, task.Priority)
}

func TestPatchIsZero(t *testing.T) {
	assert.True(t, TaskPatch{}.IsZero())

	title := "x"
	assert.False(t, TaskPatch{Title: &title}.IsZero())
	assert.False(t, TaskPatch{ClearDue: true}.IsZero())
	assert.False(t, TaskPatch{ClearProject: true}.IsZero())
}
