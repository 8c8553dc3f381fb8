package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/planboard/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTaskMirrorRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	due := time.Date(2024, 5, 16, 14, 0, 0, 0, time.UTC)
	projectID := "p1"
	tasks := []model.Task{
		{
			ID:          "t1",
			Title:       "paint the fence",
			Description: "white",
			Status:      model.StatusThisWeek,
			Priority:    model.PriorityHigh,
			Due:         &due,
			DurationMin: 90,
			RawDate:     "2024-05-16",
			RawTime:     "14:00",
			Completed:   true,
			AssignedTo:  []string{"u1", "u2"},
			ProjectID:   &projectID,
			CreatedBy:   "owner",
			CreatedAt:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "t2",
			Title:     "undated",
			Status:    model.StatusWaiting,
			CreatedAt: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, s.ReplaceTasks(ctx, tasks))

	got, err := s.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "paint the fence", got[0].Title)
	assert.Equal(t, model.StatusThisWeek, got[0].Status)
	assert.Equal(t, 90, got[0].DurationMin)
	assert.True(t, got[0].Completed)
	assert.Equal(t, []string{"u1", "u2"}, got[0].AssignedTo)
	require.NotNil(t, got[0].ProjectID)
	assert.Equal(t, "p1", *got[0].ProjectID)
	require.NotNil(t, got[0].Due)
	assert.True(t, got[0].Due.Equal(due))

	assert.Nil(t, got[1].Due)
	assert.Nil(t, got[1].AssignedTo)
}

func TestReplaceTasksSkipsTempEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	tasks := []model.Task{
		{ID: "t1", Title: "real", Status: model.StatusToday},
		{ID: "temp-1715763600000", Title: "optimistic", Status: model.StatusToday},
	}
	require.NoError(t, s.ReplaceTasks(ctx, tasks))

	got, err := s.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
}

func TestReplaceTasksIsFullSwap(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.ReplaceTasks(ctx, []model.Task{
		{ID: "t1", Title: "old", Status: model.StatusToday},
	}))
	require.NoError(t, s.ReplaceTasks(ctx, []model.Task{
		{ID: "t2", Title: "new", Status: model.StatusToday},
	}))

	got, err := s.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t2", got[0].ID)
}

func TestProjectMirrorRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	projects := []model.Project{
		{ID: "p1", Name: "Renovation", BuildingDescription: "rear wing", Color: "#ff0000", CreatedBy: "owner"},
		{ID: "p2", Name: "Admin", CreatedBy: "owner"},
	}
	require.NoError(t, s.ReplaceProjects(ctx, projects))

	got, err := s.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by name.
	assert.Equal(t, "Admin", got[0].Name)
	assert.Equal(t, "rear wing", got[1].BuildingDescription)
}

func TestEventMirrorRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	from := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 24, 0, 0, 0, 0, time.UTC)
	parent := "e0"
	events := []model.Event{
		{ID: "e0", Title: "Quarter", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "e1", Title: "Sprint", FromDate: &from, ToDate: &to, ParentID: &parent,
			CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, s.ReplaceEvents(ctx, events))

	got, err := s.GetEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].ParentID)
	require.NotNil(t, got[1].ParentID)
	assert.Equal(t, "e0", *got[1].ParentID)
	require.NotNil(t, got[1].FromDate)
	assert.True(t, got[1].FromDate.Equal(from))
}

func TestNotificationLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, s.CreateNotification(ctx, model.Notification{
		ID:        "n1",
		Entity:    "tasks",
		EntityID:  "t1",
		Message:   "Could not update tasks; the server rejected the change.",
		CreatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateNotification(ctx, model.Notification{
		// Missing id gets generated.
		Entity:    "tasks",
		EntityID:  "t2",
		Message:   "Could not delete tasks; the server rejected the change.",
		CreatedAt: time.Now(),
	}))

	count, err := s.UnreadNotificationCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	unread, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	require.NoError(t, s.MarkNotificationRead(ctx, "n1"))

	count, err = s.UnreadNotificationCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	unread, err = s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.NotEqual(t, "n1", unread[0].ID)
}
