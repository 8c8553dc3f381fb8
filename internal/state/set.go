// Package state owns the in-memory working set of tasks, projects, and
// events, and the optimistic mutation layer that keeps it ahead of the
// remote store.
package state

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/remote"
	"github.com/nhle/planboard/internal/schedule"
)

// Set is the working set: the single authoritative in-session copy of the
// three entity collections. It has an explicit lifecycle (Init/Teardown)
// and is passed by reference to whoever mutates it; all mutation happens
// on the Bubble Tea loop, so there is no locking.
type Set struct {
	Tasks    []model.Task
	Projects []model.Project
	Events   []model.Event

	revision    int
	initialized bool
}

// NewSet returns an empty, uninitialized working set.
func NewSet() *Set {
	return &Set{}
}

// Init bulk-loads all three collections from the remote store through the
// wire codec. Partial results are discarded on error so the set is either
// fully loaded or untouched.
func (s *Set) Init(ctx context.Context, client remote.Client) error {
	rawTasks, err := client.FetchAll(ctx, remote.EntityTasks)
	if err != nil {
		return fmt.Errorf("fetching tasks: %w", err)
	}
	rawProjects, err := client.FetchAll(ctx, remote.EntityProjects)
	if err != nil {
		return fmt.Errorf("fetching projects: %w", err)
	}
	rawEvents, err := client.FetchAll(ctx, remote.EntityEvents)
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	tasks := make([]model.Task, 0, len(rawTasks))
	for _, raw := range rawTasks {
		t, err := remote.DecodeTask(raw)
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
	}
	projects := make([]model.Project, 0, len(rawProjects))
	for _, raw := range rawProjects {
		p, err := remote.DecodeProject(raw)
		if err != nil {
			return err
		}
		projects = append(projects, p)
	}
	events := make([]model.Event, 0, len(rawEvents))
	for _, raw := range rawEvents {
		e, err := remote.DecodeEvent(raw)
		if err != nil {
			return err
		}
		events = append(events, e)
	}

	s.Tasks = tasks
	s.Projects = projects
	s.Events = events
	s.initialized = true
	s.bump()
	return nil
}

// Teardown drops the collections and marks the set uninitialized. Called
// on logout alongside change-feed teardown.
func (s *Set) Teardown() {
	s.Tasks = nil
	s.Projects = nil
	s.Events = nil
	s.initialized = false
	s.bump()
}

// Initialized reports whether Init has completed since the last Teardown.
func (s *Set) Initialized() bool {
	return s.initialized
}

// Revision increments on every mutation; the healing scan keys off it.
func (s *Set) Revision() int {
	return s.revision
}

func (s *Set) bump() {
	s.revision++
}

// ReplaceTasks swaps the whole task collection (cache warm start,
// reconciling refetch after a failed delete).
func (s *Set) ReplaceTasks(tasks []model.Task) {
	s.Tasks = tasks
	s.initialized = true
	s.bump()
}

// TaskByID finds a task in the working set.
func (s *Set) TaskByID(id string) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// TasksInBucket returns tasks whose status equals the given bucket, in
// working-set order. The waiting bucket also collects never-scheduled
// tasks that carry an empty or legacy todo status with no due date.
func (s *Set) TasksInBucket(bucket string) []model.Task {
	var out []model.Task
	for _, t := range s.Tasks {
		if t.Status == bucket {
			out = append(out, t)
			continue
		}
		if bucket == model.StatusWaiting && t.Due == nil &&
			(t.Status == "" || t.Status == model.StatusTodo) {
			out = append(out, t)
		}
	}
	return out
}

// TasksOnDay returns tasks whose due instant falls on the given day.
func (s *Set) TasksOnDay(day time.Time) []model.Task {
	target := schedule.StartOfDay(day)
	var out []model.Task
	for _, t := range s.Tasks {
		if t.Due != nil && schedule.StartOfDay(*t.Due).Equal(target) {
			out = append(out, t)
		}
	}
	return out
}

// MoveTaskBefore reorders the dragged task directly before another task in
// the working set. This is the in-session visual reorder for drags within
// a bucket: nothing is persisted and the order is lost on reload.
func (s *Set) MoveTaskBefore(draggedID, beforeID string) {
	if draggedID == beforeID {
		return
	}
	from := -1
	for i, t := range s.Tasks {
		if t.ID == draggedID {
			from = i
			break
		}
	}
	if from < 0 {
		return
	}
	dragged := s.Tasks[from]
	s.Tasks = append(s.Tasks[:from], s.Tasks[from+1:]...)

	to := len(s.Tasks)
	for i, t := range s.Tasks {
		if t.ID == beforeID {
			to = i
			break
		}
	}
	s.Tasks = append(s.Tasks[:to], append([]model.Task{dragged}, s.Tasks[to:]...)...)
	s.bump()
}
