package model

import "time"

// TaskPatch is a partial update to a task. Nil fields are untouched;
// ClearDue and ClearProject distinguish "set to nothing" from "unchanged".
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	Due          *time.Time
	ClearDue     bool
	DurationMin  *int
	RawDate      *string
	RawTime      *string
	Completed    *bool
	AssignedTo   []string
	ProjectID    *string
	ClearProject bool
}

// Apply writes the patch's set fields onto the task in place.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDue {
		t.Due = nil
	} else if p.Due != nil {
		due := *p.Due
		t.Due = &due
	}
	if p.DurationMin != nil {
		t.DurationMin = *p.DurationMin
	}
	if p.RawDate != nil {
		t.RawDate = *p.RawDate
	}
	if p.RawTime != nil {
		t.RawTime = *p.RawTime
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.AssignedTo != nil {
		t.AssignedTo = append([]string(nil), p.AssignedTo...)
	}
	if p.ClearProject {
		t.ProjectID = nil
	} else if p.ProjectID != nil {
		id := *p.ProjectID
		t.ProjectID = &id
	}
	t.UpdatedAt = time.Now()
}

// IsZero reports whether the patch changes nothing.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.Due == nil && !p.ClearDue &&
		p.DurationMin == nil && p.RawDate == nil && p.RawTime == nil &&
		p.Completed == nil && p.AssignedTo == nil &&
		p.ProjectID == nil && !p.ClearProject
}
