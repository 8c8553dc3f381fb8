package model

import "time"

// Lifecycle bucket constants. A task's status is either one of these
// date-derived buckets, one of the manual buckets below, or any free-form
// value assigned outside the app (never rewritten by the healing scan).
const (
	StatusDelayed   = "DELAYED"
	StatusToday     = "TODAY"
	StatusThisWeek  = "THIS_WEEK"
	StatusThisMonth = "THIS_MONTH"
	StatusUpcoming  = "UPCOMING"

	// StatusWaiting marks a task parked on the waiting list,
	// never scheduled or explicitly unscheduled by a drag.
	StatusWaiting = "waiting"

	// StatusNoDueDate marks a task whose due date was explicitly cleared.
	StatusNoDueDate = "NO_DUE_DATE"

	// StatusTodo is a legacy default some remote records still carry.
	StatusTodo = "todo"
)

// BoardColumns is the fixed set of kanban columns, in display order.
// The column ids double as drop-target identifiers.
var BoardColumns = []string{
	StatusDelayed,
	StatusToday,
	StatusThisWeek,
	StatusThisMonth,
	StatusUpcoming,
	StatusWaiting,
	StatusNoDueDate,
}

// Priority constants.
const (
	PriorityLow  = "low"
	PriorityMid  = "mid"
	PriorityHigh = "high"
)

// DefaultDurationMin is assumed when a task carries no duration.
const DefaultDurationMin = 60

// Task is a schedulable work item. It can live on the waiting list,
// in a kanban column, or anchored to a calendar slot via Due.
type Task struct {
	// ID is the store-assigned identifier, or a temp-<ms> placeholder
	// for an optimistic insert the store has not confirmed yet.
	ID string `json:"id" db:"id"`

	// Title is the human-readable summary (wire name: task_name).
	Title string `json:"title" db:"title"`

	// Description is the full body text.
	Description string `json:"description" db:"description"`

	// Status is the lifecycle bucket or a free-form external value.
	Status string `json:"status" db:"status"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority" db:"priority"`

	// Due is the instant the task is scheduled for; nil when the task
	// is waiting or has had its date cleared.
	Due *time.Time `json:"due,omitempty" db:"due"`

	// DurationMin is the planned length in minutes (default 60).
	DurationMin int `json:"duration_min" db:"duration_min"`

	// RawDate and RawTime are the display strings shown on cards.
	// They are denormalized from Due at every mutation that sets it.
	RawDate string `json:"raw_date" db:"raw_date"`
	RawTime string `json:"raw_time" db:"raw_time"`

	// Completed freezes the status: completed tasks are never
	// reclassified by the healing scan.
	Completed bool `json:"completed" db:"completed"`

	// AssignedTo holds assignee user ids. The remote store keeps a
	// single scalar; single-element slices collapse on write.
	AssignedTo []string `json:"assigned_to,omitempty" db:"-"`

	// ProjectID links the task to a project, if any.
	ProjectID *string `json:"project_id,omitempty" db:"project_id"`

	// CreatedBy is the id of the user who created the task (wire: user_id).
	CreatedBy string `json:"created_by" db:"created_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Duration returns the planned duration, falling back to the default.
func (t Task) Duration() time.Duration {
	mins := t.DurationMin
	if mins <= 0 {
		mins = DefaultDurationMin
	}
	return time.Duration(mins) * time.Minute
}

// StartHour returns the task's start as a fractional hour of its due day
// (e.g. 9.5 for 09:30). Only meaningful when Due is set.
func (t Task) StartHour() float64 {
	if t.Due == nil {
		return 0
	}
	return float64(t.Due.Hour()) + float64(t.Due.Minute())/60
}

// EndHour returns StartHour plus the planned duration in hours.
func (t Task) EndHour() float64 {
	return t.StartHour() + t.Duration().Hours()
}

// IsTemp reports whether the task still carries a client-generated
// placeholder id.
func (t Task) IsTemp() bool {
	return len(t.ID) > 5 && t.ID[:5] == "temp-"
}
