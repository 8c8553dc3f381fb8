package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nhle/planboard/internal/model"
)

// The wire records below are the store's snake_case shapes. Every ingress
// (bulk fetch, change feed) and egress (insert, update) goes through this
// file, so the field mapping is applied exactly once and identically
// everywhere: task_name<->Title, project_id<->ProjectID,
// assigned_to<->AssignedTo, raw_date<->RawDate, to_date<->ToDate,
// building_description<->BuildingDescription, parent_id<->ParentID,
// user_id<->CreatedBy.

type taskRecord struct {
	ID          string          `json:"id,omitempty"`
	TaskName    string          `json:"task_name"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority,omitempty"`
	Due         *time.Time      `json:"due,omitempty"`
	DurationMin int             `json:"duration_min,omitempty"`
	RawDate     string          `json:"raw_date"`
	RawTime     string          `json:"raw_time"`
	Completed   bool            `json:"completed"`
	AssignedTo  json.RawMessage `json:"assigned_to,omitempty"`
	ProjectID   *string         `json:"project_id,omitempty"`
	UserID      string          `json:"user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

type projectRecord struct {
	ID                  string    `json:"id,omitempty"`
	Name                string    `json:"name"`
	BuildingDescription string    `json:"building_description,omitempty"`
	Color               string    `json:"color,omitempty"`
	UserID              string    `json:"user_id,omitempty"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
	UpdatedAt           time.Time `json:"updated_at,omitempty"`
}

type eventRecord struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	FromDate    *time.Time `json:"from_date,omitempty"`
	ToDate      *time.Time `json:"to_date,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
	UserID      string     `json:"user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}

// NormalizeAssignees canonicalizes the shape-polymorphic assigned_to wire
// value (absent, a single id, or a list of ids) into a slice. The wire
// historically stored a scalar, so both shapes occur in live data.
func NormalizeAssignees(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		out := many[:0]
		for _, id := range many {
			if id != "" {
				out = append(out, id)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}

	return nil
}

// CollapseAssignees converts the canonical slice back to the wire shape:
// single-element slices collapse to a scalar, empty means absent.
func CollapseAssignees(ids []string) any {
	switch len(ids) {
	case 0:
		return nil
	case 1:
		return ids[0]
	default:
		return ids
	}
}

// DecodeTask converts a wire record into a core task.
func DecodeTask(raw json.RawMessage) (model.Task, error) {
	var rec taskRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Task{}, fmt.Errorf("decoding task record: %w", err)
	}
	return model.Task{
		ID:          rec.ID,
		Title:       rec.TaskName,
		Description: rec.Description,
		Status:      rec.Status,
		Priority:    rec.Priority,
		Due:         rec.Due,
		DurationMin: rec.DurationMin,
		RawDate:     rec.RawDate,
		RawTime:     rec.RawTime,
		Completed:   rec.Completed,
		AssignedTo:  NormalizeAssignees(rec.AssignedTo),
		ProjectID:   rec.ProjectID,
		CreatedBy:   rec.UserID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}

// EncodeTask converts a core task into its wire record for inserts.
// Temp ids are never sent; the store assigns the real id.
func EncodeTask(t model.Task) (map[string]any, error) {
	assignees, err := json.Marshal(CollapseAssignees(t.AssignedTo))
	if err != nil {
		return nil, fmt.Errorf("encoding assignees: %w", err)
	}

	rec := taskRecord{
		TaskName:    t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Due:         t.Due,
		DurationMin: t.DurationMin,
		RawDate:     t.RawDate,
		RawTime:     t.RawTime,
		Completed:   t.Completed,
		ProjectID:   t.ProjectID,
		UserID:      t.CreatedBy,
	}
	if !t.IsTemp() {
		rec.ID = t.ID
	}
	if t.AssignedTo != nil {
		rec.AssignedTo = json.RawMessage(assignees)
	}

	return toMap(rec)
}

// EncodeTaskPatch converts a partial update into the snake_case patch
// shape the store expects. Cleared fields are sent as explicit nulls.
func EncodeTaskPatch(p model.TaskPatch) map[string]any {
	out := map[string]any{}
	if p.Title != nil {
		out["task_name"] = *p.Title
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.Priority != nil {
		out["priority"] = *p.Priority
	}
	if p.ClearDue {
		out["due"] = nil
	} else if p.Due != nil {
		out["due"] = p.Due.Format(time.RFC3339)
	}
	if p.DurationMin != nil {
		out["duration_min"] = *p.DurationMin
	}
	if p.RawDate != nil {
		out["raw_date"] = *p.RawDate
	}
	if p.RawTime != nil {
		out["raw_time"] = *p.RawTime
	}
	if p.Completed != nil {
		out["completed"] = *p.Completed
	}
	if p.AssignedTo != nil {
		out["assigned_to"] = CollapseAssignees(p.AssignedTo)
	}
	if p.ClearProject {
		out["project_id"] = nil
	} else if p.ProjectID != nil {
		out["project_id"] = *p.ProjectID
	}
	return out
}

// DecodeProject converts a wire record into a core project.
func DecodeProject(raw json.RawMessage) (model.Project, error) {
	var rec projectRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Project{}, fmt.Errorf("decoding project record: %w", err)
	}
	return model.Project{
		ID:                  rec.ID,
		Name:                rec.Name,
		BuildingDescription: rec.BuildingDescription,
		Color:               rec.Color,
		CreatedBy:           rec.UserID,
		CreatedAt:           rec.CreatedAt,
		UpdatedAt:           rec.UpdatedAt,
	}, nil
}

// EncodeProject converts a core project into its wire record.
func EncodeProject(p model.Project) (map[string]any, error) {
	return toMap(projectRecord{
		ID:                  p.ID,
		Name:                p.Name,
		BuildingDescription: p.BuildingDescription,
		Color:               p.Color,
		UserID:              p.CreatedBy,
	})
}

// DecodeEvent converts a wire record into a core event.
func DecodeEvent(raw json.RawMessage) (model.Event, error) {
	var rec eventRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Event{}, fmt.Errorf("decoding event record: %w", err)
	}
	return model.Event{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		FromDate:    rec.FromDate,
		ToDate:      rec.ToDate,
		ParentID:    rec.ParentID,
		CreatedBy:   rec.UserID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}

// EncodeEvent converts a core event into its wire record.
func EncodeEvent(e model.Event) (map[string]any, error) {
	return toMap(eventRecord{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		FromDate:    e.FromDate,
		ToDate:      e.ToDate,
		ParentID:    e.ParentID,
		UserID:      e.CreatedBy,
	})
}

// toMap round-trips a record through JSON so outgoing writes share the
// exact tag-driven field naming with decodes.
func toMap(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("re-decoding record: %w", err)
	}
	return out, nil
}

// RecordID extracts the id field from a raw wire record.
func RecordID(raw json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &probe)
	return probe.ID
}
