package model

import "time"

// Event is a calendar entry. Events form a tree through ParentID
// (adjacency, not embedded) used only for display grouping.
type Event struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`

	// FromDate and ToDate bound the event (wire names: from_date, to_date).
	FromDate *time.Time `json:"from_date,omitempty" db:"from_date"`
	ToDate   *time.Time `json:"to_date,omitempty" db:"to_date"`

	// ParentID points at the parent event, nil for roots.
	ParentID *string `json:"parent_id,omitempty" db:"parent_id"`

	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
