package model

import "time"

// Notification is a transient message surfaced to the user, typically
// recording a persistence failure on a direct action.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// Entity names the affected collection ("tasks", "projects", "events").
	Entity string `json:"entity" db:"entity"`

	// EntityID links the notification to the affected record, if any.
	EntityID string `json:"entity_id" db:"entity_id"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
