// Package remote talks to the remote store: a REST API over snake_case
// records with a per-entity server-sent change feed. All field-name
// translation between wire records and core models lives in this package.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
)

// Entity names a remote collection.
type Entity string

const (
	EntityTasks    Entity = "tasks"
	EntityProjects Entity = "projects"
	EntityEvents   Entity = "events"
)

// EventType classifies a change-feed notification.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// FeedEvent is one change-feed notification. Record is the raw snake_case
// wire record; decode it with the same codec used for bulk fetches.
type FeedEvent struct {
	Type   EventType
	Entity Entity
	Record json.RawMessage
}

// Client is the contract the core requires from the remote store.
// Persistence calls are issued fire-and-forget by the mutation layer and
// may complete out of order; the store resolves concurrent writes by
// whichever lands last.
type Client interface {
	// FetchAll retrieves every record in the collection.
	FetchAll(ctx context.Context, entity Entity) ([]json.RawMessage, error)

	// Insert creates a record and returns the stored version with its
	// server-assigned id.
	Insert(ctx context.Context, entity Entity, record any) (json.RawMessage, error)

	// Update applies a partial snake_case patch to one record.
	Update(ctx context.Context, entity Entity, id string, patch map[string]any) error

	// Delete removes one or more records by id.
	Delete(ctx context.Context, entity Entity, ids ...string) error

	// Subscribe opens the change feed for an entity. The returned stop
	// function tears the subscription down; subscriptions otherwise live
	// for the whole session.
	Subscribe(ctx context.Context, entity Entity) (<-chan FeedEvent, func(), error)
}

// RequestError is a non-2xx response from the remote store.
type RequestError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("remote store: %s %s returned %d: %s",
		e.Method, e.Path, e.Status, e.Body)
}
