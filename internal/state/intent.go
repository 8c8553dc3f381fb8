package state

import (
	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/remote"
)

// Op is the kind of mutation an intent performs.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	default:
		return "delete"
	}
}

// Origin records what produced an intent. Persistence failures are only
// surfaced to the user for direct actions; healing corrections fail
// silently.
type Origin int

const (
	OriginUser Origin = iota
	OriginHealing
)

// Intent is the canonical mutation: one operation against one entity.
// Drag resolution, edits, completion toggles, deletes, and healing
// corrections all reduce to this shape before touching the working set
// or the remote store.
type Intent struct {
	Op     Op
	Entity remote.Entity
	Origin Origin

	// ID targets the record for updates and deletes.
	ID string

	// Patch carries the partial update for task updates.
	Patch model.TaskPatch

	// Exactly one of these carries the payload for creates, or the full
	// replacement record for project/event updates.
	Task    *model.Task
	Project *model.Project
	Event   *model.Event
}
