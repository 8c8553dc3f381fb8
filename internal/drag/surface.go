// Package drag resolves pointer drags across the three drop surfaces
// (waiting list, kanban board, calendar grid) into mutation intents.
package drag

import (
	"fmt"
	"strings"
)

// Surface identifies which drop surface a draggable card was rendered on.
type Surface int

const (
	SurfaceCalendar Surface = iota
	SurfaceBoard
	SurfaceWaiting
)

func (s Surface) prefix() string {
	switch s {
	case SurfaceCalendar:
		return "calendar-"
	case SurfaceBoard:
		return "board-"
	default:
		return "waiting-"
	}
}

// ItemID is a draggable card identity: the canonical task id tagged with
// the surface it was picked up from. Encoding and decoding go through this
// one pair so surface-prefix parsing lives in a single place.
type ItemID struct {
	Surface Surface
	TaskID  string
}

// String encodes the item as its namespaced drag identifier
// (calendar-<id>, board-<id>, waiting-<id>).
func (i ItemID) String() string {
	return i.Surface.prefix() + i.TaskID
}

// DecodeItem parses a namespaced drag identifier back into an ItemID.
func DecodeItem(id string) (ItemID, bool) {
	for _, s := range []Surface{SurfaceCalendar, SurfaceBoard, SurfaceWaiting} {
		if rest, ok := strings.CutPrefix(id, s.prefix()); ok && rest != "" {
			return ItemID{Surface: s, TaskID: rest}, true
		}
	}
	return ItemID{}, false
}

// ParseError reports a drop-target identifier that matched no known
// format. Callers treat it as a no-op drop.
type ParseError struct {
	ID string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized drop target %q", e.ID)
}
