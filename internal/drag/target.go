package drag

import (
	"strconv"
	"strings"
	"time"

	"github.com/nhle/planboard/internal/model"
)

// Target is a decoded drop destination.
type Target interface {
	isTarget()
}

// WaitingTarget is the waiting list (the literal id "waiting" or any
// waiting-prefixed card within it).
type WaitingTarget struct{}

// SlotTarget is one calendar cell: a day at a specific hour.
type SlotTarget struct {
	Day  time.Time
	Hour int
}

// ColumnTarget is one kanban column, identified by its bucket.
type ColumnTarget struct {
	Status string
}

// ItemTarget is another task's card; a drop on it lands in whichever
// bucket that task currently occupies.
type ItemTarget struct {
	Item ItemID
}

func (WaitingTarget) isTarget() {}
func (SlotTarget) isTarget()    {}
func (ColumnTarget) isTarget()  {}
func (ItemTarget) isTarget()    {}

// slotDayLayout is the day-start timestamp format used in calendar slot
// ids, e.g. 2024-05-10T00:00:00.000Z-14.
const slotDayLayout = "2006-01-02T15:04:05.000Z07:00"

// SlotID encodes a calendar cell as its drop-target identifier: the
// UTC day-start timestamp, a hyphen, and the hour.
func SlotID(day time.Time, hour int) string {
	utcDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return utcDay.Format(slotDayLayout) + "-" + strconv.Itoa(hour)
}

var columnSet = func() map[string]bool {
	m := make(map[string]bool, len(model.BoardColumns))
	for _, c := range model.BoardColumns {
		m[c] = true
	}
	return m
}()

// ParseTarget decodes a drop-target identifier. Formats, checked in order:
//
//	waiting | waiting-<anything>      -> WaitingTarget
//	<ISO-8601 day>-<hour 0-23>       -> SlotTarget
//	<column id>                      -> ColumnTarget
//	calendar-<id> | board-<id>       -> ItemTarget
//
// The slot id is split at the last hyphen: the day portion is ISO-8601 and
// contains hyphens itself, so a first-hyphen split would mis-parse it.
func ParseTarget(id string) (Target, error) {
	if id == "waiting" || strings.HasPrefix(id, "waiting-") {
		return WaitingTarget{}, nil
	}

	if cut := strings.LastIndex(id, "-"); cut > 0 {
		dayPart, hourPart := id[:cut], id[cut+1:]
		if day, err := time.Parse(time.RFC3339, dayPart); err == nil {
			if hour, err := strconv.Atoi(hourPart); err == nil && hour >= 0 && hour <= 23 {
				return SlotTarget{Day: day, Hour: hour}, nil
			}
		}
	}

	if columnSet[id] {
		return ColumnTarget{Status: id}, nil
	}

	if item, ok := DecodeItem(id); ok {
		return ItemTarget{Item: item}, nil
	}

	return nil, &ParseError{ID: id}
}
