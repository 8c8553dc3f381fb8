package app

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planboard/internal/drag"
	"github.com/nhle/planboard/internal/state"
)

// dragState tracks one in-flight pointer drag. A zero value means no
// drag is active.
type dragState struct {
	active bool
	item   drag.ItemID

	// sourceID is the rendered drag identifier of the picked-up card.
	sourceID string

	// hoverID is the drop region currently under the pointer.
	hoverID string
}

func (d dragState) renderID() string {
	if !d.active {
		return ""
	}
	return d.sourceID
}

// handleMouse runs the drag state machine: press picks up a card, motion
// tracks the hovered drop region, release resolves the drop into at most
// one mutation intent.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.onTaskSurface() {
		return m, nil
	}

	p := drag.Point{X: msg.X, Y: msg.Y}
	regions := m.activeRegions()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if item, sourceID, ok := pickItem(p, regions); ok {
			m.drag = dragState{active: true, item: item, sourceID: sourceID}
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.drag.active {
			m.drag.hoverID, _ = drag.Locate(p, regions)
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.drag.active {
			return m, nil
		}
		d := m.drag
		m.drag = dragState{}
		return m, m.afterMutation(m.resolveDrop(d, p, regions))

	default:
		return m, nil
	}
}

// resolveDrop maps a completed drag to its effect. Unresolvable drops
// (pointer outside every region, malformed target id) are no-ops.
func (m *Model) resolveDrop(d dragState, p drag.Point, regions []drag.Region) tea.Cmd {
	targetID, ok := drag.Locate(p, regions)
	if !ok {
		return nil
	}

	target, err := drag.ParseTarget(targetID)
	if err != nil {
		log.Printf("resolving drop: %v", err)
		return nil
	}

	res := m.coordinator.Resolve(d.item, target, time.Now())
	if res.ReorderBefore != "" {
		m.set.MoveTaskBefore(d.item.TaskID, res.ReorderBefore)
		return nil
	}
	if res.Intent == nil {
		return nil
	}

	intent := *res.Intent
	intent.Origin = state.OriginUser
	cmd, _ := m.mutator.Dispatch(intent)
	return cmd
}

// activeRegions collects the drop regions registered by the surfaces
// visible in the current view, in render order.
func (m Model) activeRegions() []drag.Region {
	originY := m.layout.ContentOriginY()

	switch m.currentView {
	case ViewBoard:
		return m.boardView.Regions(0, originY)
	case ViewCalendar:
		regions := m.waitingView.Regions(0, originY)
		return append(regions, m.calendarView.Regions(waitingPanelWidth, originY)...)
	case ViewWaiting:
		return m.waitingView.Regions(0, originY)
	default:
		return nil
	}
}

// pickItem finds the draggable card under the pointer. Cards register
// after their containers, so the scan runs in reverse to hit the most
// specific region first.
func pickItem(p drag.Point, regions []drag.Region) (drag.ItemID, string, bool) {
	for i := len(regions) - 1; i >= 0; i-- {
		r := regions[i]
		if !r.Contains(p) {
			continue
		}
		if item, ok := drag.DecodeItem(r.ID); ok {
			return item, r.ID, true
		}
	}
	return drag.ItemID{}, "", false
}
