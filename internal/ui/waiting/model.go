// Package waiting renders the waiting-list surface: unscheduled tasks
// parked until they are dragged onto the board or calendar.
package waiting

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planboard/internal/drag"
	"github.com/nhle/planboard/internal/keys"
	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/state"
	"github.com/nhle/planboard/internal/theme"
)

// SelectedMsg is emitted when the user opens a task from the list.
type SelectedMsg struct {
	TaskID string
}

// Model is the waiting-list view.
type Model struct {
	set  *state.Set
	keys *keys.KeyMap

	width    int
	height   int
	selected int
}

// New creates a waiting-list view over the working set.
func New(set *state.Set, km *keys.KeyMap, width, height int) Model {
	return Model{set: set, keys: km, width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Tasks returns the tasks currently on the waiting list.
func (m Model) Tasks() []model.Task {
	return m.set.TasksInBucket(model.StatusWaiting)
}

// Update handles keyboard navigation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	tasks := m.Tasks()
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.selected < len(tasks)-1 {
			m.selected++
		}
	case key.Matches(keyMsg, m.keys.Select):
		if m.selected >= 0 && m.selected < len(tasks) {
			id := tasks[m.selected].ID
			return m, func() tea.Msg { return SelectedMsg{TaskID: id} }
		}
	}
	return m, nil
}

// SelectedTask returns the task under the keyboard cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	tasks := m.Tasks()
	if m.selected < 0 || m.selected >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.selected], true
}

// Regions reports the droppable areas: the whole panel is the waiting
// region, and each visible row is a draggable card.
func (m Model) Regions(originX, originY int) []drag.Region {
	regions := []drag.Region{{
		ID: "waiting",
		X:  originX, Y: originY,
		W: m.width, H: m.height,
	}}

	for i, t := range m.Tasks() {
		if i >= m.height-1 {
			break
		}
		regions = append(regions, drag.Region{
			ID: drag.ItemID{Surface: drag.SurfaceWaiting, TaskID: t.ID}.String(),
			X:  originX, Y: originY + 1 + i,
			W: m.width, H: 1,
		})
	}
	return regions
}

// View renders the waiting list.
func (m Model) View(draggingID string, hoverID string) string {
	tasks := m.Tasks()

	header := theme.ColumnHeaderStyle.
		Width(m.width).
		Background(theme.ColorMagenta).
		Render(fmt.Sprintf("WAITING (%d)", len(tasks)))

	rows := []string{header}
	for i, t := range tasks {
		if i >= m.height-1 {
			break
		}

		line := t.Title
		if len(t.AssignedTo) > 0 {
			line += " " + theme.HelpStyle.Render(fmt.Sprintf("@%s", t.AssignedTo[0]))
		}
		if t.IsTemp() {
			line += " " + theme.HelpStyle.Render("(saving)")
		}

		id := drag.ItemID{Surface: drag.SurfaceWaiting, TaskID: t.ID}.String()
		switch {
		case id == draggingID:
			line = theme.DraggingCardStyle.UnsetBorderStyle().Render(line)
		case i == m.selected:
			line = theme.SelectedItemStyle.Render(line)
		default:
			line = lipgloss.NewStyle().PaddingLeft(2).Render(line)
		}
		rows = append(rows, line)
	}

	style := lipgloss.NewStyle().Width(m.width).Height(m.height)
	if hoverID == "waiting" {
		style = style.Inherit(theme.DropHintStyle)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
