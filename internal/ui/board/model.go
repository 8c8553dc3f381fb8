// Package board renders the kanban surface: one fixed column per
// lifecycle bucket, with draggable task cards.
package board

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

// cardHeight is the rendered height of one task card including borders.
const cardHeight = 3

// headerRows is the column heading height.
const headerRows = 1

// SelectedMsg is emitted when the user opens a task from the board.
type SelectedMsg struct {
	TaskID string
}

// Model is the kanban board view.
type Model struct {
	set  *state.Set
	keys *keys.KeyMap

	width  int
	height int

	selectedCol int
	selectedRow int
}

// New creates a board view over the working set.
func New(set *state.Set, km *keys.KeyMap, width, height int) Model {
	return Model{set: set, keys: km, width: width, height: height}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles keyboard navigation within the board.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Left):
		if m.selectedCol > 0 {
			m.selectedCol--
			m.clampRow()
		}
	case key.Matches(keyMsg, m.keys.Right):
		if m.selectedCol < len(model.BoardColumns)-1 {
			m.selectedCol++
			m.clampRow()
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(keyMsg, m.keys.Down):
		m.selectedRow++
		m.clampRow()
	case key.Matches(keyMsg, m.keys.Select):
		if task, ok := m.SelectedTask(); ok {
			id := task.ID
			return m, func() tea.Msg { return SelectedMsg{TaskID: id} }
		}
	}
	return m, nil
}

func (m *Model) clampRow() {
	tasks := m.set.TasksInBucket(model.BoardColumns[m.selectedCol])
	if len(tasks) == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= len(tasks) {
		m.selectedRow = len(tasks) - 1
	}
}

// SelectedTask returns the task under the keyboard cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	tasks := m.set.TasksInBucket(model.BoardColumns[m.selectedCol])
	if m.selectedRow < 0 || m.selectedRow >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.selectedRow], true
}

func (m Model) columnWidth() int {
	w := m.width / len(model.BoardColumns)
	if w < 8 {
		w = 8
	}
	return w
}

func (m Model) visibleCards() int {
	n := (m.height - headerRows) / cardHeight
	if n < 1 {
		n = 1
	}
	return n
}

// Regions reports the droppable areas for the current geometry: one
// region per column plus one per visible card. Card regions double as
// drag sources.
func (m Model) Regions(originX, originY int) []drag.Region {
	colWidth := m.columnWidth()
	visible := m.visibleCards()

	var regions []drag.Region
	for c, bucket := range model.BoardColumns {
		x := originX + c*colWidth
		regions = append(regions, drag.Region{
			ID: bucket,
			X:  x, Y: originY,
			W: colWidth, H: m.height,
		})

		tasks := m.set.TasksInBucket(bucket)
		for i, t := range tasks {
			if i >= visible {
				break
			}
			regions = append(regions, drag.Region{
				ID: drag.ItemID{Surface: drag.SurfaceBoard, TaskID: t.ID}.String(),
				X:  x, Y: originY + headerRows + i*cardHeight,
				W: colWidth, H: cardHeight,
			})
		}
	}
	return regions
}

// View renders the board. draggingID is the card currently held by a
// pointer drag (highlighted); hoverID is the drop region under it.
func (m Model) View(draggingID string, hoverID string) string {
	colWidth := m.columnWidth()
	visible := m.visibleCards()

	columns := make([]string, 0, len(model.BoardColumns))
	for c, bucket := range model.BoardColumns {
		tasks := m.set.TasksInBucket(bucket)

		header := theme.ColumnHeaderStyle.
			Width(colWidth).
			Background(theme.BucketStyle(bucket).GetForeground()).
			Render(fmt.Sprintf("%s (%d)", bucket, len(tasks)))

		rows := []string{header}
		for i, t := range tasks {
			if i >= visible {
				break
			}
			rows = append(rows, m.renderCard(t, c, i, colWidth, draggingID))
		}

		col := lipgloss.JoinVertical(lipgloss.Left, rows...)
		colStyle := lipgloss.NewStyle().Width(colWidth).Height(m.height)
		if hoverID == bucket {
			colStyle = colStyle.Inherit(theme.DropHintStyle)
		}
		columns = append(columns, colStyle.Render(col))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m Model) renderCard(t model.Task, col, row, colWidth int, draggingID string) string {
	style := theme.CardStyle.Width(colWidth - 2)

	id := drag.ItemID{Surface: drag.SurfaceBoard, TaskID: t.ID}.String()
	switch {
	case id == draggingID:
		style = theme.DraggingCardStyle.Width(colWidth - 2)
	case col == m.selectedCol && row == m.selectedRow:
		style = style.BorderForeground(theme.ColorBlue)
	}

	title := t.Title
	if t.Completed {
		title = theme.CompletedStyle.Render(title)
	}
	if t.RawDate != "" {
		title += " " + theme.HelpStyle.Render(t.RawDate)
	}
	if t.IsTemp() {
		title += " " + theme.HelpStyle.Render("(saving)")
	}

	return style.Render(title)
}
