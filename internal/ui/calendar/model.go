// Package calendar renders the week-grid surface: seven day columns of
// hour slots, with time-overlapping tasks packed into display columns.
package calendar

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planboard/internal/drag"
	"github.com/nhle/planboard/internal/keys"
	"github.com/nhle/planboard/internal/layout"
	"github.com/nhle/planboard/internal/schedule"
	"github.com/nhle/planboard/internal/state"
	"github.com/nhle/planboard/internal/theme"
)

// gutterWidth is the hour label column on the left edge.
const gutterWidth = 6

// columnStep is the horizontal offset between overlapping cards in one
// day column. Cards deliberately overlap rather than shrink.
const columnStep = 2

// Model is the week calendar view.
type Model struct {
	set  *state.Set
	keys *keys.KeyMap

	width  int
	height int

	// anchor is any instant inside the displayed week.
	anchor time.Time

	dayStart int
	dayEnd   int
}

// New creates a calendar view over the working set, showing hour rows
// from dayStart to dayEnd.
func New(set *state.Set, km *keys.KeyMap, dayStart, dayEnd, width, height int) Model {
	return Model{
		set:      set,
		keys:     km,
		anchor:   time.Now(),
		dayStart: dayStart,
		dayEnd:   dayEnd,
		width:    width,
		height:   height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles week paging.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.PrevWeek):
		m.anchor = m.anchor.AddDate(0, 0, -7)
	case key.Matches(keyMsg, m.keys.NextWeek):
		m.anchor = m.anchor.AddDate(0, 0, 7)
	case key.Matches(keyMsg, m.keys.Refresh):
		m.anchor = time.Now()
	}
	return m, nil
}

// weekStart returns the Sunday beginning the displayed week.
func (m Model) weekStart() time.Time {
	d := schedule.StartOfDay(m.anchor)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func (m Model) dayWidth() int {
	w := (m.width - gutterWidth) / 7
	if w < 6 {
		w = 6
	}
	return w
}

// placed is one task card positioned in the day grid.
type placed struct {
	taskID   string
	title    string
	dragID   string
	startRow int
	rows     int
	col      int
	cols     int
}

// placeDay computes card positions for one day using first-fit interval
// packing over the day's tasks.
func (m Model) placeDay(day time.Time) []placed {
	tasks := m.set.TasksOnDay(day)
	if len(tasks) == 0 {
		return nil
	}

	spans := make([]layout.Span, len(tasks))
	for i, t := range tasks {
		spans[i] = layout.Span{ID: t.ID, Start: t.StartHour(), End: t.EndHour()}
	}
	placements := layout.Pack(spans)

	byID := make(map[string]layout.Placement, len(placements))
	for _, p := range placements {
		byID[p.ID] = p
	}

	out := make([]placed, 0, len(tasks))
	for _, t := range tasks {
		p := byID[t.ID]
		startRow := int(t.StartHour()) - m.dayStart
		rows := int(math.Ceil(t.EndHour())) - int(t.StartHour())
		if rows < 1 {
			rows = 1
		}
		out = append(out, placed{
			taskID:   t.ID,
			title:    t.Title,
			dragID:   drag.ItemID{Surface: drag.SurfaceCalendar, TaskID: t.ID}.String(),
			startRow: startRow,
			rows:     rows,
			col:      p.Column,
			cols:     p.Columns,
		})
	}
	return out
}

// Regions reports droppable areas: one region per day-hour slot plus one
// per rendered card. Card regions double as drag sources.
func (m Model) Regions(originX, originY int) []drag.Region {
	dayWidth := m.dayWidth()
	week := m.weekStart()

	var regions []drag.Region
	for d := 0; d < 7; d++ {
		day := week.AddDate(0, 0, d)
		x := originX + gutterWidth + d*dayWidth

		for hour := m.dayStart; hour < m.dayEnd; hour++ {
			regions = append(regions, drag.Region{
				ID: drag.SlotID(day, hour),
				X:  x, Y: originY + 1 + (hour - m.dayStart),
				W: dayWidth, H: 1,
			})
		}

		for _, p := range m.placeDay(day) {
			if p.startRow < 0 || p.startRow >= m.dayEnd-m.dayStart {
				continue
			}
			offset := p.col * columnStep
			if offset > dayWidth-4 {
				offset = dayWidth - 4
			}
			regions = append(regions, drag.Region{
				ID: p.dragID,
				X:  x + offset, Y: originY + 1 + p.startRow,
				W: dayWidth - offset, H: p.rows,
			})
		}
	}
	return regions
}

// View renders the week grid. draggingID highlights the held card;
// hoverID marks the slot the drag would drop into.
func (m Model) View(draggingID string, hoverID string) string {
	dayWidth := m.dayWidth()
	week := m.weekStart()
	hourRows := m.dayEnd - m.dayStart

	// Hour gutter.
	gutter := make([]string, 0, hourRows+1)
	gutter = append(gutter, lipgloss.NewStyle().Width(gutterWidth).Render(""))
	for hour := m.dayStart; hour < m.dayEnd; hour++ {
		gutter = append(gutter, theme.HelpStyle.
			Width(gutterWidth).
			Render(fmt.Sprintf("%02d:00", hour)))
	}
	columns := []string{lipgloss.JoinVertical(lipgloss.Left, gutter...)}

	today := schedule.StartOfDay(time.Now())
	for d := 0; d < 7; d++ {
		day := week.AddDate(0, 0, d)

		headerStyle := theme.ColumnHeaderStyle.Width(dayWidth)
		if schedule.StartOfDay(day).Equal(today) {
			headerStyle = headerStyle.Background(theme.ColorBlue)
		}
		header := headerStyle.Render(day.Format("Mon 02"))

		rows := make([][]rune, hourRows)
		for r := range rows {
			rows[r] = blankRow(dayWidth)
		}

		for hour := m.dayStart; hour < m.dayEnd; hour++ {
			if hoverID == drag.SlotID(day, hour) {
				overlay(rows[hour-m.dayStart], "·drop·", 0)
			}
		}

		for _, p := range m.placeDay(day) {
			m.drawCard(rows, p, dayWidth, draggingID)
		}

		dayLines := []string{header}
		for _, row := range rows {
			dayLines = append(dayLines, string(row))
		}
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Left, dayLines...))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// drawCard writes a card's start row and continuation markers into the
// day's rune grid. Later (further-right) columns overwrite earlier ones,
// which is the intended slight overlap.
func (m Model) drawCard(rows [][]rune, p placed, dayWidth int, draggingID string) {
	offset := p.col * columnStep
	if offset > dayWidth-4 {
		offset = dayWidth - 4
	}

	marker := "▎"
	if p.dragID == draggingID {
		marker = "▶"
	}

	label := marker + truncate(p.title, dayWidth-offset-1)
	for r := 0; r < p.rows; r++ {
		row := p.startRow + r
		if row < 0 || row >= len(rows) {
			continue
		}
		if r == 0 {
			overlay(rows[row], label, offset)
		} else {
			overlay(rows[row], marker, offset)
		}
	}
}

func blankRow(width int) []rune {
	row := make([]rune, width)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// overlay writes s into row starting at col, clipped to the row width.
func overlay(row []rune, s string, col int) {
	for i, r := range []rune(s) {
		at := col + i
		if at < 0 || at >= len(row) {
			return
		}
		row[at] = r
	}
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
