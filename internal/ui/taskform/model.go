package taskform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/theme"
)

// TaskCreatedMsg is dispatched when a new task is created via the form.
type TaskCreatedMsg struct {
	Task model.Task
}

// TaskUpdatedMsg is dispatched when an existing task is updated via the form.
type TaskUpdatedMsg struct {
	TaskID string
	Patch  model.TaskPatch
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	priority    string
	dueDate     string
	dueTime     string
	duration    string
	projectID   string
	assignee    string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	projects []model.Project
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMid},
		width:  width,
		height: height,
	}
}

// SetProjects sets the available projects for the form selector.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.priority = model.PriorityMid
	m.fb.dueDate = ""
	m.fb.dueTime = ""
	m.fb.duration = ""
	m.fb.projectID = ""
	m.fb.assignee = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.priority = task.Priority
	if m.fb.priority == "" {
		m.fb.priority = model.PriorityMid
	}
	if task.Due != nil {
		m.fb.dueDate = task.Due.Format("2006-01-02")
		m.fb.dueTime = task.Due.Format("15:04")
	} else {
		m.fb.dueDate = ""
		m.fb.dueTime = ""
	}
	if task.DurationMin > 0 {
		m.fb.duration = strconv.Itoa(task.DurationMin)
	} else {
		m.fb.duration = ""
	}
	if task.ProjectID != nil {
		m.fb.projectID = *task.ProjectID
	} else {
		m.fb.projectID = ""
	}
	if len(task.AssignedTo) > 0 {
		m.fb.assignee = task.AssignedTo[0]
	} else {
		m.fb.assignee = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs doing?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Mid", model.PriorityMid),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
		huh.NewInput().
			Title("Due Time").
			Placeholder("HH:MM (optional)").
			Value(&m.fb.dueTime).
			Validate(validateOptionalTime),
		huh.NewInput().
			Title("Duration (minutes)").
			Placeholder("60").
			Value(&m.fb.duration).
			Validate(validateOptionalInt),
		m.projectField(),
		huh.NewInput().
			Title("Assignee").
			Placeholder("user id (optional)").
			Value(&m.fb.assignee),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) projectField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("None", ""),
	}
	for _, p := range m.projects {
		opts = append(opts, huh.NewOption(p.Name, p.ID))
	}
	return huh.NewSelect[string]().
		Title("Project").
		Options(opts...).
		Value(&m.fb.projectID)
}

// due assembles the form's date and time inputs into an instant. A date
// without a time lands at midnight; a time without a date is ignored.
func (m Model) due() *time.Time {
	date := strings.TrimSpace(m.fb.dueDate)
	if date == "" {
		return nil
	}
	clock := strings.TrimSpace(m.fb.dueTime)
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

func (m Model) handleSubmit() tea.Cmd {
	due := m.due()
	durationMin := 0
	if d := strings.TrimSpace(m.fb.duration); d != "" {
		durationMin, _ = strconv.Atoi(d)
	}

	if m.editMode {
		patch := model.TaskPatch{
			Title:       &m.fb.title,
			Description: &m.fb.description,
			Priority:    &m.fb.priority,
		}
		if due != nil {
			patch.Due = due
			patch.RawDate = ptr(due.Format("2006-01-02"))
			patch.RawTime = ptr(due.Format("15:04"))
		} else {
			patch.ClearDue = true
			patch.RawDate = ptr("")
			patch.RawTime = ptr("")
		}
		if durationMin > 0 {
			patch.DurationMin = &durationMin
		}
		if m.fb.projectID != "" {
			patch.ProjectID = ptr(m.fb.projectID)
		} else {
			patch.ClearProject = true
		}
		if a := strings.TrimSpace(m.fb.assignee); a != "" {
			patch.AssignedTo = []string{a}
		}
		id := m.editID
		return func() tea.Msg { return TaskUpdatedMsg{TaskID: id, Patch: patch} }
	}

	task := model.Task{
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		Priority:    m.fb.priority,
		Due:         due,
		DurationMin: durationMin,
	}
	if due != nil {
		task.RawDate = due.Format("2006-01-02")
		task.RawTime = due.Format("15:04")
	}
	if m.fb.projectID != "" {
		task.ProjectID = ptr(m.fb.projectID)
	}
	if a := strings.TrimSpace(m.fb.assignee); a != "" {
		task.AssignedTo = []string{a}
	}
	return func() tea.Msg { return TaskCreatedMsg{Task: task} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func ptr[T any](v T) *T { return &v }

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("15:04", s)
	if err != nil {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

func validateOptionalInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}
