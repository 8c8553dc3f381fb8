// Package app is the root Bubble Tea model: view routing, the pointer
// drag state machine, session lifecycle, and the glue between the
// working set, the remote store, and the local cache.
package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planboard/internal/drag"
	"github.com/nhle/planboard/internal/feed"
	"github.com/nhle/planboard/internal/keys"
	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/remote"
	"github.com/nhle/planboard/internal/state"
	"github.com/nhle/planboard/internal/store"
	"github.com/nhle/planboard/internal/ui"
	"github.com/nhle/planboard/internal/ui/board"
	"github.com/nhle/planboard/internal/ui/calendar"
	"github.com/nhle/planboard/internal/ui/helpview"
	"github.com/nhle/planboard/internal/ui/taskform"
	"github.com/nhle/planboard/internal/ui/waiting"
)

// waitingPanelWidth is the waiting-list side panel next to the calendar.
const waitingPanelWidth = 26

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewCalendar
	ViewWaiting
	ViewTaskCreate
	ViewTaskEdit
	ViewHelp
	ViewNotifications
)

// Model is the root Bubble Tea model that manages view routing, layout,
// the drag state machine, and the session lifecycle.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	set         *state.Set
	mutator     *state.Mutator
	coordinator drag.Coordinator
	client      remote.Client
	cache       store.Cache
	listener    *feed.Listener
	cfg         *model.AppConfig

	boardView    board.Model
	calendarView calendar.Model
	waitingView  waiting.Model
	formView     taskform.Model
	helpView     helpview.Model

	drag dragState

	// healedRevision and cachedRevision track which working-set revision
	// the last healing scan and cache write-behind ran against.
	healedRevision int
	cachedRevision int

	notifications []model.Notification
	unreadCount   int
	statusMessage string
	feedConnected bool
	ready         bool
}

// New creates the root application model.
func New(cfg *model.AppConfig, client remote.Client, cache store.Cache) Model {
	km := keys.DefaultKeyMap()
	set := state.NewSet()

	m := Model{
		currentView: ViewBoard,
		keys:        km,
		set:         set,
		mutator:     state.NewMutator(set, client),
		coordinator: drag.Coordinator{Lookup: set.TaskByID},
		client:      client,
		cache:       cache,
		listener:    feed.New(client),
		cfg:         cfg,

		boardView:    board.New(set, km, 80, 24),
		calendarView: calendar.New(set, km, cfg.Display.DayStartHour, cfg.Display.DayEndHour, 80, 24),
		waitingView:  waiting.New(set, km, 80, 24),
		formView:     taskform.New(80, 24),
		helpView:     helpview.New(km, 80, 24),
	}
	return m
}

// Init starts the session: warm start from the cache while the remote
// bulk load runs.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.warmStart(),
		m.connect(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.applySizes()
		return m.updateActiveView(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case warmStartMsg:
		return m.handleWarmStart(msg)

	case connectedMsg:
		return m.handleConnected(msg)

	case feed.EventMsg:
		if err := m.mutator.ApplyFeed(msg.Event); err != nil {
			m.statusMessage = "Change feed event could not be merged."
		}
		return m, m.afterMutation(m.listener.WaitForNext())

	case state.ReconcileMsg:
		return m, m.afterMutation(m.mutator.Reconcile(msg))

	case state.RefetchMsg:
		m.mutator.HandleRefetch(msg)
		return m, m.afterMutation(nil)

	case state.NoticeMsg:
		m.statusMessage = msg.Message
		return m, tea.Batch(m.recordNotification(msg), m.fetchUnreadCount())

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case notificationsLoadedMsg:
		m.notifications = msg.items
		m.previousView = m.currentView
		m.currentView = ViewNotifications
		return m, nil

	case cacheWrittenMsg:
		if msg.err != nil {
			m.statusMessage = "Local cache write failed."
		}
		return m, nil

	case board.SelectedMsg:
		return m.startEdit(msg.TaskID)

	case waiting.SelectedMsg:
		return m.startEdit(msg.TaskID)

	case taskform.TaskCreatedMsg:
		m.currentView = m.previousView
		task := msg.Task
		cmd, _ := m.mutator.Dispatch(state.Intent{
			Op:     state.OpCreate,
			Entity: remote.EntityTasks,
			Origin: state.OriginUser,
			Task:   &task,
		})
		return m, m.afterMutation(cmd)

	case taskform.TaskUpdatedMsg:
		m.currentView = m.previousView
		cmd, _ := m.mutator.Dispatch(state.Intent{
			Op:     state.OpUpdate,
			Entity: remote.EntityTasks,
			Origin: state.OriginUser,
			ID:     msg.TaskID,
			Patch:  msg.Patch,
		})
		return m, m.afterMutation(cmd)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if handled, next, cmd := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that apply regardless of the focused
// view. Form views keep full keyboard focus except for ctrl+c.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, m, m.shutdown()
	}

	if m.currentView == ViewTaskCreate || m.currentView == ViewTaskEdit {
		return false, m, nil
	}

	if m.drag.active && key.Matches(msg, m.keys.Back) {
		m.drag = dragState{}
		return true, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, m, m.shutdown()

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return true, m, nil

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp || m.currentView == ViewNotifications {
			cmd := m.closeNotifications()
			m.currentView = m.previousView
			return true, m, cmd
		}
		return false, m, nil

	case key.Matches(msg, m.keys.ViewBoard):
		m.switchView(ViewBoard)
		return true, m, nil

	case key.Matches(msg, m.keys.ViewCalendar):
		m.switchView(ViewCalendar)
		return true, m, nil

	case key.Matches(msg, m.keys.ViewWaiting):
		m.switchView(ViewWaiting)
		return true, m, nil

	case key.Matches(msg, m.keys.Notifications):
		if m.currentView == ViewNotifications {
			cmd := m.closeNotifications()
			m.currentView = m.previousView
			return true, m, cmd
		}
		return true, m, m.loadNotifications()

	case key.Matches(msg, m.keys.New):
		if m.onTaskSurface() {
			m.previousView = m.currentView
			m.currentView = ViewTaskCreate
			m.formView.SetProjects(m.set.Projects)
			return true, m, m.formView.StartCreate()
		}

	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.selectedTask(); ok {
			next, cmd := m.beginEdit(task)
			return true, next, cmd
		}

	case key.Matches(msg, m.keys.Complete):
		if task, ok := m.selectedTask(); ok {
			completed := !task.Completed
			cmd, _ := m.mutator.Dispatch(state.Intent{
				Op:     state.OpUpdate,
				Entity: remote.EntityTasks,
				Origin: state.OriginUser,
				ID:     task.ID,
				Patch:  model.TaskPatch{Completed: &completed},
			})
			return true, m, m.afterMutation(cmd)
		}

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selectedTask(); ok {
			cmd, _ := m.mutator.Dispatch(state.Intent{
				Op:     state.OpDelete,
				Entity: remote.EntityTasks,
				Origin: state.OriginUser,
				ID:     task.ID,
			})
			return true, m, m.afterMutation(cmd)
		}
	}

	return false, m, nil
}

// startEdit opens the edit form for the given task id.
func (m Model) startEdit(taskID string) (tea.Model, tea.Cmd) {
	task, ok := m.set.TaskByID(taskID)
	if !ok {
		return m, nil
	}
	return m.beginEdit(task)
}

func (m Model) beginEdit(task model.Task) (Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewTaskEdit
	m.formView.SetProjects(m.set.Projects)
	return m, m.formView.StartEdit(task)
}

// selectedTask returns the keyboard-focused task on the active surface.
func (m Model) selectedTask() (model.Task, bool) {
	switch m.currentView {
	case ViewBoard:
		return m.boardView.SelectedTask()
	case ViewCalendar, ViewWaiting:
		return m.waitingView.SelectedTask()
	default:
		return model.Task{}, false
	}
}

func (m Model) onTaskSurface() bool {
	switch m.currentView {
	case ViewBoard, ViewCalendar, ViewWaiting:
		return true
	default:
		return false
	}
}

func (m *Model) switchView(v ViewState) {
	if m.currentView == v {
		return
	}
	m.previousView = m.currentView
	m.currentView = v
	m.drag = dragState{}
	m.applySizes()
}

// applySizes pushes the current layout dimensions into every view. The
// waiting list is a side panel on the calendar view and full-width
// otherwise.
func (m *Model) applySizes() {
	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()

	m.boardView.SetSize(w, h)
	m.calendarView.SetSize(w-waitingPanelWidth, h)
	if m.currentView == ViewCalendar {
		m.waitingView.SetSize(waitingPanelWidth, h)
	} else {
		m.waitingView.SetSize(w, h)
	}
	m.formView.SetSize(w, h)
	m.helpView.SetSize(w, h)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewCalendar:
		// The calendar view and its waiting side panel share focus:
		// paging keys go to the grid, list navigation to the panel.
		var panelCmd tea.Cmd
		m.calendarView, cmd = m.calendarView.Update(msg)
		m.waitingView, panelCmd = m.waitingView.Update(msg)
		cmd = tea.Batch(cmd, panelCmd)
	case ViewWaiting:
		m.waitingView, cmd = m.waitingView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.formView, cmd = m.formView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, m.afterMutation(cmd)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "Planboard"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("Planboard [%d new]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.feedStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	dragID := m.drag.renderID()
	hover := m.drag.hoverID

	switch m.currentView {
	case ViewBoard:
		return m.boardView.View(dragID, hover)
	case ViewCalendar:
		return joinPanels(
			m.waitingView.View(dragID, hover),
			m.calendarView.View(dragID, hover),
		)
	case ViewWaiting:
		return m.waitingView.View(dragID, hover)
	case ViewTaskCreate, ViewTaskEdit:
		return m.formView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewNotifications:
		return m.renderNotifications()
	default:
		return ""
	}
}

// feedStatus returns a short string describing the change-feed state.
func (m Model) feedStatus() string {
	if !m.set.Initialized() {
		return "loading"
	}
	if !m.cfg.Remote.FeedEnabled {
		return "feed off"
	}
	if m.feedConnected {
		return "live"
	}
	return "offline"
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMessage != "" {
		return m.statusMessage
	}
	if m.drag.active {
		return "release to drop | esc cancel drag"
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return "N/esc close (marks read)"
	case ViewCalendar:
		return "q quit | ? help | [ ] week | n new | drag to schedule"
	default:
		return "q quit | ? help | 1 board | 2 calendar | 3 waiting | n new"
	}
}
