package app

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/remote"
	"github.com/nhle/planboard/internal/schedule"
	"github.com/nhle/planboard/internal/state"
	"github.com/nhle/planboard/internal/theme"
)

// startupTimeout bounds the initial bulk load.
const startupTimeout = 30 * time.Second

// warmStartMsg carries the cached collections for a cold start.
type warmStartMsg struct {
	tasks    []model.Task
	projects []model.Project
	events   []model.Event
	err      error
}

// connectedMsg reports the outcome of the remote bulk load.
type connectedMsg struct {
	err error
}

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// notificationsLoadedMsg carries the unread notification list.
type notificationsLoadedMsg struct {
	items []model.Notification
}

// cacheWrittenMsg reports a cache write-behind result.
type cacheWrittenMsg struct {
	err error
}

// warmStart loads the cached collections so something renders before the
// remote bulk load completes.
func (m Model) warmStart() tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := cache.GetTasks(ctx)
		if err != nil {
			return warmStartMsg{err: err}
		}
		projects, err := cache.GetProjects(ctx)
		if err != nil {
			return warmStartMsg{err: err}
		}
		events, err := cache.GetEvents(ctx)
		if err != nil {
			return warmStartMsg{err: err}
		}
		return warmStartMsg{tasks: tasks, projects: projects, events: events}
	}
}

// connect runs the remote bulk load into the working set.
func (m Model) connect() tea.Cmd {
	set := m.set
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		return connectedMsg{err: set.Init(ctx, client)}
	}
}

// handleWarmStart shows cached data, but only while the remote load has
// not already filled the working set.
func (m Model) handleWarmStart(msg warmStartMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("cache warm start: %v", msg.err)
		return m, nil
	}
	if m.set.Initialized() || len(msg.tasks)+len(msg.projects)+len(msg.events) == 0 {
		return m, nil
	}

	m.set.Tasks = msg.tasks
	m.set.Projects = msg.projects
	m.set.Events = msg.events

	// Cached data is stale by definition; do not let the healing scan
	// persist corrections computed from it.
	m.healedRevision = m.set.Revision()
	m.cachedRevision = m.set.Revision()
	return m, m.fetchUnreadCount()
}

func (m Model) handleConnected(msg connectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("remote bulk load: %v", msg.err)
		m.statusMessage = "Remote store unreachable; showing cached data."
		return m, nil
	}

	m.statusMessage = ""
	cmds := []tea.Cmd{m.fetchUnreadCount()}

	if m.cfg.Remote.FeedEnabled {
		m.feedConnected = true
		cmds = append(cmds, m.listener.Start())
	}

	return m, m.afterMutation(tea.Batch(cmds...))
}

// shutdown tears down the session and quits.
func (m *Model) shutdown() tea.Cmd {
	m.listener.Stop()
	m.set.Teardown()
	return tea.Quit
}

// afterMutation is the central post-message hook: whenever the working
// set moved to a new revision, run the healing scan and schedule a cache
// write-behind, then return everything batched with the given command.
func (m *Model) afterMutation(cmd tea.Cmd) tea.Cmd {
	cmds := []tea.Cmd{cmd}

	if healCmd := m.heal(); healCmd != nil {
		cmds = append(cmds, healCmd)
	}
	if cacheCmd := m.writeCache(); cacheCmd != nil {
		cmds = append(cmds, cacheCmd)
	}

	if len(cmds) == 1 {
		return cmd
	}
	return tea.Batch(cmds...)
}

// heal runs the status healing scan against the current working set
// revision. Corrections dispatch as ordinary update intents tagged with
// the healing origin, so their persistence failures stay silent.
func (m *Model) heal() tea.Cmd {
	if !m.set.Initialized() || m.set.Revision() == m.healedRevision {
		return nil
	}

	now := time.Now()
	var cmds []tea.Cmd
	for _, c := range schedule.Corrections(m.set.Tasks, now) {
		status := c.Status
		cmd, ok := m.mutator.Dispatch(state.Intent{
			Op:     state.OpUpdate,
			Entity: remote.EntityTasks,
			Origin: state.OriginHealing,
			ID:     c.TaskID,
			Patch:  model.TaskPatch{Status: &status},
		})
		if ok && cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	// The corrections themselves bumped the revision; they are already
	// consistent, so mark the scan caught up past them.
	m.healedRevision = m.set.Revision()

	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// writeCache mirrors the working set into the local cache when its
// revision moved. Failures are logged, never surfaced as errors.
func (m *Model) writeCache() tea.Cmd {
	if !m.set.Initialized() || m.set.Revision() == m.cachedRevision {
		return nil
	}
	m.cachedRevision = m.set.Revision()

	cache := m.cache
	tasks := append([]model.Task(nil), m.set.Tasks...)
	projects := append([]model.Project(nil), m.set.Projects...)
	events := append([]model.Event(nil), m.set.Events...)

	return func() tea.Msg {
		ctx := context.Background()
		if err := cache.ReplaceTasks(ctx, tasks); err != nil {
			return cacheWrittenMsg{err: err}
		}
		if err := cache.ReplaceProjects(ctx, projects); err != nil {
			return cacheWrittenMsg{err: err}
		}
		if err := cache.ReplaceEvents(ctx, events); err != nil {
			return cacheWrittenMsg{err: err}
		}
		return cacheWrittenMsg{}
	}
}

// recordNotification persists a notice into the notification log.
func (m Model) recordNotification(n state.NoticeMsg) tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		record := state.NewNotification(n)
		if err := cache.CreateNotification(context.Background(), record); err != nil {
			log.Printf("recording notification: %v", err)
		}
		return nil
	}
}

// fetchUnreadCount queries the store for the unread notification count.
func (m Model) fetchUnreadCount() tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		count, err := cache.UnreadNotificationCount(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: count}
	}
}

// loadNotifications fetches the unread notifications for the overlay.
func (m Model) loadNotifications() tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		items, err := cache.GetUnreadNotifications(context.Background())
		if err != nil {
			log.Printf("loading notifications: %v", err)
			return notificationsLoadedMsg{}
		}
		return notificationsLoadedMsg{items: items}
	}
}

// closeNotifications marks the displayed notifications read.
func (m *Model) closeNotifications() tea.Cmd {
	if m.currentView != ViewNotifications || len(m.notifications) == 0 {
		m.notifications = nil
		return nil
	}

	cache := m.cache
	ids := make([]string, len(m.notifications))
	for i, n := range m.notifications {
		ids[i] = n.ID
	}
	m.notifications = nil

	return tea.Batch(
		func() tea.Msg {
			ctx := context.Background()
			for _, id := range ids {
				if err := cache.MarkNotificationRead(ctx, id); err != nil {
					log.Printf("marking notification read: %v", err)
				}
			}
			return nil
		},
		m.fetchUnreadCount(),
	)
}

// renderNotifications draws the notification overlay.
func (m Model) renderNotifications() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render(fmt.Sprintf("Notifications (%d unread)", len(m.notifications)))

	lines := []string{title}
	if len(m.notifications) == 0 {
		lines = append(lines, theme.HelpStyle.Render("Nothing new."))
	}
	for _, n := range m.notifications {
		stamp := theme.HelpStyle.Render(n.CreatedAt.Format("Jan 02 15:04"))
		lines = append(lines, fmt.Sprintf("%s  %s", stamp, n.Message))
	}

	return theme.BorderStyle.
		Width(m.layout.ContentWidth() - 4).
		Height(m.layout.ContentHeight() - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// joinPanels lays side-by-side panels out horizontally.
func joinPanels(panels ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}
