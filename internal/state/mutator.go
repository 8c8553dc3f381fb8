package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/remote"
)

// ReconcileMsg is the settled outcome of one persistence call.
type ReconcileMsg struct {
	Intent Intent

	// TempID is the placeholder id assigned at Apply time for creates.
	TempID string

	// Record is the stored record returned by a successful insert.
	Record json.RawMessage

	Err error
}

// NoticeMsg is a transient user-facing notification to record and show.
type NoticeMsg struct {
	Entity   remote.Entity
	EntityID string
	Message  string
}

// RefetchMsg carries a fresh copy of the task collection after a
// reconciling refetch.
type RefetchMsg struct {
	Tasks []model.Task
	Err   error
}

// Mutator is the optimistic mutation layer. Every mutation goes through
// three explicit phases: Apply (synchronous local effect), Persist
// (fire-and-forget remote call), and Reconcile (per-operation-class
// settlement of the result).
//
// Persistence calls carry no ordering guarantee: two rapid edits to the
// same record can land at the store in reverse order, and the last one to
// land wins.
type Mutator struct {
	set    *Set
	client remote.Client

	// lastTemp makes temp-id tokens strictly monotonic even when two
	// creates share a millisecond.
	lastTemp int64
}

// NewMutator wires the mutation layer to a working set and remote client.
func NewMutator(set *Set, client remote.Client) *Mutator {
	return &Mutator{set: set, client: client}
}

// Dispatch runs Apply and, if the intent passed local validation, returns
// the Persist command. A false second return means the intent was
// rejected at the boundary (no local effect, nothing persisted).
func (m *Mutator) Dispatch(intent Intent) (tea.Cmd, bool) {
	tempID, ok := m.Apply(intent)
	if !ok {
		return nil, false
	}
	return m.Persist(intent, tempID), true
}

// Apply performs the synchronous local effect of an intent, immediately
// and unconditionally. For creates it assigns a temp id and returns it.
// Validation failures (empty title) reject silently: no mutation, no
// error surfaced.
func (m *Mutator) Apply(intent Intent) (string, bool) {
	switch intent.Op {
	case OpCreate:
		return m.applyCreate(intent)
	case OpUpdate:
		m.applyUpdate(intent)
		return "", true
	default:
		m.applyDelete(intent)
		return "", true
	}
}

func (m *Mutator) applyCreate(intent Intent) (string, bool) {
	now := time.Now()
	switch intent.Entity {
	case remote.EntityTasks:
		if intent.Task == nil || strings.TrimSpace(intent.Task.Title) == "" {
			return "", false
		}
		t := *intent.Task
		t.ID = m.nextTempID()
		if t.DurationMin <= 0 {
			t.DurationMin = model.DefaultDurationMin
		}
		t.CreatedAt = now
		t.UpdatedAt = now
		m.set.Tasks = append(m.set.Tasks, t)
		m.set.bump()
		return t.ID, true

	case remote.EntityProjects:
		if intent.Project == nil || strings.TrimSpace(intent.Project.Name) == "" {
			return "", false
		}
		p := *intent.Project
		p.ID = m.nextTempID()
		p.CreatedAt = now
		p.UpdatedAt = now
		m.set.Projects = append(m.set.Projects, p)
		m.set.bump()
		return p.ID, true

	default:
		if intent.Event == nil || strings.TrimSpace(intent.Event.Title) == "" {
			return "", false
		}
		e := *intent.Event
		e.ID = m.nextTempID()
		e.CreatedAt = now
		e.UpdatedAt = now
		m.set.Events = append(m.set.Events, e)
		m.set.bump()
		return e.ID, true
	}
}

func (m *Mutator) applyUpdate(intent Intent) {
	switch intent.Entity {
	case remote.EntityTasks:
		for i := range m.set.Tasks {
			if m.set.Tasks[i].ID == intent.ID {
				intent.Patch.Apply(&m.set.Tasks[i])
				m.set.bump()
				return
			}
		}
	case remote.EntityProjects:
		if intent.Project == nil {
			return
		}
		for i := range m.set.Projects {
			if m.set.Projects[i].ID == intent.ID {
				m.set.Projects[i] = *intent.Project
				m.set.Projects[i].UpdatedAt = time.Now()
				m.set.bump()
				return
			}
		}
	default:
		if intent.Event == nil {
			return
		}
		for i := range m.set.Events {
			if m.set.Events[i].ID == intent.ID {
				m.set.Events[i] = *intent.Event
				m.set.Events[i].UpdatedAt = time.Now()
				m.set.bump()
				return
			}
		}
	}
}

func (m *Mutator) applyDelete(intent Intent) {
	switch intent.Entity {
	case remote.EntityTasks:
		for i := range m.set.Tasks {
			if m.set.Tasks[i].ID == intent.ID {
				m.set.Tasks = append(m.set.Tasks[:i], m.set.Tasks[i+1:]...)
				m.set.bump()
				return
			}
		}
	case remote.EntityProjects:
		for i := range m.set.Projects {
			if m.set.Projects[i].ID == intent.ID {
				m.set.Projects = append(m.set.Projects[:i], m.set.Projects[i+1:]...)
				m.set.bump()
				return
			}
		}
	default:
		for i := range m.set.Events {
			if m.set.Events[i].ID == intent.ID {
				m.set.Events = append(m.set.Events[:i], m.set.Events[i+1:]...)
				m.set.bump()
				return
			}
		}
	}
}

// Persist issues the asynchronous remote call for an already-applied
// intent. The returned command never blocks the interaction loop; the
// result arrives later as a ReconcileMsg.
func (m *Mutator) Persist(intent Intent, tempID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		msg := ReconcileMsg{Intent: intent, TempID: tempID}

		switch intent.Op {
		case OpCreate:
			record, err := encodeCreate(intent)
			if err != nil {
				msg.Err = err
				return msg
			}
			msg.Record, msg.Err = client.Insert(ctx, intent.Entity, record)

		case OpUpdate:
			patch, err := encodeUpdate(intent)
			if err != nil {
				msg.Err = err
				return msg
			}
			msg.Err = client.Update(ctx, intent.Entity, intent.ID, patch)

		default:
			msg.Err = client.Delete(ctx, intent.Entity, intent.ID)
		}
		return msg
	}
}

func encodeCreate(intent Intent) (map[string]any, error) {
	switch intent.Entity {
	case remote.EntityTasks:
		return remote.EncodeTask(*intent.Task)
	case remote.EntityProjects:
		return remote.EncodeProject(*intent.Project)
	default:
		return remote.EncodeEvent(*intent.Event)
	}
}

func encodeUpdate(intent Intent) (map[string]any, error) {
	switch intent.Entity {
	case remote.EntityTasks:
		return remote.EncodeTaskPatch(intent.Patch), nil
	case remote.EntityProjects:
		if intent.Project == nil {
			return nil, fmt.Errorf("update intent for project %s carries no record", intent.ID)
		}
		patch, err := remote.EncodeProject(*intent.Project)
		if err != nil {
			return nil, err
		}
		delete(patch, "id")
		return patch, nil
	default:
		if intent.Event == nil {
			return nil, fmt.Errorf("update intent for event %s carries no record", intent.ID)
		}
		patch, err := remote.EncodeEvent(*intent.Event)
		if err != nil {
			return nil, err
		}
		delete(patch, "id")
		return patch, nil
	}
}

// Reconcile settles a persistence result against the working set,
// following the per-operation-class policy:
//
//   - create success: the most recent temp entry is swapped for the
//     stored record (there is no other correlation key);
//   - create failure: the temp entry is removed outright;
//   - update failure: logged, optionally notified, never rolled back —
//     the optimistic value stays authoritative until the next external
//     correction arrives;
//   - delete failure: a full reconciling refetch of the collection.
//
// The returned command carries any follow-up work (notification, refetch).
func (m *Mutator) Reconcile(msg ReconcileMsg) tea.Cmd {
	if msg.Err == nil {
		if msg.Intent.Op == OpCreate {
			m.swapLatestTemp(msg.Intent.Entity, msg.Record)
		}
		return nil
	}

	log.Printf("persisting %s %s %s: %v",
		msg.Intent.Op, msg.Intent.Entity, msg.Intent.ID, msg.Err)

	var cmds []tea.Cmd

	if msg.Intent.Op == OpCreate && msg.TempID != "" {
		m.removeByID(msg.Intent.Entity, msg.TempID)
	}

	if msg.Intent.Op == OpDelete && msg.Intent.Entity == remote.EntityTasks {
		cmds = append(cmds, m.refetchTasks())
	}

	if msg.Intent.Origin == OriginUser {
		notice := NoticeMsg{
			Entity:   msg.Intent.Entity,
			EntityID: msg.Intent.ID,
			Message:  fmt.Sprintf("Could not %s %s; the server rejected the change.", msg.Intent.Op, msg.Intent.Entity),
		}
		cmds = append(cmds, func() tea.Msg { return notice })
	}

	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// HandleRefetch swaps in the refetched task collection, undoing any
// optimistic removal the failed delete left behind.
func (m *Mutator) HandleRefetch(msg RefetchMsg) {
	if msg.Err != nil {
		log.Printf("reconciling refetch failed: %v", msg.Err)
		return
	}
	m.set.ReplaceTasks(msg.Tasks)
}

// refetchTasks returns a command that fetches the whole task collection
// and decodes it for HandleRefetch.
func (m *Mutator) refetchTasks() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		records, err := client.FetchAll(context.Background(), remote.EntityTasks)
		if err != nil {
			return RefetchMsg{Err: err}
		}
		tasks := make([]model.Task, 0, len(records))
		for _, raw := range records {
			t, err := remote.DecodeTask(raw)
			if err != nil {
				return RefetchMsg{Err: err}
			}
			tasks = append(tasks, t)
		}
		return RefetchMsg{Tasks: tasks}
	}
}

// nextTempID produces a temp-<token> placeholder id with a strictly
// monotonic millisecond token.
func (m *Mutator) nextTempID() string {
	ms := time.Now().UnixMilli()
	if ms <= m.lastTemp {
		ms = m.lastTemp + 1
	}
	m.lastTemp = ms
	return fmt.Sprintf("temp-%d", ms)
}

// swapLatestTemp replaces the most recent temp entry in the collection
// with the authoritative stored record.
func (m *Mutator) swapLatestTemp(entity remote.Entity, record json.RawMessage) {
	switch entity {
	case remote.EntityTasks:
		for i := len(m.set.Tasks) - 1; i >= 0; i-- {
			if m.set.Tasks[i].IsTemp() {
				t, err := remote.DecodeTask(record)
				if err != nil {
					log.Printf("decoding stored task: %v", err)
					return
				}
				m.set.Tasks[i] = t
				m.set.bump()
				return
			}
		}
	case remote.EntityProjects:
		for i := len(m.set.Projects) - 1; i >= 0; i-- {
			if strings.HasPrefix(m.set.Projects[i].ID, "temp-") {
				p, err := remote.DecodeProject(record)
				if err != nil {
					log.Printf("decoding stored project: %v", err)
					return
				}
				m.set.Projects[i] = p
				m.set.bump()
				return
			}
		}
	default:
		for i := len(m.set.Events) - 1; i >= 0; i-- {
			if strings.HasPrefix(m.set.Events[i].ID, "temp-") {
				e, err := remote.DecodeEvent(record)
				if err != nil {
					log.Printf("decoding stored event: %v", err)
					return
				}
				m.set.Events[i] = e
				m.set.bump()
				return
			}
		}
	}
}

func (m *Mutator) removeByID(entity remote.Entity, id string) {
	m.applyDelete(Intent{Op: OpDelete, Entity: entity, ID: id})
}

// NewNotification builds a persisted notification record for a notice.
func NewNotification(n NoticeMsg) model.Notification {
	return model.Notification{
		ID:        uuid.New().String(),
		Entity:    string(n.Entity),
		EntityID:  n.EntityID,
		Message:   n.Message,
		CreatedAt: time.Now(),
	}
}
