package state

import (
	"fmt"

	"github.com/nhle/planboard/internal/remote"
)

// ApplyFeed merges a change-feed event into the working set. Records pass
// through the same wire codec as the initial bulk load. Merging is
// last-field-wins by entity id with no causal ordering: a feed event that
// arrives after a local optimistic write can overwrite it, and vice
// versa. That weak-consistency point is accepted, not worked around.
func (m *Mutator) ApplyFeed(evt remote.FeedEvent) error {
	if evt.Type == remote.EventDelete {
		m.removeByID(evt.Entity, remote.RecordID(evt.Record))
		return nil
	}

	switch evt.Entity {
	case remote.EntityTasks:
		t, err := remote.DecodeTask(evt.Record)
		if err != nil {
			return fmt.Errorf("merging task feed event: %w", err)
		}
		for i := range m.set.Tasks {
			if m.set.Tasks[i].ID == t.ID {
				m.set.Tasks[i] = t
				m.set.bump()
				return nil
			}
		}
		m.set.Tasks = append(m.set.Tasks, t)
		m.set.bump()

	case remote.EntityProjects:
		p, err := remote.DecodeProject(evt.Record)
		if err != nil {
			return fmt.Errorf("merging project feed event: %w", err)
		}
		for i := range m.set.Projects {
			if m.set.Projects[i].ID == p.ID {
				m.set.Projects[i] = p
				m.set.bump()
				return nil
			}
		}
		m.set.Projects = append(m.set.Projects, p)
		m.set.bump()

	default:
		e, err := remote.DecodeEvent(evt.Record)
		if err != nil {
			return fmt.Errorf("merging event feed event: %w", err)
		}
		for i := range m.set.Events {
			if m.set.Events[i].ID == e.ID {
				m.set.Events[i] = e
				m.set.bump()
				return nil
			}
		}
		m.set.Events = append(m.set.Events, e)
		m.set.bump()
	}
	return nil
}
