package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/planboard/internal/model"
)

func event(id string, parent string) model.Event {
	e := model.Event{ID: id, Title: id}
	if parent != "" {
		e.ParentID = &parent
	}
	return e
}

func eventIDs(events []model.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestBuildChildIndex(t *testing.T) {
	idx := BuildChildIndex([]model.Event{
		event("q1", ""),
		event("s1", "q1"),
		event("s2", "q1"),
		event("q2", ""),
	})

	assert.Equal(t, []string{"q1", "q2"}, eventIDs(idx.Roots()))
	assert.Equal(t, []string{"s1", "s2"}, eventIDs(idx["q1"]))
	assert.Empty(t, idx["q2"])
}

func TestDescendantsDepthFirstInputOrder(t *testing.T) {
	idx := BuildChildIndex([]model.Event{
		event("q1", ""),
		event("s1", "q1"),
		event("s2", "q1"),
		event("t1", "s1"),
		event("t2", "s1"),
	})

	assert.Equal(t, []string{"s1", "t1", "t2", "s2"}, eventIDs(idx.Descendants("q1")))
	assert.Equal(t, []string{"q1", "s1", "t1", "t2", "s2"}, eventIDs(idx.Descendants("")))
	assert.Empty(t, idx.Descendants("t1"))
}
