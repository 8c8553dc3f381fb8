package state

import "github.com/nhle/planboard/internal/model"

// ChildIndex is an adjacency map from parent event id to its children,
// built once per render pass. Roots are keyed by the empty string.
type ChildIndex map[string][]model.Event

// BuildChildIndex indexes events by their parent id, preserving input
// order within each parent.
func BuildChildIndex(events []model.Event) ChildIndex {
	idx := make(ChildIndex, len(events))
	for _, e := range events {
		key := ""
		if e.ParentID != nil {
			key = *e.ParentID
		}
		idx[key] = append(idx[key], e)
	}
	return idx
}

// Descendants returns every event below rootID, depth-first, traversed
// iteratively with an explicit stack.
func (idx ChildIndex) Descendants(rootID string) []model.Event {
	var out []model.Event
	first := idx[rootID]
	stack := make([]model.Event, 0, len(first))
	for i := len(first) - 1; i >= 0; i-- {
		stack = append(stack, first[i])
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, e)
		children := idx[e.ID]
		// Push in reverse so children come out in input order.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

// Roots returns the top-level events in input order.
func (idx ChildIndex) Roots() []model.Event {
	return idx[""]
}
