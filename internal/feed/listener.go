// Package feed bridges the remote store's change feed into the Bubble Tea
// runtime: one subscription per entity type, held for the lifetime of the
// session and torn down on logout.
package feed

import (
	"context"
	"log"
	gosync "sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planboard/internal/remote"
)

// EventMsg is a tea.Msg carrying one change-feed event.
type EventMsg struct {
	Event remote.FeedEvent
}

// Entities is the set of collections a session subscribes to.
var Entities = []remote.Entity{
	remote.EntityTasks,
	remote.EntityProjects,
	remote.EntityEvents,
}

// Listener owns the per-entity change-feed subscriptions and funnels
// their events into a single channel the UI drains.
type Listener struct {
	client   remote.Client
	resultCh chan remote.FeedEvent
	done     chan struct{}
	cancel   context.CancelFunc
	stops    []func()
	mu       gosync.Mutex
	running  bool
}

// New creates a Listener for the given remote client.
func New(client remote.Client) *Listener {
	return &Listener{
		client:   client,
		resultCh: make(chan remote.FeedEvent, 64),
	}
}

// Start opens a subscription per entity and returns a command that waits
// for the first event. Starting an already-running listener is a no-op.
func (l *Listener) Start() tea.Cmd {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = true
	l.done = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	for _, entity := range Entities {
		ch, stop, err := l.client.Subscribe(ctx, entity)
		if err != nil {
			log.Printf("subscribing to %s feed: %v", entity, err)
			continue
		}
		l.stops = append(l.stops, stop)
		go l.forward(ch)
	}
	l.mu.Unlock()

	return l.waitForEvent()
}

// Stop tears down every subscription. Called on logout.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	for _, stop := range l.stops {
		stop()
	}
	l.stops = nil
	if l.cancel != nil {
		l.cancel()
	}
	// Release any wait command still blocked on the result channel.
	close(l.done)
	l.running = false
}

// WaitForNext returns a command that waits for the next feed event.
// Call it after processing an EventMsg to keep listening.
func (l *Listener) WaitForNext() tea.Cmd {
	return l.waitForEvent()
}

// forward pumps one subscription channel into the shared result channel,
// dropping events rather than blocking if the UI falls behind.
func (l *Listener) forward(ch <-chan remote.FeedEvent) {
	for evt := range ch {
		select {
		case l.resultCh <- evt:
		default:
			log.Printf("change feed %s: dropping %s event, buffer full",
				evt.Entity, evt.Type)
		}
	}
}

// waitForEvent returns a command that blocks on the result channel and
// delivers the next event to the runtime, or nothing once the listener
// has stopped.
func (l *Listener) waitForEvent() tea.Cmd {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	return func() tea.Msg {
		if done == nil {
			return nil
		}
		select {
		case evt := <-l.resultCh:
			return EventMsg{Event: evt}
		case <-done:
			return nil
		}
	}
}
