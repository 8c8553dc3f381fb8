package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nhle/planboard/internal/remote"
)

// FakeClient is a scripted in-memory remote.Client. Every call is
// recorded; responses and failures are configured per method.
type FakeClient struct {
	mu sync.Mutex

	// Collections holds the raw records FetchAll returns per entity.
	Collections map[remote.Entity][]json.RawMessage

	// InsertResult is returned by Insert when InsertErr is nil.
	InsertResult json.RawMessage

	InsertErr error
	UpdateErr error
	DeleteErr error
	FetchErr  error

	Inserts []FakeInsert
	Updates []FakeUpdate
	Deletes []FakeDelete

	feeds []chan remote.FeedEvent
}

// FakeInsert records one Insert call.
type FakeInsert struct {
	Entity remote.Entity
	Record any
}

// FakeUpdate records one Update call.
type FakeUpdate struct {
	Entity remote.Entity
	ID     string
	Patch  map[string]any
}

// FakeDelete records one Delete call.
type FakeDelete struct {
	Entity remote.Entity
	IDs    []string
}

var _ remote.Client = (*FakeClient)(nil)

// NewFakeClient returns an empty fake remote store.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Collections: make(map[remote.Entity][]json.RawMessage),
	}
}

// SetCollection scripts the records FetchAll returns for an entity.
func (c *FakeClient) SetCollection(entity remote.Entity, records ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw := make([]json.RawMessage, len(records))
	for i, r := range records {
		raw[i] = json.RawMessage(r)
	}
	c.Collections[entity] = raw
}

func (c *FakeClient) FetchAll(ctx context.Context, entity remote.Entity) ([]json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FetchErr != nil {
		return nil, c.FetchErr
	}
	return c.Collections[entity], nil
}

func (c *FakeClient) Insert(ctx context.Context, entity remote.Entity, record any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Inserts = append(c.Inserts, FakeInsert{Entity: entity, Record: record})
	if c.InsertErr != nil {
		return nil, c.InsertErr
	}
	if c.InsertResult != nil {
		return c.InsertResult, nil
	}
	return nil, fmt.Errorf("no insert result scripted")
}

func (c *FakeClient) Update(ctx context.Context, entity remote.Entity, id string, patch map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Updates = append(c.Updates, FakeUpdate{Entity: entity, ID: id, Patch: patch})
	return c.UpdateErr
}

func (c *FakeClient) Delete(ctx context.Context, entity remote.Entity, ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Deletes = append(c.Deletes, FakeDelete{Entity: entity, IDs: ids})
	return c.DeleteErr
}

// Subscribe returns a feed channel the test can push events into via Emit.
func (c *FakeClient) Subscribe(ctx context.Context, entity remote.Entity) (<-chan remote.FeedEvent, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan remote.FeedEvent, 16)
	c.feeds = append(c.feeds, ch)
	return ch, func() { close(ch) }, nil
}

// Emit pushes a feed event to every open subscription.
func (c *FakeClient) Emit(evt remote.FeedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.feeds {
		ch <- evt
	}
}
