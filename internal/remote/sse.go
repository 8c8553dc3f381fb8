package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// feedBuffer bounds how many undelivered events a subscription holds.
const feedBuffer = 64

// Subscribe opens the server-sent-event change feed for an entity and
// delivers decoded events until the stop function is called or the
// context is canceled. The connection is re-established with backoff on
// read errors; the subscription itself lives for the whole session.
func (c *RESTClient) Subscribe(
	ctx context.Context,
	entity Entity,
) (<-chan FeedEvent, func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	ch := make(chan FeedEvent, feedBuffer)

	go func() {
		defer close(ch)
		backoff := time.Second
		for {
			err := c.streamFeed(subCtx, entity, ch)
			if subCtx.Err() != nil {
				return
			}
			if err != nil {
				log.Printf("change feed %s: %v (reconnecting in %s)", entity, err, backoff)
			}
			select {
			case <-time.After(backoff):
			case <-subCtx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
		}
	}()

	return ch, cancel, nil
}

// streamFeed opens one feed connection and pumps events until the stream
// ends or the context is canceled.
func (c *RESTClient) streamFeed(
	ctx context.Context,
	entity Entity,
	ch chan<- FeedEvent,
) error {
	url := c.baseURL + "/" + string(entity) + "/feed"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "text/event-stream")

	// Streaming request: the default client timeout would kill the feed.
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RequestError{
			Status: resp.StatusCode,
			Method: http.MethodGet,
			Path:   "/" + string(entity) + "/feed",
			Body:   strings.TrimSpace(string(body)),
		}
	}

	return ReadEventStream(resp.Body, entity, func(evt FeedEvent) {
		select {
		case ch <- evt:
		case <-ctx.Done():
		}
	})
}

// ReadEventStream parses a text/event-stream body, invoking deliver for
// every complete event whose name is a known change type and whose data
// is a JSON record. Unknown event names and malformed data lines are
// skipped.
func ReadEventStream(r io.Reader, entity Entity, deliver func(FeedEvent)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventName string
	var data strings.Builder

	flush := func() {
		defer func() {
			eventName = ""
			data.Reset()
		}()

		et := EventType(eventName)
		if et != EventInsert && et != EventUpdate && et != EventDelete {
			return
		}
		raw := data.String()
		if !json.Valid([]byte(raw)) {
			log.Printf("change feed %s: dropping malformed %s payload", entity, et)
			return
		}
		deliver(FeedEvent{Type: et, Entity: entity, Record: json.RawMessage(raw)})
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				flush()
			}
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(line[len("data:"):]))
		}
	}
	if data.Len() > 0 {
		flush()
	}
	return scanner.Err()
}
