package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RESTClient implements Client against the store's HTTP API. It handles
// Bearer token authentication, JSON marshaling, and automatic retry with
// exponential backoff on HTTP 429.
type RESTClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a client for the store rooted at baseURL,
// authenticating with the given access token.
func NewRESTClient(baseURL, token string) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// FetchAll retrieves every record in the collection.
func (c *RESTClient) FetchAll(
	ctx context.Context,
	entity Entity,
) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/"+string(entity), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Insert creates a record and returns the stored version.
func (c *RESTClient) Insert(
	ctx context.Context,
	entity Entity,
	record any,
) (json.RawMessage, error) {
	var stored json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/"+string(entity), record, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Update applies a partial snake_case patch to one record.
func (c *RESTClient) Update(
	ctx context.Context,
	entity Entity,
	id string,
	patch map[string]any,
) error {
	path := fmt.Sprintf("/%s/%s", entity, id)
	return c.do(ctx, http.MethodPatch, path, patch, nil)
}

// Delete removes one or more records by id.
func (c *RESTClient) Delete(
	ctx context.Context,
	entity Entity,
	ids ...string,
) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) == 1 {
		path := fmt.Sprintf("/%s/%s", entity, ids[0])
		return c.do(ctx, http.MethodDelete, path, nil, nil)
	}
	body := map[string][]string{"ids": ids}
	return c.do(ctx, http.MethodDelete, "/"+string(entity), body, nil)
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and JSON (de)serialization.
func (c *RESTClient) do(
	ctx context.Context,
	method string,
	path string,
	body any,
	result any,
) error {
	url := c.baseURL + path

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &RequestError{
				Status: resp.StatusCode,
				Method: method,
				Path:   path,
				Body:   strings.TrimSpace(string(respBody)),
			}
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
			}
		}
		return nil
	}
}
