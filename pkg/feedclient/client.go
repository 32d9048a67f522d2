// Package feedclient is a typed client for the activity feed REST API.
//
// It keeps a last-known view of each activity it has fetched so callers can
// render engagement state (like membership, ownership) without a round trip,
// and applies like toggles optimistically: the local view flips first, the
// request follows, and the view is either replaced with the server record or
// reverted on failure.
package feedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Second

type Client struct {
	baseURL string
	http    *http.Client

	mu   sync.Mutex
	view map[string]*Activity // last known state per activity id
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		view:    make(map[string]*Activity),
	}
}

// ListQuery mirrors the server's list filter. Zero values are omitted.
type ListQuery struct {
	Type      string
	IsPinned  *bool
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (q ListQuery) encode() string {
	v := url.Values{}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.IsPinned != nil {
		v.Set("isPinned", strconv.FormatBool(*q.IsPinned))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	return v.Encode()
}

// List fetches a page and refreshes the local view with every returned record.
func (c *Client) List(ctx context.Context, q ListQuery) (*Page, error) {
	path := "/activities/"
	if enc := q.encode(); enc != "" {
		path += "?" + enc
	}
	var page Page
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	c.mu.Lock()
	for i := range page.Activities {
		a := page.Activities[i]
		c.view[a.ID] = &a
	}
	c.mu.Unlock()
	return &page, nil
}

// Refresh re-reads the first page with the given query. There is no push
// channel; callers poll when they want fresh engagement counts.
func (c *Client) Refresh(ctx context.Context, q ListQuery) (*Page, error) {
	q.Page = 1
	return c.List(ctx, q)
}

func (c *Client) Get(ctx context.Context, activityID string) (*Activity, error) {
	var a Activity
	if err := c.do(ctx, http.MethodGet, "/activities/"+url.PathEscape(activityID)+"/", nil, &a); err != nil {
		return nil, err
	}
	c.store(&a)
	return &a, nil
}

// Cached returns the last known view of an activity, if any.
func (c *Client) Cached(activityID string) (*Activity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.view[activityID]
	if !ok {
		return nil, false
	}
	cp := *a
	return &cp, true
}

func (c *Client) store(a *Activity) {
	c.mu.Lock()
	c.view[a.ID] = a
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var env envelope
	if err := c.doRaw(ctx, method, path, raw, &env); err != nil {
		return err
	}
	if dest != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}

// doRaw sends the request and decodes the whole response body into dest,
// which must embed or be an envelope. Error statuses become APIError.
func (c *Client) doRaw(ctx context.Context, method, path string, body []byte, dest any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	var env envelope
	_ = json.Unmarshal(data, &env)
	if res.StatusCode >= 400 || !env.Success {
		return &APIError{Status: res.StatusCode, Message: env.Message}
	}
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a non-2xx response from the feed service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feed api: %d %s", e.Status, e.Message)
}
