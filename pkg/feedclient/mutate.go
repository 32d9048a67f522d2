package feedclient

import (
	"context"
	"net/http"
	"net/url"
)

type CreateActivity struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	UserID   string   `json:"userId"`
	EventID  string   `json:"eventId,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func (c *Client) Create(ctx context.Context, in CreateActivity) (*Activity, error) {
	var a Activity
	if err := c.do(ctx, http.MethodPost, "/activities/", in, &a); err != nil {
		return nil, err
	}
	c.store(&a)
	return &a, nil
}

type UpdateActivity struct {
	Message  *string   `json:"message,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	IsPinned *bool     `json:"isPinned,omitempty"`
}

func (c *Client) Update(ctx context.Context, activityID string, in UpdateActivity) (*Activity, error) {
	var a Activity
	if err := c.do(ctx, http.MethodPut, activityPath(activityID), in, &a); err != nil {
		return nil, err
	}
	c.store(&a)
	return &a, nil
}

// Delete removes the activity; the server enforces ownership and returns the
// removed record. The local view entry is dropped on success.
func (c *Client) Delete(ctx context.Context, activityID, userID string) (*Activity, error) {
	var a Activity
	body := map[string]string{"userId": userID}
	if err := c.do(ctx, http.MethodDelete, activityPath(activityID), body, &a); err != nil {
		return nil, err
	}
	c.mu.Lock()
	delete(c.view, activityID)
	c.mu.Unlock()
	return &a, nil
}

func (c *Client) SetPinned(ctx context.Context, activityID string, pinned bool) (*Activity, error) {
	var a Activity
	body := map[string]bool{"isPinned": pinned}
	if err := c.do(ctx, http.MethodPut, activityPath(activityID)+"pin", body, &a); err != nil {
		return nil, err
	}
	c.store(&a)
	return &a, nil
}

func (c *Client) AddReply(ctx context.Context, activityID, userID, message string) (*Activity, error) {
	var a Activity
	body := map[string]string{"userId": userID, "message": message}
	if err := c.do(ctx, http.MethodPost, activityPath(activityID)+"reply", body, &a); err != nil {
		return nil, err
	}
	c.store(&a)
	return &a, nil
}

func (c *Client) DeleteReply(ctx context.Context, activityID, replyID, userID string) (*Activity, error) {
	var a Activity
	body := map[string]string{"userId": userID}
	path := activityPath(activityID) + "reply/" + url.PathEscape(replyID)
	if err := c.do(ctx, http.MethodDelete, path, body, &a); err != nil {
		return nil, err
	}
	c.store(&a)
	return &a, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := c.do(ctx, http.MethodGet, "/activities/stats", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func activityPath(id string) string {
	return "/activities/" + url.PathEscape(id) + "/"
}
