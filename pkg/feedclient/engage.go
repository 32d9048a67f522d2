package feedclient

import (
	"context"
	"encoding/json"
	"net/http"
)

// ToggleLike flips the local view immediately, then issues the request. On
// success the view is replaced with the server record; on failure the flip is
// reverted before the error is returned.
func (c *Client) ToggleLike(ctx context.Context, activityID, userID string) (*Activity, bool, error) {
	c.flipLocal(activityID, userID)

	path := activityPath(activityID) + "like"
	raw, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		c.flipLocal(activityID, userID)
		return nil, false, err
	}

	var out struct {
		envelope
		IsLiked bool `json:"isLiked"`
	}
	if err := c.doRaw(ctx, http.MethodPost, path, raw, &out); err != nil {
		c.flipLocal(activityID, userID)
		return nil, false, err
	}

	var a Activity
	if err := json.Unmarshal(out.Data, &a); err != nil {
		c.flipLocal(activityID, userID)
		return nil, false, err
	}
	c.store(&a)
	return &a, out.IsLiked, nil
}

// flipLocal applies an optimistic toggle to the cached view if present. A
// second call with the same arguments undoes the first.
func (c *Client) flipLocal(activityID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.view[activityID]
	if !ok {
		return
	}
	if a.IsLikedBy(userID) {
		next := a.LikedBy[:0:0]
		for _, id := range a.LikedBy {
			if id != userID {
				next = append(next, id)
			}
		}
		a.LikedBy = next
		if a.Likes > 0 {
			a.Likes--
		}
	} else {
		a.LikedBy = append(a.LikedBy, userID)
		a.Likes++
	}
}

// CanDeleteActivity reports whether the user owns the activity per the local
// view. Ownership is exact id equality; there is no admin override.
func (c *Client) CanDeleteActivity(activityID, userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.view[activityID]
	return ok && userID != "" && a.Author.UserID == userID
}

// CanDeleteReply reports whether the user authored the reply per the local view.
func (c *Client) CanDeleteReply(activityID, replyID, userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.view[activityID]
	if !ok || userID == "" {
		return false
	}
	for _, r := range a.Replies {
		if r.ReplyID == replyID {
			return r.AuthorID == userID
		}
	}
	return false
}
