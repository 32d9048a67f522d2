package feedclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverActivity(id string) Activity {
	return Activity{
		ID:      id,
		Type:    "comment",
		Message: "hello team",
		Author: Author{
			UserID: "user_A", Name: "Ada Lovelace", Email: "ada@example.com",
			AvatarInitials: "AL", AvatarColor: "#2563eb",
		},
		Mentions:  []Mention{},
		Tags:      []string{},
		Likes:     1,
		LikedBy:   []string{"u1"},
		Replies:   []Reply{{ReplyID: "r1", AuthorID: "u1", AuthorName: "Uno", Message: "hi", CreatedAt: time.Now().UTC()}},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": status < 400,
		"message": message,
		"data":    json.RawMessage(raw),
	})
}

func TestClient_ListPopulatesView(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/", r.URL.Path)
		assert.Equal(t, "comment", r.URL.Query().Get("type"))
		writeEnvelope(w, http.StatusOK, "", Page{
			Activities: []Activity{serverActivity("act_1"), serverActivity("act_2")},
			Pagination: Pagination{CurrentPage: 1, TotalPages: 1, TotalActivities: 2},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.List(context.Background(), ListQuery{Type: "comment"})
	require.NoError(t, err)
	assert.Len(t, page.Activities, 2)

	cached, ok := c.Cached("act_2")
	require.True(t, ok)
	assert.Equal(t, "hello team", cached.Message)
}

func TestClient_ToggleLike(t *testing.T) {
	t.Run("optimistic_flip_then_server_truth", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				writeEnvelope(w, http.StatusOK, "", serverActivity("act_1"))
				return
			}
			a := serverActivity("act_1")
			a.Likes = 2
			a.LikedBy = []string{"u1", "user_B"}
			raw, _ := json.Marshal(a)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"message": "Activity liked",
				"data":    json.RawMessage(raw),
				"isLiked": true,
			})
		}))
		defer srv.Close()

		c := New(srv.URL)
		_, err := c.Get(context.Background(), "act_1")
		require.NoError(t, err)

		a, liked, err := c.ToggleLike(context.Background(), "act_1", "user_B")
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 2, a.Likes)

		cached, _ := c.Cached("act_1")
		assert.Equal(t, 2, cached.Likes)
		assert.True(t, cached.IsLikedBy("user_B"))
	})

	t.Run("failure_reverts_local_flip", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				writeEnvelope(w, http.StatusOK, "", serverActivity("act_1"))
				return
			}
			atomic.AddInt32(&calls, 1)
			writeEnvelope(w, http.StatusNotFound, "activity not found", nil)
		}))
		defer srv.Close()

		c := New(srv.URL)
		_, err := c.Get(context.Background(), "act_1")
		require.NoError(t, err)
		before, _ := c.Cached("act_1")

		_, _, err = c.ToggleLike(context.Background(), "act_1", "user_B")
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)

		after, _ := c.Cached("act_1")
		assert.Equal(t, before.Likes, after.Likes)
		assert.Equal(t, before.LikedBy, after.LikedBy)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})
}

func TestClient_OwnershipPredicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "", serverActivity("act_1"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Get(context.Background(), "act_1")
	require.NoError(t, err)

	t.Run("activity_ownership_exact_match", func(t *testing.T) {
		assert.True(t, c.CanDeleteActivity("act_1", "user_A"))
		assert.False(t, c.CanDeleteActivity("act_1", "USER_A"))
		assert.False(t, c.CanDeleteActivity("act_1", ""))
		assert.False(t, c.CanDeleteActivity("unknown", "user_A"))
	})

	t.Run("reply_ownership", func(t *testing.T) {
		assert.True(t, c.CanDeleteReply("act_1", "r1", "u1"))
		assert.False(t, c.CanDeleteReply("act_1", "r1", "user_A"))
		assert.False(t, c.CanDeleteReply("act_1", "r9", "u1"))
	})
}

func TestClient_DeleteDropsView(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeEnvelope(w, http.StatusOK, "", serverActivity("act_1"))
		case http.MethodDelete:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "user_A", body["userId"])
			writeEnvelope(w, http.StatusOK, "Activity deleted", serverActivity("act_1"))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Get(context.Background(), "act_1")
	require.NoError(t, err)

	_, err = c.Delete(context.Background(), "act_1", "user_A")
	require.NoError(t, err)

	_, ok := c.Cached("act_1")
	assert.False(t, ok)
}

func TestClient_ErrorMessagesSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, "only the author can delete this activity", nil)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Delete(context.Background(), "act_1", "user_B")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, apiErr.Message, "only the author")
}
