package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdesk/activity-service/internal/application/activity"
	"github.com/teamdesk/activity-service/internal/domain"
)

// --- Fakes ---

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type stubDirectory struct{ users map[string]*activity.UserProfile }

func (d stubDirectory) Resolve(ctx context.Context, id string) (*activity.UserProfile, error) {
	if p, ok := d.users[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound("user not found")
}

type stubCatalog struct{}

func (stubCatalog) Resolve(ctx context.Context, id string) (*activity.EventSummary, error) {
	return nil, domain.ErrNotFound("event not found")
}

type stubRepo struct {
	byID map[string]*domain.Activity
}

func (m *stubRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("activity not found")
	}
	cp := *a
	return &cp, nil
}

func (m *stubRepo) List(ctx context.Context, f activity.ListFilter) ([]*domain.Activity, int, error) {
	var out []*domain.Activity
	for _, a := range m.byID {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (m *stubRepo) Update(ctx context.Context, a *domain.Activity) error {
	if _, ok := m.byID[a.ID]; !ok {
		return domain.ErrNotFound("activity not found")
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *stubRepo) ToggleLike(ctx context.Context, id, userID string, now time.Time) (*domain.Activity, bool, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, false, domain.ErrNotFound("activity not found")
	}
	if a.IsLikedBy(userID) {
		next := a.LikedBy[:0:0]
		for _, u := range a.LikedBy {
			if u != userID {
				next = append(next, u)
			}
		}
		a.LikedBy = next
	} else {
		a.LikedBy = append(a.LikedBy, userID)
	}
	a.LikeCount = len(a.LikedBy)
	cp := *a
	return &cp, a.IsLikedBy(userID), nil
}

func (m *stubRepo) SetPinned(ctx context.Context, id string, pinned bool, now time.Time) (*domain.Activity, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("activity not found")
	}
	a.IsPinned = pinned
	cp := *a
	return &cp, nil
}

func (m *stubRepo) AddReply(ctx context.Context, activityID string, r domain.Reply) (*domain.Activity, error) {
	a, ok := m.byID[activityID]
	if !ok {
		return nil, domain.ErrNotFound("activity not found")
	}
	a.Replies = append(a.Replies, r)
	cp := *a
	return &cp, nil
}

func (m *stubRepo) DeleteReply(ctx context.Context, activityID, replyID, authorID string, now time.Time) (*domain.Activity, error) {
	a, ok := m.byID[activityID]
	if !ok {
		return nil, domain.ErrNotFound("activity not found")
	}
	next := a.Replies[:0:0]
	for _, r := range a.Replies {
		if r.ID != replyID {
			next = append(next, r)
		}
	}
	a.Replies = next
	cp := *a
	return &cp, nil
}

func (m *stubRepo) Stats(ctx context.Context) (activity.Stats, error) {
	return activity.Stats{TotalActivities: len(m.byID), CountsByType: map[string]int{}}, nil
}

type stubTx struct{ m *stubRepo }

func (t stubTx) Insert(ctx context.Context, a *domain.Activity) error {
	cp := *a
	t.m.byID[a.ID] = &cp
	return nil
}
func (t stubTx) Delete(ctx context.Context, id string) error {
	if _, ok := t.m.byID[id]; !ok {
		return domain.ErrNotFound("activity not found")
	}
	delete(t.m.byID, id)
	return nil
}
func (t stubTx) InsertOutbox(ctx context.Context, msg activity.OutboxMessage) error { return nil }

func (m *stubRepo) WithTx(ctx context.Context, fn func(tr activity.TxActivityRepo) error) error {
	return fn(stubTx{m: m})
}

func newTestRouter(t *testing.T) (*chi.Mux, *stubRepo) {
	t.Helper()
	repo := &stubRepo{byID: map[string]*domain.Activity{}}
	users := stubDirectory{users: map[string]*activity.UserProfile{
		"user_A": {UserID: "user_A", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
	}}
	svc := activity.New(repo, users, stubCatalog{}, fakeClock{t: time.Now().UTC()}, activity.NoopPublisher{}, nil, 0, 0, 0)
	h := NewActivitiesHandler(svc)

	r := chi.NewRouter()
	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)
		r.Route("/{activity_id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/like", h.ToggleLike)
			r.Put("/pin", h.SetPinned)
			r.Post("/reply", h.AddReply)
			r.Delete("/reply/{reply_id}", h.DeleteReply)
		})
	})
	return r, repo
}

func seed(t *testing.T, repo *stubRepo) *domain.Activity {
	t.Helper()
	a, err := domain.NewActivity(domain.TypeComment, "hello team", domain.AuthorSnapshot{
		UserID: "user_A", Name: "Ada Lovelace", Email: "ada@example.com",
		AvatarInitials: "AL", AvatarColor: "#2563eb",
	}, nil, nil, nil, time.Now().UTC())
	require.NoError(t, err)
	repo.byID[a.ID] = a
	return a
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type respEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	IsLiked *bool           `json:"isLiked"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) respEnvelope {
	t.Helper()
	var env respEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// --- Tests ---

func TestCreateActivity(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("201_created", func(t *testing.T) {
		rec := doJSON(t, r, "POST", "/activities/", `{"type":"comment","message":"hi","userId":"user_A"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		env := decode(t, rec)
		assert.True(t, env.Success)
		assert.Equal(t, "Activity created", env.Message)

		var data map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "hi", data["message"])
		assert.Equal(t, float64(0), data["likes"])
	})

	t.Run("unknown_body_field_400", func(t *testing.T) {
		rec := doJSON(t, r, "POST", "/activities/", `{"type":"comment","message":"hi","userId":"user_A","admin":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown_author_404", func(t *testing.T) {
		rec := doJSON(t, r, "POST", "/activities/", `{"type":"comment","message":"hi","userId":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid_type_400", func(t *testing.T) {
		rec := doJSON(t, r, "POST", "/activities/", `{"type":"announcement","message":"hi","userId":"user_A"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetActivity(t *testing.T) {
	r, repo := newTestRouter(t)
	a := seed(t, repo)

	t.Run("200", func(t *testing.T) {
		rec := doJSON(t, r, "GET", "/activities/"+a.ID+"/", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non_uuid_400", func(t *testing.T) {
		rec := doJSON(t, r, "GET", "/activities/act_123/", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown_404", func(t *testing.T) {
		rec := doJSON(t, r, "GET", "/activities/"+uuid.NewString()+"/", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestToggleLikeEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	a := seed(t, repo)

	t.Run("like_then_unlike", func(t *testing.T) {
		rec := doJSON(t, r, "POST", "/activities/"+a.ID+"/like", `{"userId":"user_B"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decode(t, rec)
		require.NotNil(t, env.IsLiked)
		assert.True(t, *env.IsLiked)
		assert.Equal(t, "Activity liked", env.Message)

		rec = doJSON(t, r, "POST", "/activities/"+a.ID+"/like", `{"userId":"user_B"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		env = decode(t, rec)
		require.NotNil(t, env.IsLiked)
		assert.False(t, *env.IsLiked)
		assert.Equal(t, "Activity unliked", env.Message)
	})

	t.Run("missing_user_id_400", func(t *testing.T) {
		rec := doJSON(t, r, "POST", "/activities/"+a.ID+"/like", `{"userId":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteActivityEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)

	t.Run("non_owner_403", func(t *testing.T) {
		a := seed(t, repo)
		rec := doJSON(t, r, "DELETE", "/activities/"+a.ID+"/", `{"userId":"user_B"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner_200_returns_removed_record", func(t *testing.T) {
		a := seed(t, repo)
		rec := doJSON(t, r, "DELETE", "/activities/"+a.ID+"/", `{"userId":"user_A"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "Activity deleted", env.Message)

		rec = doJSON(t, r, "GET", "/activities/"+a.ID+"/", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing_user_id_400_not_403", func(t *testing.T) {
		a := seed(t, repo)
		rec := doJSON(t, r, "DELETE", "/activities/"+a.ID+"/", `{"userId":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPinEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	a := seed(t, repo)

	t.Run("pin", func(t *testing.T) {
		rec := doJSON(t, r, "PUT", "/activities/"+a.ID+"/pin", `{"isPinned":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Activity pinned", decode(t, rec).Message)
	})

	t.Run("unpin", func(t *testing.T) {
		rec := doJSON(t, r, "PUT", "/activities/"+a.ID+"/pin", `{"isPinned":false}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Activity unpinned", decode(t, rec).Message)
	})

	t.Run("missing_flag_400", func(t *testing.T) {
		rec := doJSON(t, r, "PUT", "/activities/"+a.ID+"/pin", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReplyEndpoints(t *testing.T) {
	r, repo := newTestRouter(t)
	a := seed(t, repo)

	var replyID string

	t.Run("add_reply", func(t *testing.T) {
		rec := doJSON(t, r, "POST", "/activities/"+a.ID+"/reply", `{"userId":"user_A","message":"nice"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "Reply added", env.Message)

		var data struct {
			Replies []struct {
				ReplyID string `json:"replyId"`
			} `json:"replies"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.Len(t, data.Replies, 1)
		replyID = data.Replies[0].ReplyID
	})

	t.Run("delete_reply_wrong_user_403", func(t *testing.T) {
		rec := doJSON(t, r, "DELETE", "/activities/"+a.ID+"/reply/"+replyID, `{"userId":"user_B"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete_reply_author_200", func(t *testing.T) {
		rec := doJSON(t, r, "DELETE", "/activities/"+a.ID+"/reply/"+replyID, `{"userId":"user_A"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Reply deleted", decode(t, rec).Message)
	})

	t.Run("unknown_reply_404", func(t *testing.T) {
		rec := doJSON(t, r, "DELETE", "/activities/"+a.ID+"/reply/"+uuid.NewString(), `{"userId":"user_A"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non_uuid_reply_id_400", func(t *testing.T) {
		rec := doJSON(t, r, "DELETE", "/activities/"+a.ID+"/reply/r1", `{"userId":"user_A"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListAndStatsEndpoints(t *testing.T) {
	r, repo := newTestRouter(t)
	seed(t, repo)

	t.Run("list_envelope_shape", func(t *testing.T) {
		rec := doJSON(t, r, "GET", "/activities/?page=1&limit=10", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Activities []json.RawMessage `json:"activities"`
			Pagination struct {
				CurrentPage     int `json:"currentPage"`
				TotalActivities int `json:"totalActivities"`
			} `json:"pagination"`
		}
		env := decode(t, rec)
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Len(t, data.Activities, 1)
		assert.Equal(t, 1, data.Pagination.CurrentPage)
		assert.Equal(t, 1, data.Pagination.TotalActivities)
	})

	t.Run("bad_is_pinned_400", func(t *testing.T) {
		rec := doJSON(t, r, "GET", "/activities/?isPinned=maybe", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad_page_400", func(t *testing.T) {
		rec := doJSON(t, r, "GET", "/activities/?page=abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad_limit_400", func(t *testing.T) {
		rec := doJSON(t, r, "GET", "/activities/?limit=ten", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad_type_400", func(t *testing.T) {
		rec := doJSON(t, r, "GET", "/activities/?type=announcement", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("stats_is_not_shadowed_by_id_route", func(t *testing.T) {
		rec := doJSON(t, r, "GET", "/activities/stats", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			TotalActivities int `json:"totalActivities"`
		}
		env := decode(t, rec)
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, 1, data.TotalActivities)
	})
}

func TestUpdateEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	a := seed(t, repo)

	rec := doJSON(t, r, "PUT", "/activities/"+a.ID+"/", `{"message":"edited"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "Activity updated", env.Message)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "edited", data["message"])
}
