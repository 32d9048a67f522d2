//go:build integration
// +build integration

package cases

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/teamdesk/activity-service/test/integration/infra"
	"github.com/teamdesk/activity-service/test/integration/infra/wait"
)

type Env struct {
	BaseURL string
	DBURL   string
}

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("missing env %s", k)
	}
	return v
}

func setup(t *testing.T) Env {
	t.Helper()

	e := Env{
		BaseURL: mustEnv(t, "ACTIVITY_BASE_URL"),
		DBURL:   mustEnv(t, "DATABASE_URL"),
	}

	if err := wait.HTTP200(e.BaseURL+"/healthz", 10*time.Second); err != nil {
		t.Fatalf("activity-service not ready: %v", err)
	}

	db, err := infra.OpenDB(e.DBURL)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := infra.PingDB(db); err != nil {
		t.Fatalf("ping db: %v", err)
	}
	if err := infra.ResetActivities(db); err != nil {
		t.Fatalf("reset activities: %v", err)
	}

	return e
}

type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	IsLiked *bool           `json:"isLiked,omitempty"`
}

func doJSON(t *testing.T, method, url string, body any) (int, Envelope) {
	t.Helper()

	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var env Envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

type activityPayload struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Likes   int    `json:"likes"`
	LikedBy []string `json:"likedBy"`
	IsPinned bool  `json:"isPinned"`
	Replies []struct {
		ReplyID  string `json:"replyId"`
		AuthorID string `json:"authorId"`
		Message  string `json:"message"`
	} `json:"replies"`
	Author struct {
		UserID string `json:"userId"`
	} `json:"author"`
}

func decodeActivity(t *testing.T, env Envelope) activityPayload {
	t.Helper()
	var a activityPayload
	if err := json.Unmarshal(env.Data, &a); err != nil {
		t.Fatalf("decode activity: %v", err)
	}
	return a
}
