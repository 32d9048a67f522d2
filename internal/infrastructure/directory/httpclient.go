// Package directory holds the HTTP clients for the two external
// collaborators: the user directory and the event catalog. Both expose the
// same response envelope as the rest of the platform.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/teamdesk/activity-service/internal/domain"
	"github.com/teamdesk/activity-service/internal/pkg/reqctx"
)

const defaultTimeout = 2 * time.Second

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

func newHTTPClient(baseURL string, timeout time.Duration) httpClient {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return httpClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// getJSON fetches path and decodes the envelope's data into dest.
// A 404 comes back as domain.ErrNotFound carrying notFoundMsg.
func (c httpClient) getJSON(ctx context.Context, path, notFoundMsg string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if reqID := reqctx.RequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		zlog.Warn().Err(err).Str("url", req.URL.String()).Dur("latency", time.Since(start)).Msg("collaborator request failed")
		return fmt.Errorf("collaborator request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound(notFoundMsg)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("collaborator request: unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("collaborator response decode: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("collaborator response: success=false: %s", env.Message)
	}
	return json.Unmarshal(env.Data, dest)
}
