package directory

import (
	"context"
	"net/url"
	"time"

	"github.com/teamdesk/activity-service/internal/application/activity"
)

type Events struct {
	c httpClient
}

func NewEvents(baseURL string, timeout time.Duration) *Events {
	return &Events{c: newHTTPClient(baseURL, timeout)}
}

type eventPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"startDate"`
	Location  string    `json:"location"`
}

func (e *Events) Resolve(ctx context.Context, eventID string) (*activity.EventSummary, error) {
	var p eventPayload
	if err := e.c.getJSON(ctx, "/events/"+url.PathEscape(eventID), "event not found", &p); err != nil {
		return nil, err
	}
	return &activity.EventSummary{
		EventID:   p.ID,
		Title:     p.Title,
		StartDate: p.StartDate,
		Location:  p.Location,
	}, nil
}
