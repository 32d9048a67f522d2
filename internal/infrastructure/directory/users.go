package directory

import (
	"context"
	"net/url"
	"time"

	"github.com/teamdesk/activity-service/internal/application/activity"
)

type Users struct {
	c httpClient
}

func NewUsers(baseURL string, timeout time.Duration) *Users {
	return &Users{c: newHTTPClient(baseURL, timeout)}
}

type userPayload struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	AvatarColor string `json:"avatarColor"`
}

func (u *Users) Resolve(ctx context.Context, userID string) (*activity.UserProfile, error) {
	var p userPayload
	if err := u.c.getJSON(ctx, "/users/"+url.PathEscape(userID), "user not found", &p); err != nil {
		return nil, err
	}
	return &activity.UserProfile{
		UserID:      p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		AvatarColor: p.AvatarColor,
	}, nil
}
