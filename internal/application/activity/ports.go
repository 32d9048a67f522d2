package activity

import (
	"context"
	"time"

	"github.com/teamdesk/activity-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type ActivityRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context, f ListFilter) ([]*domain.Activity, int, error)
	Update(ctx context.Context, a *domain.Activity) error

	// ToggleLike flips membership of userID in liked_by and keeps
	// like_count equal to the member set size, in one atomic statement.
	// The bool is the post-toggle membership.
	ToggleLike(ctx context.Context, id, userID string, now time.Time) (*domain.Activity, bool, error)
	SetPinned(ctx context.Context, id string, pinned bool, now time.Time) (*domain.Activity, error)

	AddReply(ctx context.Context, activityID string, r domain.Reply) (*domain.Activity, error)
	DeleteReply(ctx context.Context, activityID, replyID, authorID string, now time.Time) (*domain.Activity, error)

	Stats(ctx context.Context) (Stats, error)

	WithTx(ctx context.Context, fn func(tr TxActivityRepo) error) error
}

type TxActivityRepo interface {
	Insert(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
	InsertOutbox(ctx context.Context, msg OutboxMessage) error
}

type OutboxMessage struct {
	MessageID  string
	RoutingKey string
	Body       []byte
	CreatedAt  time.Time
}

type Publisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// UserProfile is what the external user directory resolves an id to.
type UserProfile struct {
	UserID      string
	FirstName   string
	LastName    string
	Email       string
	AvatarColor string
}

type UserDirectory interface {
	Resolve(ctx context.Context, userID string) (*UserProfile, error)
}

// EventSummary is what the external event catalog resolves an id to.
type EventSummary struct {
	EventID   string
	Title     string
	StartDate time.Time
	Location  string
}

type EventCatalog interface {
	Resolve(ctx context.Context, eventID string) (*EventSummary, error)
}

type Stats struct {
	TotalActivities  int
	PinnedActivities int
	TotalLikes       int
	CountsByType     map[string]int
}
