package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxMessageLen = 4000

// AuthorSnapshot is captured at write time and never synced with later
// profile edits. Staleness is tolerated on purpose: list reads must not
// depend on the user directory.
type AuthorSnapshot struct {
	UserID         string
	Name           string
	Email          string
	AvatarInitials string
	AvatarColor    string
}

// LinkedEvent is the denormalized event summary, present only for
// type=event activities.
type LinkedEvent struct {
	EventID string
	Title   string
	Date    time.Time
}

type Mention struct {
	UserID string
	Name   string
}

// Reply carries its own author snapshot (name at write time).
type Reply struct {
	ID         string
	AuthorID   string
	AuthorName string
	Message    string
	CreatedAt  time.Time
}

type Activity struct {
	ID      string
	Type    ActivityType
	Message string
	Author  AuthorSnapshot

	LinkedEvent *LinkedEvent
	Mentions    []Mention
	Tags        []string

	// LikeCount == len(LikedBy) at rest; the store keeps them in one
	// atomic update.
	LikeCount int
	LikedBy   []string

	// Append-ordered by arrival at the store.
	Replies []Reply

	IsPinned bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewActivity(t ActivityType, message string, author AuthorSnapshot, linked *LinkedEvent, mentions []Mention, tags []string, now time.Time) (*Activity, error) {
	message = strings.TrimSpace(message)

	if !t.Valid() {
		return nil, ErrValidationMeta("invalid type", map[string]string{
			"type": "must be one of: comment, event, mention",
		})
	}
	if message == "" || len(message) > maxMessageLen {
		return nil, ErrValidation("message is required and must be <= 4000 chars")
	}
	if strings.TrimSpace(author.UserID) == "" {
		return nil, ErrValidation("userId is required")
	}
	if t == TypeEvent && linked == nil {
		return nil, ErrValidation("eventId is required for event activities")
	}
	if t != TypeEvent && linked != nil {
		return nil, ErrValidation("eventId is only allowed for event activities")
	}

	return &Activity{
		ID:          uuid.NewString(),
		Type:        t,
		Message:     message,
		Author:      author,
		LinkedEvent: linked,
		Mentions:    mentions,
		Tags:        NormalizeTags(tags),
		LikedBy:     []string{},
		Replies:     []Reply{},
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

func NewReply(authorID, authorName, message string, now time.Time) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" || len(message) > maxMessageLen {
		return Reply{}, ErrValidation("message is required and must be <= 4000 chars")
	}
	return Reply{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		AuthorName: authorName,
		Message:    message,
		CreatedAt:  now.UTC(),
	}, nil
}

// NormalizeTags trims entries and drops empties, preserving order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func (a *Activity) IsLikedBy(userID string) bool {
	for _, id := range a.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

func (a *Activity) FindReply(replyID string) (Reply, bool) {
	for _, r := range a.Replies {
		if r.ID == replyID {
			return r, true
		}
	}
	return Reply{}, false
}

// OwnedBy compares stored author id against the acting id by exact string
// equality. No role override.
func (a *Activity) OwnedBy(userID string) bool {
	return userID != "" && a.Author.UserID == userID
}

// ApplyUpdate handles the PUT subset {message, tags, isPinned}.
func (a *Activity) ApplyUpdate(message *string, tags *[]string, isPinned *bool, now time.Time) error {
	if message != nil {
		v := strings.TrimSpace(*message)
		if v == "" || len(v) > maxMessageLen {
			return ErrValidation("message must be non-empty and <= 4000 chars")
		}
		a.Message = v
	}
	if tags != nil {
		a.Tags = NormalizeTags(*tags)
	}
	if isPinned != nil {
		a.IsPinned = *isPinned
	}
	a.UpdatedAt = now.UTC()
	return nil
}
