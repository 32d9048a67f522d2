package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/teamdesk/activity-service/internal/pkg/reqctx"
)

const (
	EventVersion  = 1
	EventProducer = "activity-service"
)

// DomainEventEnvelope is the stable contract for all domain events emitted
// by activity-service. Consumers should rely on:
// version/producer/message_id/occurred_at + payload.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// ActivityCreatedPayload is the business payload for routing key: activity.created
type ActivityCreatedPayload struct {
	ActivityID string `json:"activity_id"`
	Type       string `json:"type"`
	AuthorID   string `json:"author_id"`
	EventID    string `json:"event_id,omitempty"`
}

// ActivityDeletedPayload is the business payload for routing key: activity.deleted
type ActivityDeletedPayload struct {
	ActivityID string `json:"activity_id"`
	AuthorID   string `json:"author_id"`
	DeletedBy  string `json:"deleted_by"`
}

// ActivityLikedPayload is the business payload for routing key: activity.liked
type ActivityLikedPayload struct {
	ActivityID string `json:"activity_id"`
	UserID     string `json:"user_id"`
	Liked      bool   `json:"liked"`
	LikeCount  int    `json:"like_count"`
}

// ReplyAddedPayload is the business payload for routing key: activity.reply_added
type ReplyAddedPayload struct {
	ActivityID string `json:"activity_id"`
	ReplyID    string `json:"reply_id"`
	AuthorID   string `json:"author_id"`
}

// publishBestEffort marshals an envelope and publishes it directly, logging
// failures instead of failing the request. Durable flows (create/delete) go
// through the outbox instead.
func (s *Service) publishBestEffort(ctx context.Context, routingKey string, occurredAt time.Time, payload any) {
	if s.pub == nil {
		return
	}
	messageID := uuid.NewString()
	env := DomainEventEnvelope[any]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  messageID,
		TraceID:    reqctx.RequestID(ctx),
		OccurredAt: occurredAt,
		Payload:    payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		zlog.Error().Err(err).Str("rk", routingKey).Msg("marshal domain event failed")
		return
	}
	if err := s.pub.PublishEvent(ctx, routingKey, messageID, body); err != nil {
		zlog.Error().Err(err).Str("rk", routingKey).Msg("publish domain event failed")
	}
}
