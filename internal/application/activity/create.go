package activity

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/teamdesk/activity-service/internal/domain"
	"github.com/teamdesk/activity-service/internal/pkg/reqctx"
)

type CreateCmd struct {
	Type    string
	Message string
	UserID  string

	EventID    string
	MentionIDs []string
	Tags       []string
}

func (s *Service) Create(ctx context.Context, cmd CreateCmd) (*domain.Activity, error) {
	t := domain.ActivityType(strings.TrimSpace(cmd.Type))
	if !t.Valid() {
		return nil, domain.ErrValidationMeta("invalid type", map[string]string{
			"type": "must be one of: comment, event, mention",
		})
	}
	if strings.TrimSpace(cmd.Message) == "" {
		return nil, domain.ErrValidation("message is required")
	}
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return nil, domain.ErrValidation("userId is required")
	}

	profile, err := s.users.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	author := snapshotAuthor(profile)

	var linked *domain.LinkedEvent
	if t == domain.TypeEvent {
		eventID := strings.TrimSpace(cmd.EventID)
		if eventID == "" {
			return nil, domain.ErrValidation("eventId is required for event activities")
		}
		ev, err := s.events.Resolve(ctx, eventID)
		if err != nil {
			return nil, err
		}
		linked = &domain.LinkedEvent{
			EventID: ev.EventID,
			Title:   ev.Title,
			Date:    ev.StartDate,
		}
	}

	mentions, err := s.resolveMentions(ctx, cmd.MentionIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	a, err := domain.NewActivity(t, cmd.Message, author, linked, mentions, cmd.Tags, now)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(tr TxActivityRepo) error {
		if err := tr.Insert(ctx, a); err != nil {
			return err
		}

		messageID := uuid.NewString()
		env := DomainEventEnvelope[ActivityCreatedPayload]{
			Version:    EventVersion,
			Producer:   EventProducer,
			MessageID:  messageID,
			TraceID:    reqctx.RequestID(ctx),
			OccurredAt: a.CreatedAt,
			Payload: ActivityCreatedPayload{
				ActivityID: a.ID,
				Type:       string(a.Type),
				AuthorID:   a.Author.UserID,
				EventID:    cmd.EventID,
			},
		}
		body, err := json.Marshal(env)
		if err != nil {
			return err
		}
		return tr.InsertOutbox(ctx, OutboxMessage{
			MessageID:  messageID,
			RoutingKey: "activity.created",
			Body:       body,
			CreatedAt:  a.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// resolveMentions drops ids the directory does not know. This is the
// documented tolerance of the feed: a bad mention never aborts the post.
func (s *Service) resolveMentions(ctx context.Context, ids []string) ([]domain.Mention, error) {
	out := make([]domain.Mention, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		p, err := s.users.Resolve(ctx, id)
		if err != nil {
			var ae *domain.AppError
			if errors.As(err, &ae) && ae.Code == domain.CodeNotFound {
				zlog.Debug().Str("user_id", id).Msg("mention dropped: unknown user")
				continue
			}
			return nil, err
		}
		out = append(out, domain.Mention{UserID: p.UserID, Name: DisplayName(p)})
	}
	return out, nil
}

func snapshotAuthor(p *UserProfile) domain.AuthorSnapshot {
	name := DisplayName(p)
	color := strings.TrimSpace(p.AvatarColor)
	if color == "" {
		color = DeriveAvatarColor(p.UserID)
	}
	return domain.AuthorSnapshot{
		UserID:         p.UserID,
		Name:           name,
		Email:          p.Email,
		AvatarInitials: Initials(name),
		AvatarColor:    color,
	}
}
