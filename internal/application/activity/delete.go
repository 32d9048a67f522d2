package activity

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/teamdesk/activity-service/internal/domain"
	"github.com/teamdesk/activity-service/internal/pkg/reqctx"
)

// Delete hard-deletes an activity after an author-ownership check and
// returns the removed record for confirmation display. The ownership read
// happens before any mutation (fail fast, no partial writes).
func (s *Service) Delete(ctx context.Context, activityID, requestingUserID string) (*domain.Activity, error) {
	requestingUserID = strings.TrimSpace(requestingUserID)
	if requestingUserID == "" {
		return nil, domain.ErrValidation("userId is required")
	}

	a, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(requestingUserID) {
		return nil, domain.ErrForbidden("only the author can delete this activity")
	}

	now := s.clock.Now().UTC()

	err = s.repo.WithTx(ctx, func(tr TxActivityRepo) error {
		if err := tr.Delete(ctx, a.ID); err != nil {
			return err
		}

		messageID := uuid.NewString()
		env := DomainEventEnvelope[ActivityDeletedPayload]{
			Version:    EventVersion,
			Producer:   EventProducer,
			MessageID:  messageID,
			TraceID:    reqctx.RequestID(ctx),
			OccurredAt: now,
			Payload: ActivityDeletedPayload{
				ActivityID: a.ID,
				AuthorID:   a.Author.UserID,
				DeletedBy:  requestingUserID,
			},
		}
		body, err := json.Marshal(env)
		if err != nil {
			return err
		}
		return tr.InsertOutbox(ctx, OutboxMessage{
			MessageID:  messageID,
			RoutingKey: "activity.deleted",
			Body:       body,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, a.ID)
	return a, nil
}
