package activity

import (
	"context"
	"strings"

	"github.com/teamdesk/activity-service/internal/domain"
)

// AddReply appends a reply with a server-assigned id and timestamp. The
// author's display name is denormalized at write time: later profile edits
// do not retroactively alter historical replies.
func (s *Service) AddReply(ctx context.Context, activityID, authorID, message string) (*domain.Activity, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, domain.ErrValidation("userId is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrValidation("message is required")
	}

	// Fail fast on a missing activity before touching the directory.
	if _, err := s.repo.GetByID(ctx, activityID); err != nil {
		return nil, err
	}

	profile, err := s.users.Resolve(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	r, err := domain.NewReply(profile.UserID, DisplayName(profile), message, now)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.AddReply(ctx, activityID, r)
	if err != nil {
		return nil, err
	}

	s.publishBestEffort(ctx, "activity.reply_added", now.UTC(), ReplyAddedPayload{
		ActivityID: a.ID,
		ReplyID:    r.ID,
		AuthorID:   r.AuthorID,
	})

	s.invalidate(ctx, a.ID)
	return a, nil
}

// DeleteReply removes one reply after an ownership check against the
// reply's own author. The check runs on a read-only load first; the delete
// statement still carries the author id so a lost race cannot widen it.
func (s *Service) DeleteReply(ctx context.Context, activityID, replyID, requestingUserID string) (*domain.Activity, error) {
	requestingUserID = strings.TrimSpace(requestingUserID)
	if requestingUserID == "" {
		return nil, domain.ErrValidation("userId is required")
	}

	a, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	r, ok := a.FindReply(replyID)
	if !ok {
		return nil, domain.ErrNotFound("reply not found")
	}
	if r.AuthorID != requestingUserID {
		return nil, domain.ErrForbidden("only the author can delete this reply")
	}

	out, err := s.repo.DeleteReply(ctx, activityID, replyID, requestingUserID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, activityID)
	return out, nil
}
