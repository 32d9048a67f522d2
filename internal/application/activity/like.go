package activity

import (
	"context"
	"strings"

	"github.com/teamdesk/activity-service/internal/domain"
)

// ToggleLike flips userID's membership in the activity's liker set. The flip
// and the counter update are one atomic store operation; the application
// layer never computes the new count itself.
func (s *Service) ToggleLike(ctx context.Context, activityID, userID string) (*domain.Activity, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, false, domain.ErrValidation("userId is required")
	}

	now := s.clock.Now()
	a, liked, err := s.repo.ToggleLike(ctx, activityID, userID, now)
	if err != nil {
		return nil, false, err
	}

	s.publishBestEffort(ctx, "activity.liked", now.UTC(), ActivityLikedPayload{
		ActivityID: a.ID,
		UserID:     userID,
		Liked:      liked,
		LikeCount:  a.LikeCount,
	})

	s.invalidate(ctx, a.ID)
	return a, liked, nil
}
