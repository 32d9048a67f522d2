package activity

import (
	"context"

	"github.com/teamdesk/activity-service/internal/domain"
)

// SetPinned is an unconditional field set. The current product contract has
// no ownership gate on pinning, unlike delete; any caller may pin or unpin.
func (s *Service) SetPinned(ctx context.Context, activityID string, pinned bool) (*domain.Activity, error) {
	a, err := s.repo.SetPinned(ctx, activityID, pinned, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, a.ID)
	return a, nil
}
