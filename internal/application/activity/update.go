package activity

import (
	"context"

	"github.com/teamdesk/activity-service/internal/domain"
)

type UpdateCmd struct {
	Message  *string
	Tags     *[]string
	IsPinned *bool
}

func (s *Service) Update(ctx context.Context, id string, cmd UpdateCmd) (*domain.Activity, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.ApplyUpdate(cmd.Message, cmd.Tags, cmd.IsPinned, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.invalidate(ctx, a.ID)
	return a, nil
}
