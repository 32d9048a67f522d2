package activity

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/teamdesk/activity-service/internal/domain"
)

func (s *Service) Get(ctx context.Context, id string) (*domain.Activity, error) {
	key := cacheKeyActivity(id)

	if s.cache != nil {
		var cached domain.Activity
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			return &cached, nil
		}
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, a, s.ttlDetails); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}

	return a, nil
}

// invalidate drops the detail and stats entries after a mutation. List
// entries expire on their own short TTL.
func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyActivity(id), cacheKeyStats); err != nil {
		zlog.Warn().Err(err).Str("activity_id", id).Msg("cache invalidate failed")
	}
}
