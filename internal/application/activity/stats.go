package activity

import (
	"context"

	zlog "github.com/rs/zerolog/log"
)

// GetStats is a read-only aggregation over the current store state. Cached
// briefly: the dashboard requests it on every load.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	if s.cache != nil {
		var cached Stats
		found, err := s.cache.Get(ctx, cacheKeyStats, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", cacheKeyStats).Msg("cache get failed")
		} else if found {
			return cached, nil
		}
	}

	st, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyStats, st, s.ttlStats); err != nil {
			zlog.Warn().Err(err).Str("key", cacheKeyStats).Msg("cache set failed")
		}
	}

	return st, nil
}
