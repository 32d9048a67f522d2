package postgres

import (
	"context"
	"database/sql"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/teamdesk/activity-service/internal/domain"
)

// ToggleLike runs the single-statement membership flip. There is no
// read-modify-write window: two concurrent toggles from different users
// both land, and the counter always equals the member set size afterwards.
func (r *Repo) ToggleLike(ctx context.Context, id, userID string, now time.Time) (*domain.Activity, bool, error) {
	var newCount int
	var liked bool
	var prevCount, prevMembers int

	err := r.db.QueryRowContext(ctx, toggleLikeSQL, id, userID, now.UTC()).
		Scan(&newCount, &liked, &prevCount, &prevMembers)
	if err == sql.ErrNoRows {
		return nil, false, domain.ErrNotFound("activity not found")
	}
	if err != nil {
		return nil, false, err
	}

	// Self-healing: the statement already rewrote the counter from the set;
	// drift can only come from prior data corruption, so it is worth a log.
	if prevCount != prevMembers {
		zlog.Warn().
			Str("activity_id", id).
			Int("stored_count", prevCount).
			Int("set_size", prevMembers).
			Msg("like count drift corrected")
	}

	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return a, liked, nil
}
