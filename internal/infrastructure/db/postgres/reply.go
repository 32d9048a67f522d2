package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/teamdesk/activity-service/internal/domain"
)

// AddReply appends in arrival order: the bigserial seq column decides the
// position, so concurrent appends never interleave a stored ordering.
func (r *Repo) AddReply(ctx context.Context, activityID string, rep domain.Reply) (*domain.Activity, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, touchActivitySQL, activityID, rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrNotFound("activity not found")
	}

	if _, err := tx.ExecContext(ctx, insertReplySQL,
		rep.ID, activityID, rep.AuthorID, rep.AuthorName, rep.Message, rep.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, activityID)
}

// DeleteReply removes exactly one reply. The author guard stays in the
// statement even though the service already checked ownership.
func (r *Repo) DeleteReply(ctx context.Context, activityID, replyID, authorID string, now time.Time) (*domain.Activity, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, deleteReplySQL, replyID, activityID, authorID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrNotFound("reply not found")
	}

	if _, err := tx.ExecContext(ctx, touchActivitySQL, activityID, now.UTC()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, activityID)
}
