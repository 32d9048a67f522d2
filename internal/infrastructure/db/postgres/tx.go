package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/teamdesk/activity-service/internal/application/activity"
	"github.com/teamdesk/activity-service/internal/domain"
)

func (r *Repo) WithTx(ctx context.Context, fn func(tr activity.TxActivityRepo) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
		ReadOnly:  false,
	})
	if err != nil {
		return err
	}

	tr := &txRepo{tx: tx}

	defer func() {
		// Safety: in case fn panics, rollback to avoid leaked tx.
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tr); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepo struct {
	tx *sql.Tx
}

func (r *txRepo) Insert(ctx context.Context, a *domain.Activity) error {
	var linkedID, linkedTitle any
	var linkedDate any
	if a.LinkedEvent != nil {
		linkedID = a.LinkedEvent.EventID
		linkedTitle = a.LinkedEvent.Title
		linkedDate = a.LinkedEvent.Date
	}

	mentionsJSON, err := json.Marshal(a.Mentions)
	if err != nil {
		return err
	}

	_, err = r.tx.ExecContext(ctx, insertActivitySQL,
		a.ID, string(a.Type), a.Message,
		a.Author.UserID, a.Author.Name, a.Author.Email, a.Author.AvatarInitials, a.Author.AvatarColor,
		linkedID, linkedTitle, linkedDate,
		string(mentionsJSON), pq.Array(a.Tags), a.LikeCount, pq.Array(a.LikedBy), a.IsPinned,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *txRepo) Delete(ctx context.Context, id string) error {
	res, err := r.tx.ExecContext(ctx, deleteActivitySQL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("activity not found")
	}
	return nil
}

func (r *txRepo) InsertOutbox(ctx context.Context, msg activity.OutboxMessage) error {
	// Store JSON as text cast to jsonb for lib/pq compatibility.
	// next_retry_at = created_at so it is immediately eligible for polling.
	_, err := r.tx.ExecContext(ctx, insertOutboxSQL,
		msg.MessageID,
		msg.RoutingKey,
		string(msg.Body),
		msg.CreatedAt.UTC(),
	)
	return err
}
