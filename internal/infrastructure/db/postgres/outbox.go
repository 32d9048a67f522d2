package postgres

import (
	"context"
	"database/sql"
	"math"
	"math/rand"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/teamdesk/activity-service/internal/application/activity"
)

const insertOutboxSQL = `
INSERT INTO activity_outbox (
  message_id, routing_key, body, created_at, status, next_retry_at
) VALUES ($1, $2, $3::jsonb, $4, 'pending', $4)
`

type outboxRow struct {
	ID         int64
	MessageID  string
	RoutingKey string
	Body       []byte
	Attempts   int
}

// Claim pending messages that are due. SKIP LOCKED allows multiple workers.
const selectOutboxClaimsSQL = `
SELECT id, message_id, routing_key, body, attempts
FROM activity_outbox
WHERE status = 'pending'
  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY next_retry_at ASC, created_at ASC
LIMIT $1
FOR UPDATE SKIP LOCKED
`

const updateOutboxClaimSQL = `
UPDATE activity_outbox
SET next_retry_at = $2,
    status = 'processing'
WHERE id = $1
`

const markOutboxSentSQL = `
UPDATE activity_outbox
SET status = 'sent',
    sent_at = $2,
    last_error = NULL
WHERE id = $1
`

const markOutboxFailedSQL = `
UPDATE activity_outbox
SET status = 'pending',
    attempts = attempts + 1,
    next_retry_at = $2,
    last_error = $3
WHERE id = $1
`

const markOutboxDeadSQL = `
UPDATE activity_outbox
SET status = 'dead',
    attempts = attempts + 1,
    last_error = $2
WHERE id = $1
`

const maxAttempts = 10

// StartOutboxWorker starts a polling worker that publishes pending outbox
// rows. Claim rows first (short tx), publish outside any lock, then mark
// the result.
func (r *Repo) StartOutboxWorker(ctx context.Context, pub activity.Publisher) {
	go func() {
		// Jitter to prevent thundering herd if several instances start together.
		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.processOutboxBatch(ctx, pub, 20); err != nil {
					zlog.Error().Err(err).Msg("outbox batch failed")
				}
			}
		}
	}()
}

func (r *Repo) processOutboxBatch(ctx context.Context, pub activity.Publisher, limit int) error {
	if limit <= 0 {
		limit = 50
	}

	claimCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(claimCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(claimCtx, selectOutboxClaimsSQL, limit)
	if err != nil {
		return err
	}
	defer rows.Close()

	var batch []outboxRow
	for rows.Next() {
		var item outboxRow
		if err := rows.Scan(&item.ID, &item.MessageID, &item.RoutingKey, &item.Body, &item.Attempts); err != nil {
			return err
		}
		batch = append(batch, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(batch) == 0 {
		return tx.Commit()
	}

	// Reserve: push next_retry_at into the future so another worker does not
	// pick these up if this one crashes mid-publish.
	reservation := time.Now().UTC().Add(30 * time.Second)
	for _, item := range batch {
		if _, err := tx.ExecContext(claimCtx, updateOutboxClaimSQL, item.ID, reservation); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for _, item := range batch {
		r.processSingleItem(ctx, pub, item)
	}

	return nil
}

func (r *Repo) processSingleItem(ctx context.Context, pub activity.Publisher, item outboxRow) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := pub.PublishEvent(pubCtx, item.RoutingKey, item.MessageID, item.Body)

	resCtx, cancelRes := context.WithTimeout(ctx, 3*time.Second)
	defer cancelRes()

	if err != nil {
		errMsg := err.Error()
		if item.Attempts >= maxAttempts {
			_, _ = r.db.ExecContext(resCtx, markOutboxDeadSQL, item.ID, errMsg)
		} else {
			backoff := time.Duration(math.Pow(2, float64(item.Attempts))) * time.Second
			backoff += time.Duration(rand.Intn(1000)) * time.Millisecond
			nextRetry := time.Now().UTC().Add(backoff)
			_, _ = r.db.ExecContext(resCtx, markOutboxFailedSQL, item.ID, nextRetry, errMsg)
		}
		return
	}

	_, _ = r.db.ExecContext(resCtx, markOutboxSentSQL, item.ID, time.Now().UTC())
}
