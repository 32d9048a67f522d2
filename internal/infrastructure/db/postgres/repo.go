package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/teamdesk/activity-service/internal/application/activity"
	"github.com/teamdesk/activity-service/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var typ string
	var linkedID, linkedTitle sql.NullString
	var linkedDate sql.NullTime
	var mentionsJSON []byte

	err := row.Scan(
		&a.ID, &typ, &a.Message,
		&a.Author.UserID, &a.Author.Name, &a.Author.Email, &a.Author.AvatarInitials, &a.Author.AvatarColor,
		&linkedID, &linkedTitle, &linkedDate,
		&mentionsJSON, pq.Array(&a.Tags), &a.LikeCount, pq.Array(&a.LikedBy), &a.IsPinned,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Type = domain.ActivityType(typ)
	if !a.Type.Valid() {
		return nil, domain.ErrInvalidState("invalid type in db")
	}
	if linkedID.Valid {
		a.LinkedEvent = &domain.LinkedEvent{
			EventID: linkedID.String,
			Title:   linkedTitle.String,
			Date:    linkedDate.Time,
		}
	}
	if len(mentionsJSON) > 0 {
		if err := json.Unmarshal(mentionsJSON, &a.Mentions); err != nil {
			return nil, fmt.Errorf("decode mentions: %w", err)
		}
	}
	if a.Mentions == nil {
		a.Mentions = []domain.Mention{}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.LikedBy == nil {
		a.LikedBy = []string{}
	}
	a.Replies = []domain.Reply{}
	return &a, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	row := r.db.QueryRowContext(ctx, getActivitySQL, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("activity not found")
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadReplies(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repo) loadReplies(ctx context.Context, a *domain.Activity) error {
	rows, err := r.db.QueryContext(ctx, getRepliesSQL, a.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rep domain.Reply
		if err := rows.Scan(&rep.ID, &rep.AuthorID, &rep.AuthorName, &rep.Message, &rep.CreatedAt); err != nil {
			return err
		}
		a.Replies = append(a.Replies, rep)
	}
	return rows.Err()
}

func (r *Repo) Update(ctx context.Context, a *domain.Activity) error {
	res, err := r.db.ExecContext(ctx, updateActivitySQL,
		a.ID, a.Message, pq.Array(a.Tags), a.IsPinned, a.UpdatedAt,
	)
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

func (r *Repo) SetPinned(ctx context.Context, id string, pinned bool, now time.Time) (*domain.Activity, error) {
	res, err := r.db.ExecContext(ctx, setPinnedSQL, id, pinned, now.UTC())
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
	return r.GetByID(ctx, id)
}

func (r *Repo) List(ctx context.Context, f activity.ListFilter) ([]*domain.Activity, int, error) {
	where := []string{}
	args := []any{}
	argN := 1

	add := func(condFmt string, val any) {
		where = append(where, fmt.Sprintf(condFmt, argN))
		args = append(args, val)
		argN++
	}

	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.IsPinned != nil {
		add("is_pinned = $%d", *f.IsPinned)
	}
	// Best-effort relevance over message, tags, linked event title. Not
	// literal substring semantics.
	if f.Search != "" {
		add("search_vector @@ plainto_tsquery('simple', $%d)", f.Search)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	countSQL := "SELECT COUNT(*) FROM activities " + whereSQL
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := sortDirection(f.SortOrder)
	orderBy := sortColumn(f.SortBy) + " " + dir + ", id " + dir
	offset := (f.Page - 1) * f.PageSize

	listSQL := "SELECT " + activityColumns + "\nFROM activities\n" + whereSQL + `
ORDER BY ` + orderBy + `
LIMIT $` + fmt.Sprintf("%d", argN) + ` OFFSET $` + fmt.Sprintf("%d", argN+1)

	args = append(args, f.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadRepliesBatch(ctx, out); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *Repo) loadRepliesBatch(ctx context.Context, items []*domain.Activity) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	byID := make(map[string]*domain.Activity, len(items))
	for _, a := range items {
		ids = append(ids, a.ID)
		byID[a.ID] = a
	}

	rows, err := r.db.QueryContext(ctx, getRepliesBatchSQL, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var activityID string
		var rep domain.Reply
		if err := rows.Scan(&activityID, &rep.ID, &rep.AuthorID, &rep.AuthorName, &rep.Message, &rep.CreatedAt); err != nil {
			return err
		}
		if a, ok := byID[activityID]; ok {
			a.Replies = append(a.Replies, rep)
		}
	}
	return rows.Err()
}

func (r *Repo) Stats(ctx context.Context) (activity.Stats, error) {
	var st activity.Stats
	if err := r.db.QueryRowContext(ctx, statsTotalsSQL).Scan(
		&st.TotalActivities, &st.PinnedActivities, &st.TotalLikes,
	); err != nil {
		return activity.Stats{}, err
	}

	st.CountsByType = map[string]int{}
	rows, err := r.db.QueryContext(ctx, statsByTypeSQL)
	if err != nil {
		return activity.Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return activity.Stats{}, err
		}
		st.CountsByType[typ] = n
	}
	if err := rows.Err(); err != nil {
		return activity.Stats{}, err
	}
	return st, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "updatedAt":
		return "updated_at"
	case "likes":
		return "like_count"
	default:
		return "created_at"
	}
}

func sortDirection(order string) string {
	if order == "asc" {
		return "ASC"
	}
	return "DESC"
}
