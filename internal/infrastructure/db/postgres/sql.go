package postgres

const activityColumns = `id, type, message,
       author_id, author_name, author_email, author_initials, author_color,
       linked_event_id, linked_event_title, linked_event_date,
       mentions, tags, like_count, liked_by, is_pinned,
       created_at, updated_at`

const insertActivitySQL = `
INSERT INTO activities (
  id, type, message,
  author_id, author_name, author_email, author_initials, author_color,
  linked_event_id, linked_event_title, linked_event_date,
  mentions, tags, like_count, liked_by, is_pinned,
  created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
`

const getActivitySQL = `
SELECT ` + activityColumns + `
FROM activities WHERE id = $1
`

const updateActivitySQL = `
UPDATE activities SET
  message=$2, tags=$3, is_pinned=$4, updated_at=$5
WHERE id=$1
`

const setPinnedSQL = `
UPDATE activities SET is_pinned=$2, updated_at=$3 WHERE id=$1
`

const deleteActivitySQL = `
DELETE FROM activities WHERE id=$1
`

// toggleLikeSQL flips membership and recomputes the counter from the new
// member set in one statement. The prev self-join exposes the pre-toggle
// row so counter drift (stored count != set size) can be detected and
// logged; GREATEST keeps the clamp explicit even though cardinality can
// never go negative.
const toggleLikeSQL = `
UPDATE activities AS a SET
  liked_by = CASE WHEN $2 = ANY(a.liked_by)
                  THEN array_remove(a.liked_by, $2)
                  ELSE array_append(a.liked_by, $2) END,
  like_count = GREATEST(cardinality(
                 CASE WHEN $2 = ANY(a.liked_by)
                      THEN array_remove(a.liked_by, $2)
                      ELSE array_append(a.liked_by, $2) END), 0),
  updated_at = $3
FROM activities AS prev
WHERE a.id = $1 AND prev.id = a.id
RETURNING a.like_count, $2 = ANY(a.liked_by), prev.like_count, cardinality(prev.liked_by)
`

const getRepliesSQL = `
SELECT id, author_id, author_name, message, created_at
FROM activity_replies
WHERE activity_id = $1
ORDER BY seq ASC
`

const getRepliesBatchSQL = `
SELECT activity_id, id, author_id, author_name, message, created_at
FROM activity_replies
WHERE activity_id = ANY($1)
ORDER BY activity_id, seq ASC
`

const insertReplySQL = `
INSERT INTO activity_replies (id, activity_id, author_id, author_name, message, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`

const deleteReplySQL = `
DELETE FROM activity_replies
WHERE id=$1 AND activity_id=$2 AND author_id=$3
`

const touchActivitySQL = `
UPDATE activities SET updated_at=$2 WHERE id=$1
`

const statsTotalsSQL = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE is_pinned),
       COALESCE(SUM(like_count), 0)
FROM activities
`

const statsByTypeSQL = `
SELECT type, COUNT(*) FROM activities GROUP BY type
`
