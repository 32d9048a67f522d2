package dto

import "time"

// ActivityResp is the stable API response model. Field names match what the
// dashboard already binds to, likes/likedBy included.
type ActivityResp struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`

	Author      AuthorResp       `json:"author"`
	LinkedEvent *LinkedEventResp `json:"linkedEvent,omitempty"`
	Mentions    []MentionResp    `json:"mentions"`
	Tags        []string         `json:"tags"`

	Likes   int      `json:"likes"`
	LikedBy []string `json:"likedBy"`

	Replies []ReplyResp `json:"replies"`

	IsPinned bool `json:"isPinned"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthorResp struct {
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	AvatarInitials string `json:"avatarInitials"`
	AvatarColor    string `json:"avatarColor"`
}

type LinkedEventResp struct {
	EventID string    `json:"eventId"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
}

type MentionResp struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type ReplyResp struct {
	ReplyID    string    `json:"replyId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

type PaginationResp struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalActivities int  `json:"totalActivities"`
	HasNext         bool `json:"hasNext"`
	HasPrev         bool `json:"hasPrev"`
}

type ListResp struct {
	Activities []ActivityResp `json:"activities"`
	Pagination PaginationResp `json:"pagination"`
}

type StatsResp struct {
	TotalActivities  int            `json:"totalActivities"`
	PinnedActivities int            `json:"pinnedActivities"`
	TotalLikes       int            `json:"totalLikes"`
	TypeBreakdown    map[string]int `json:"typeBreakdown"`
}
