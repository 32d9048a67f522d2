package feedclient

import "time"

type Author struct {
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	AvatarInitials string `json:"avatarInitials"`
	AvatarColor    string `json:"avatarColor"`
}

type LinkedEvent struct {
	EventID string    `json:"eventId"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
}

type Mention struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type Reply struct {
	ReplyID    string    `json:"replyId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Activity struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Message     string       `json:"message"`
	Author      Author       `json:"author"`
	LinkedEvent *LinkedEvent `json:"linkedEvent,omitempty"`
	Mentions    []Mention    `json:"mentions"`
	Tags        []string     `json:"tags"`
	Likes       int          `json:"likes"`
	LikedBy     []string     `json:"likedBy"`
	Replies     []Reply      `json:"replies"`
	IsPinned    bool         `json:"isPinned"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// IsLikedBy reports whether the user is in the activity's like set.
func (a *Activity) IsLikedBy(userID string) bool {
	for _, id := range a.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalActivities int  `json:"totalActivities"`
	HasNext         bool `json:"hasNext"`
	HasPrev         bool `json:"hasPrev"`
}

type Page struct {
	Activities []Activity `json:"activities"`
	Pagination Pagination `json:"pagination"`
}

type Stats struct {
	TotalActivities  int            `json:"totalActivities"`
	PinnedActivities int            `json:"pinnedActivities"`
	TotalLikes       int            `json:"totalLikes"`
	TypeBreakdown    map[string]int `json:"typeBreakdown"`
}
