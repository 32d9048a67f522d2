package dto

import (
	"github.com/teamdesk/activity-service/internal/application/activity"
	"github.com/teamdesk/activity-service/internal/domain"
)

func ToActivityResp(a *domain.Activity) ActivityResp {
	resp := ActivityResp{
		ID:      a.ID,
		Type:    string(a.Type),
		Message: a.Message,
		Author: AuthorResp{
			UserID:         a.Author.UserID,
			Name:           a.Author.Name,
			Email:          a.Author.Email,
			AvatarInitials: a.Author.AvatarInitials,
			AvatarColor:    a.Author.AvatarColor,
		},
		Mentions:  make([]MentionResp, 0, len(a.Mentions)),
		Tags:      a.Tags,
		Likes:     a.LikeCount,
		LikedBy:   a.LikedBy,
		Replies:   make([]ReplyResp, 0, len(a.Replies)),
		IsPinned:  a.IsPinned,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	// The dashboard expects arrays, never null.
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if resp.LikedBy == nil {
		resp.LikedBy = []string{}
	}

	if a.LinkedEvent != nil {
		resp.LinkedEvent = &LinkedEventResp{
			EventID: a.LinkedEvent.EventID,
			Title:   a.LinkedEvent.Title,
			Date:    a.LinkedEvent.Date,
		}
	}
	for _, m := range a.Mentions {
		resp.Mentions = append(resp.Mentions, MentionResp{UserID: m.UserID, Name: m.Name})
	}
	for _, r := range a.Replies {
		resp.Replies = append(resp.Replies, ReplyResp{
			ReplyID:    r.ID,
			AuthorID:   r.AuthorID,
			AuthorName: r.AuthorName,
			Message:    r.Message,
			CreatedAt:  r.CreatedAt,
		})
	}
	return resp
}

func ToListResp(res activity.ListResult) ListResp {
	items := make([]ActivityResp, 0, len(res.Items))
	for _, a := range res.Items {
		items = append(items, ToActivityResp(a))
	}
	return ListResp{
		Activities: items,
		Pagination: PaginationResp{
			CurrentPage:     res.Page.CurrentPage,
			TotalPages:      res.Page.TotalPages,
			TotalActivities: res.Page.TotalItems,
			HasNext:         res.Page.HasNext,
			HasPrev:         res.Page.HasPrev,
		},
	}
}

func ToStatsResp(st activity.Stats) StatsResp {
	breakdown := st.CountsByType
	if breakdown == nil {
		breakdown = map[string]int{}
	}
	return StatsResp{
		TotalActivities:  st.TotalActivities,
		PinnedActivities: st.PinnedActivities,
		TotalLikes:       st.TotalLikes,
		TypeBreakdown:    breakdown,
	}
}
