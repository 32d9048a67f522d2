package activity

import (
	"context"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/teamdesk/activity-service/internal/domain"
)

type ListFilter struct {
	Type     string
	IsPinned *bool
	Search   string

	// 1-based page; skip = (page-1)*size.
	Page     int
	PageSize int

	SortBy    string // createdAt | updatedAt | likes
	SortOrder string // asc | desc
}

func (f *ListFilter) Normalize() error {
	f.Type = strings.TrimSpace(f.Type)
	f.Search = strings.TrimSpace(f.Search)
	f.SortBy = strings.TrimSpace(f.SortBy)
	f.SortOrder = strings.TrimSpace(f.SortOrder)

	if f.Type != "" && !domain.ActivityType(f.Type).Valid() {
		return domain.ErrValidationMeta("invalid query param", map[string]string{
			"type": "must be one of: comment, event, mention",
		})
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}

	if f.SortBy == "" {
		f.SortBy = "createdAt"
	}
	switch f.SortBy {
	case "createdAt", "updatedAt", "likes":
	default:
		return domain.ErrValidationMeta("invalid query param", map[string]string{
			"sortBy": "must be one of: createdAt, updatedAt, likes",
		})
	}

	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		return domain.ErrValidationMeta("invalid query param", map[string]string{
			"sortOrder": "must be one of: asc, desc",
		})
	}
	return nil
}

type PageInfo struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	HasNext     bool
	HasPrev     bool
}

func PageInfoFor(total, page, pageSize int) PageInfo {
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PageInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1 && total > 0,
	}
}

type ListResult struct {
	Items []*domain.Activity
	Page  PageInfo
}

// List runs the two-query pattern: one query for the page slice, one COUNT
// over the same filter. The two are not transactionally consistent with each
// other; under concurrent writes the page metadata can lag by a write.
func (s *Service) List(ctx context.Context, f ListFilter) (ListResult, error) {
	if err := f.Normalize(); err != nil {
		return ListResult{}, err
	}

	isFirstPage := f.Page == 1
	cacheKey := ""

	if isFirstPage && s.cache != nil {
		cacheKey = cacheKeyList(f)
		var cached ListResult
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", cacheKey).Msg("cache list get failed")
		} else if found {
			return cached, nil
		}
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return ListResult{}, err
	}

	res := ListResult{
		Items: items,
		Page:  PageInfoFor(total, f.Page, f.PageSize),
	}

	if isFirstPage && s.cache != nil && len(res.Items) > 0 {
		if err := s.cache.Set(ctx, cacheKey, res, s.ttlList); err != nil {
			zlog.Warn().Err(err).Str("key", cacheKey).Msg("cache list set failed")
		}
	}

	return res, nil
}
