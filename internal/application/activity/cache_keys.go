package activity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

func cacheKeyActivity(id string) string {
	return fmt.Sprintf("activity:%s", id)
}

const cacheKeyStats = "activities:stats"

// cacheKeyList hashes the filter params. Only the first page is cached
// (decided by the caller); lists are not invalidated on write and rely on
// the short TTL instead.
func cacheKeyList(f ListFilter) string {
	pinned := "any"
	if f.IsPinned != nil {
		pinned = fmt.Sprintf("%t", *f.IsPinned)
	}
	raw := fmt.Sprintf("type=%s|pinned=%s|search=%s|sort=%s.%s|ps=%d",
		f.Type, pinned, f.Search, f.SortBy, f.SortOrder, f.PageSize)

	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("activities:list:%s", hex.EncodeToString(hash[:]))
}
