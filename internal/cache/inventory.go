package cache

import (
	"context"
	"fmt"
	"time"
)

// Feed list caching covers only the viewer-independent feeds; the viewer's
// own vote is re-enriched after a cache hit.
const (
	FeedKeyPrefix       = "feed:%s"
	ConfessionKeyPrefix = "confession:%d"
)

const (
	// FeedTTL is short: feeds are invalidated on every write anyway, the TTL
	// just bounds staleness if an invalidation is lost.
	FeedTTL       = 1 * time.Minute
	ConfessionTTL = 5 * time.Minute
)

// feedSorts are the cacheable public feed views.
var feedSorts = []string{"latest", "hot", "popular"}

func FeedKey(sort string) string {
	return fmt.Sprintf(FeedKeyPrefix, sort)
}

func ConfessionKey(id uint) string {
	return fmt.Sprintf(ConfessionKeyPrefix, id)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateFeeds drops every cached public feed. Called after any confession
// or vote write since all three orderings can change.
func InvalidateFeeds(ctx context.Context) {
	for _, sort := range feedSorts {
		Invalidate(ctx, FeedKey(sort))
	}
}

func InvalidateConfession(ctx context.Context, id uint) {
	Invalidate(ctx, ConfessionKey(id))
}
