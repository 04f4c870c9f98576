package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	postKeyPrefix = "post:%d"
	feedListKey   = "feed:list"
)

const (
	// FeedTTL is deliberately short: the feed list is the reconciliation
	// point for optimistic counters, so stale reads must age out quickly.
	FeedTTL = 30 * time.Second
	PostTTL = 5 * time.Minute
)

// PostKey returns the cache key for a single post.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// FeedKey returns the cache key for the full post list.
func FeedKey() string {
	return feedListKey
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err != nil {
		// Treat miss and error alike; errors are already counted by the hook.
		return false, nil
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which should populate dest),
// then stores the result in Redis with ttl. fetch must write into dest.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	// Fetch from source (DB)
	if err := fetch(); err != nil {
		return err
	}

	// Store into cache (best-effort)
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a single key.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateFeed drops the cached post list. Called after every write that
// changes feed contents or counters.
func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, feedListKey)
}
