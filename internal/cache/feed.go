// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

// feed.go provides a Redis-backed cache for public JSON responses.
// Public list and detail endpoints are read-heavy and identical for
// every anonymous visitor, so their serialized responses are stored in
// Redis and invalidated wholesale on any post or category mutation.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Redis key prefix for cached responses.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a cached response stays valid without
	// an explicit invalidation.
	DefaultFeedTTL = 5 * time.Minute
)

// FeedCache manages public response caching in Redis.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Redis client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. Returns false on miss.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit", "key", key)
	return val, true
}

// Set stores a response body under key with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, body []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+key, body, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached response by scanning for the
// prefix. Any post or category mutation can change any list page, so
// mutations clear the whole feed rather than tracking dependencies.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("feed cache cleared", "deleted", deleted)
	}
}

// ListKey returns the cache key for a public post listing page.
func ListKey(page, limit int, categorySlug string) string {
	return fmt.Sprintf("list:%d:%d:%s", page, limit, categorySlug)
}

// PostKey returns the cache key for a public post detail response.
func PostKey(slug string) string {
	return "post:" + slug
}

// CategoriesKey returns the cache key for the public category listing.
func CategoriesKey() string {
	return "categories"
}
