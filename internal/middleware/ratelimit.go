// Copyright (c) 2026 Inkwell Authors
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter increments a key and reports its count within the current
// window. Backed by Redis in production; tests inject a fake. Keeping
// the counter an injected dependency avoids process-global mutable
// state and survives restarts and multiple replicas.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter implements Counter on a Redis INCR with a windowed expiry.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter creates a Counter backed by the given Redis client.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr increments the key and sets its expiry on first use in a window.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.client.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		c.client.Expire(ctx, "ratelimit:"+key, window)
	}
	return n, nil
}

// RateLimiter limits requests per client IP within a fixed window.
type RateLimiter struct {
	counter Counter
	limit   int64
	window  time.Duration
}

// NewRateLimiter creates a rate limiter that allows limit requests per
// window per client IP, tracked in the injected counter.
func NewRateLimiter(counter Counter, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{counter: counter, limit: limit, window: window}
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
// Counter failures are logged and the request is allowed through: the
// limiter protects against brute force, not against Redis outages.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		n, err := rl.counter.Incr(r.Context(), ip, rl.window)
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if n > rl.limit {
			writeJSONError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	// Check X-Forwarded-For first (may contain multiple IPs).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first (leftmost) IP — the original client.
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP.
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr (strip port).
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
