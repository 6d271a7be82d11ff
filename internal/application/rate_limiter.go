package application

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles login attempts per identifier (IP or email) with a
// fixed window. Counters live in Redis so limits hold across replicas; when
// Redis is not configured the limiter falls back to an in-process table.
type RateLimiter struct {
	rdb    *redis.Client
	window time.Duration
	limit  int

	mu     sync.Mutex
	local  map[string]*windowEntry
	nextGC time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter builds a limiter. rdb may be nil; the limiter then counts
// in memory.
func NewRateLimiter(rdb *redis.Client, window time.Duration, limit int) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if limit <= 0 {
		limit = 10
	}
	return &RateLimiter{
		rdb:    rdb,
		window: window,
		limit:  limit,
		local:  make(map[string]*windowEntry),
	}
}

// Allow counts one attempt for the identifier and reports whether it is
// still under the limit. Redis errors do not lock users out: the attempt is
// allowed and the error logged.
func (rl *RateLimiter) Allow(ctx context.Context, identifier string) bool {
	if identifier == "" {
		identifier = "anonymous"
	}
	if rl.rdb != nil {
		return rl.allowRedis(ctx, identifier)
	}
	return rl.allowLocal(identifier)
}

func (rl *RateLimiter) allowRedis(ctx context.Context, identifier string) bool {
	key := fmt.Sprintf("ratelimit:login:%s", identifier)

	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("rate limiter: redis incr failed, allowing request: %v", err)
		return true
	}
	if count == 1 {
		if err := rl.rdb.Expire(ctx, key, rl.window).Err(); err != nil {
			log.Printf("rate limiter: redis expire failed: %v", err)
		}
	}
	return count <= int64(rl.limit)
}

func (rl *RateLimiter) allowLocal(identifier string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.gcLocked(now)

	entry, ok := rl.local[identifier]
	if !ok || now.After(entry.resetAt) {
		rl.local[identifier] = &windowEntry{count: 1, resetAt: now.Add(rl.window)}
		return true
	}
	entry.count++
	return entry.count <= rl.limit
}

// gcLocked drops expired windows at most once per window length.
func (rl *RateLimiter) gcLocked(now time.Time) {
	if now.Before(rl.nextGC) {
		return
	}
	for key, entry := range rl.local {
		if now.After(entry.resetAt) {
			delete(rl.local, key)
		}
	}
	rl.nextGC = now.Add(rl.window)
}
