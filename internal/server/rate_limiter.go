package server

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window in-memory limiter keyed by caller. Good
// enough for the public pay surface of a single-process deployment.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string]*windowCount
}

type windowCount struct {
	start time.Time
	count int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string]*windowCount),
	}
}

func (r *rateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.hits[key]
	if !ok || now.Sub(entry.start) >= r.window {
		r.hits[key] = &windowCount{start: now, count: 1}
		r.evictStale(now)
		return true
	}

	if entry.count >= r.limit {
		return false
	}
	entry.count++
	return true
}

func (r *rateLimiter) evictStale(now time.Time) {
	if len(r.hits) < 1024 {
		return
	}
	for key, entry := range r.hits {
		if now.Sub(entry.start) >= r.window {
			delete(r.hits, key)
		}
	}
}
