package ratelimit

import (
	"context"
	"sync"
	"time"
)

// maxTrackedKeys bounds the in-memory map. When exceeded, stale entries
// are evicted on the next Allow call.
const maxTrackedKeys = 10000

// MemoryLimiter is a sliding-window counter held in process memory.
//
// Per-instance only: counts reset on restart and are not shared between
// instances. Production deployments should prefer RedisLimiter; this is
// the fallback when no Redis is configured.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Drop hits that slid out of the window
	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false, nil
	}

	l.hits[key] = append(recent, now)

	if len(l.hits) > maxTrackedKeys {
		l.evictStale(cutoff)
	}

	return true, nil
}

// evictStale removes keys whose every hit is outside the window.
// Caller must hold the mutex.
func (l *MemoryLimiter) evictStale(cutoff time.Time) {
	for key, hits := range l.hits {
		stale := true
		for _, t := range hits {
			if t.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.hits, key)
		}
	}
}
