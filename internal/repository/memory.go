package repository

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryRateLimitStore keeps one token bucket per key in process memory. A
// bucket holds limit tokens and refills at limit per window.
type MemoryRateLimitStore struct {
	limiters sync.Map
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{}
}

func (r *MemoryRateLimitStore) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	return r.limiter(key, limit, window).Allow(), nil
}

func (r *MemoryRateLimitStore) limiter(key string, limit int, window time.Duration) *rate.Limiter {
	if v, ok := r.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	every := rate.Every(window / time.Duration(limit))
	lim := rate.NewLimiter(every, limit)
	actual, _ := r.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}
