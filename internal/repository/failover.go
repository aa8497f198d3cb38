package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"marehpilates/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverRateLimitStore uses primary until it errors, then serves from
// fallback and retries primary once per recoveryInterval.
type FailoverRateLimitStore struct {
	primary  domain.RateLimitStore
	fallback domain.RateLimitStore
	logger   *zerolog.Logger

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
	now       func() time.Time
}

func NewFailoverRateLimitStore(primary, fallback domain.RateLimitStore, logger *zerolog.Logger) *FailoverRateLimitStore {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FailoverRateLimitStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *FailoverRateLimitStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() || r.recoveryDue() {
		allowed, err := r.primary.Allow(ctx, key, limit, window)
		if err == nil {
			if r.isDown.Swap(false) {
				r.logger.Info().Msg("primary rate limit store recovered")
			}
			return allowed, nil
		}
		if !r.isDown.Swap(true) {
			r.logger.Error().Err(err).Msg("primary rate limit store failed, falling back to memory")
		}
		r.markChecked()
	}
	return r.fallback.Allow(ctx, key, limit, window)
}

func (r *FailoverRateLimitStore) recoveryDue() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.now().Sub(r.lastCheck) < recoveryInterval {
		return false
	}
	r.lastCheck = r.now()
	return true
}

func (r *FailoverRateLimitStore) markChecked() {
	r.mu.Lock()
	r.lastCheck = r.now()
	r.mu.Unlock()
}
