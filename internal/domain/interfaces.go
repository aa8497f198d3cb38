package domain

import (
	"context"
	"time"
)

// EventPublisher is the slice of the event bus services depend on.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimitStore counts hits per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Clock yields the current instant; services use it to derive "today".
type Clock func() time.Time
