package repository

import (
	"context"
	"testing"
	"time"

	"marehpilates/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := NewRedisClient(config.RedisConfig{Address: s.Addr()})
	defer client.Close()

	store := NewRedisRateLimitStore(client)
	ctx := context.Background()

	t.Run("FixedWindow", func(t *testing.T) {
		window := time.Second

		for i := 0; i < 2; i++ {
			allowed, err := store.Allow(ctx, "key-a", 2, window)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := store.Allow(ctx, "key-a", 2, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		// Another client has its own window.
		allowed, err = store.Allow(ctx, "key-b", 2, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = store.Allow(ctx, "key-a", 2, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("ExpirySetOnFirstHit", func(t *testing.T) {
		_, err := store.Allow(ctx, "key-ttl", 5, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, s.TTL(rateLimitKeyPrefix+"key-ttl"))
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("NilClient", func(t *testing.T) {
		_, err := NewRedisRateLimitStore(nil).Allow(ctx, "k", 1, time.Second)
		assert.ErrorContains(t, err, "redis client is nil")
	})

	t.Run("ServerDown", func(t *testing.T) {
		s.SetError("LOADING")
		defer s.SetError("")
		_, err := store.Allow(ctx, "key-c", 1, time.Second)
		assert.Error(t, err)
	})
}
