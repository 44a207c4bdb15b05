package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/723poil/concert-booking/internal/config"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := Ping(ctx, client); err != nil {
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestAvailabilityCache(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewAvailabilityCache(client)
	ctx := context.Background()
	scheduleID := "test-schedule-123"
	t.Cleanup(func() { _ = cache.Invalidate(ctx, scheduleID) })

	t.Run("キャッシュミス時はErrCacheMissを返す", func(t *testing.T) {
		_, err := cache.GetAvailableCount(ctx, scheduleID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("キャッシュにセットした値を取得できる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, scheduleID, 100, 30*time.Second)
		require.NoError(t, err)

		count, err := cache.GetAvailableCount(ctx, scheduleID)
		require.NoError(t, err)
		assert.Equal(t, 100, count)
	})

	t.Run("キャッシュを無効化できる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, scheduleID, 50, 30*time.Second)
		require.NoError(t, err)

		err = cache.Invalidate(ctx, scheduleID)
		require.NoError(t, err)

		_, err = cache.GetAvailableCount(ctx, scheduleID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("TTL経過後はキャッシュミスになる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, scheduleID, 10, 100*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(150 * time.Millisecond)

		_, err = cache.GetAvailableCount(ctx, scheduleID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
