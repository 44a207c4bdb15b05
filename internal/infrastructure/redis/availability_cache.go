package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache はスケジュールごとの空席数キャッシュを管理する
// 空席数は座席ストアから導出される値なので、短いTTLと
// 状態遷移時の無効化だけで十分に追従できる
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetAvailableCount はスケジュールの空席数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableCount(ctx context.Context, scheduleID string) (int, error) {
	val, err := c.client.Get(ctx, c.key(scheduleID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount はスケジュールの空席数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableCount(ctx context.Context, scheduleID string, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(scheduleID), count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はスケジュールのキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, scheduleID string) error {
	if err := c.client.Del(ctx, c.key(scheduleID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) key(scheduleID string) string {
	return fmt.Sprintf("seats:available:%s", scheduleID)
}
