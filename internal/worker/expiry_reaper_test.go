package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingExpirer struct {
	calls   atomic.Int64
	expired int
	err     error
}

func (e *countingExpirer) ExpireOverdueReservations(ctx context.Context, now time.Time) (int, error) {
	e.calls.Add(1)
	return e.expired, e.err
}

func TestExpiryReaper(t *testing.T) {
	t.Run("周期的に回収処理を呼び出す", func(t *testing.T) {
		expirer := &countingExpirer{expired: 2}
		reaper := NewExpiryReaper(expirer, 10*time.Millisecond, nil)

		reaper.Start(context.Background())
		time.Sleep(100 * time.Millisecond)
		reaper.Stop()

		assert.GreaterOrEqual(t, expirer.calls.Load(), int64(3))
	})

	t.Run("Stop後は回収処理が呼ばれない", func(t *testing.T) {
		expirer := &countingExpirer{}
		reaper := NewExpiryReaper(expirer, 10*time.Millisecond, nil)

		reaper.Start(context.Background())
		time.Sleep(50 * time.Millisecond)
		reaper.Stop()

		after := expirer.calls.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, after, expirer.calls.Load())
	})

	t.Run("コンテキストキャンセルで停止する", func(t *testing.T) {
		expirer := &countingExpirer{}
		reaper := NewExpiryReaper(expirer, 10*time.Millisecond, nil)

		ctx, cancel := context.WithCancel(context.Background())
		reaper.Start(ctx)
		cancel()

		select {
		case <-reaper.doneCh:
		case <-time.After(time.Second):
			t.Fatal("ワーカーが停止しませんでした")
		}
	})

	t.Run("回収エラーでもループは継続する", func(t *testing.T) {
		expirer := &countingExpirer{err: assert.AnError}
		reaper := NewExpiryReaper(expirer, 10*time.Millisecond, nil)

		reaper.Start(context.Background())
		time.Sleep(60 * time.Millisecond)
		reaper.Stop()

		assert.GreaterOrEqual(t, expirer.calls.Load(), int64(2))
	})
}
