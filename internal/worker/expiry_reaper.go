package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/723poil/concert-booking/internal/pkg/logger"
	"github.com/723poil/concert-booking/internal/pkg/metrics"
)

// OverdueExpirer は期限切れ予約の回収処理のインターフェース
type OverdueExpirer interface {
	ExpireOverdueReservations(ctx context.Context, now time.Time) (int, error)
}

// ExpiryReaper は仮押さえ期限を過ぎた予約を定期的に回収するワーカー
// 回収処理自体が冪等なため、多重起動やクラッシュ後の再実行にも安全
type ExpiryReaper struct {
	expirer  OverdueExpirer
	interval time.Duration
	metrics  *metrics.Metrics
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewExpiryReaper はExpiryReaperを作成する
// metrics は nil 可
func NewExpiryReaper(expirer OverdueExpirer, interval time.Duration, m *metrics.Metrics) *ExpiryReaper {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &ExpiryReaper{
		expirer:  expirer,
		interval: interval,
		metrics:  m,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はワーカーループを開始する（ブロックしない）
func (r *ExpiryReaper) Start(ctx context.Context) {
	go r.run(ctx)
	logger.Info("期限切れ回収ワーカーを開始しました",
		zap.Duration("interval", r.interval))
}

// Stop はワーカーを停止し、実行中の回収が終わるまで待つ
func (r *ExpiryReaper) Stop() {
	close(r.stopCh)
	<-r.doneCh
	logger.Info("期限切れ回収ワーカーを停止しました")
}

func (r *ExpiryReaper) run(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.reap(ctx)
		}
	}
}

func (r *ExpiryReaper) reap(ctx context.Context) {
	count, err := r.expirer.ExpireOverdueReservations(ctx, time.Now())
	if err != nil {
		logger.Error("期限切れ予約の回収に失敗しました", zap.Error(err))
		return
	}
	if count > 0 {
		if r.metrics != nil {
			r.metrics.ExpiredReservationsTotal.Add(float64(count))
		}
		logger.Info("期限切れ予約を回収しました", zap.Int("count", count))
	}
}
