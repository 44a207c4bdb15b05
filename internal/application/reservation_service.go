package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/723poil/concert-booking/internal/domain/reservation"
	"github.com/723poil/concert-booking/internal/domain/schedule"
	"github.com/723poil/concert-booking/internal/domain/seat"
	"github.com/723poil/concert-booking/internal/domain/transaction"
	"github.com/723poil/concert-booking/internal/pkg/logger"
	"github.com/723poil/concert-booking/internal/pkg/metrics"
)

// recordReservationResult は予約試行の結果をメトリクスに記録する
func recordReservationResult(result string) {
	if m := metrics.Get(); m != nil {
		m.ReservationsTotal.WithLabelValues(result).Inc()
	}
}

// recordCASConflict は座席CASの競合をメトリクスに記録する
func recordCASConflict(operation string) {
	if m := metrics.Get(); m != nil {
		m.SeatCASConflictsTotal.WithLabelValues(operation).Inc()
	}
}

// AvailabilityInvalidator は空席数キャッシュの無効化を行うインターフェース
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, scheduleID string) error
}

// ReservationService は座席予約のユースケースを提供する
// 仮押さえ（CAS + 予約行作成）・確定・キャンセル・期限切れ回収のすべてが
// トランザクションマネージャーの単一の原子的単位の中で行われる
type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	seatRepo        seat.Repository
	scheduleRepo    schedule.Repository
	cache           AvailabilityInvalidator
	holdDuration    time.Duration
	reaperBatchSize int
}

// NewReservationService はReservationServiceを作成する
// cache は nil 可（キャッシュなしで動作する）
func NewReservationService(
	txManager transaction.Manager,
	rr reservation.Repository,
	sr seat.Repository,
	scr schedule.Repository,
	cache AvailabilityInvalidator,
	holdDuration time.Duration,
	reaperBatchSize int,
) *ReservationService {
	if holdDuration <= 0 {
		holdDuration = reservation.DefaultHoldDuration
	}
	if reaperBatchSize <= 0 {
		reaperBatchSize = 100
	}
	return &ReservationService{
		txManager:       txManager,
		reservationRepo: rr,
		seatRepo:        sr,
		scheduleRepo:    scr,
		cache:           cache,
		holdDuration:    holdDuration,
		reaperBatchSize: reaperBatchSize,
	}
}

// ReserveSeatInput は座席予約の入力
type ReserveSeatInput struct {
	UserID string
	SeatID string
}

// ReserveSeat は座席を仮押さえして保留中の予約を作成する
//
// 座席のCAS（AVAILABLE → HOLDING）と予約行のINSERTは同一トランザクションで
// 行う。片方だけが観測可能な状態は存在しない。CASに敗れた場合は
// seat.ErrOptimisticLockConflict を返す。呼び出し側は同じ座席への盲目的な
// リトライではなく、座席一覧の再取得を促すこと
func (s *ReservationService) ReserveSeat(ctx context.Context, input ReserveSeatInput) (*reservation.Reservation, error) {
	if input.UserID == "" {
		return nil, reservation.ErrUserIDRequired
	}
	if input.SeatID == "" {
		return nil, reservation.ErrSeatIDRequired
	}

	now := time.Now()

	// 1. 座席取得
	se, err := s.seatRepo.GetByID(ctx, input.SeatID)
	if err != nil {
		if errors.Is(err, seat.ErrSeatNotFound) {
			recordReservationResult("not_found")
		}
		return nil, err
	}

	// 2. スケジュールの受付可否チェック
	sch, err := s.scheduleRepo.GetByID(ctx, se.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("スケジュール取得に失敗: %w", err)
	}
	if !sch.IsReservable(now) {
		recordReservationResult("not_reservable")
		return nil, schedule.ErrScheduleNotReservable
	}

	// 3. 早期リターン（最適化）。正当性は下のCASが保証する
	if !se.IsAvailable() {
		recordReservationResult("conflict")
		return nil, seat.ErrSeatNotAvailable
	}

	// 価格はCAS前に読んだ座席から固定する
	res := reservation.NewReservation(input.UserID, se.ScheduleID, se.ID, se.Price, now, s.holdDuration)
	if err := res.Validate(); err != nil {
		return nil, err
	}

	// 4. CASと予約作成をひとつの原子的単位で実行
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		recordReservationResult("error")
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.seatRepo.CompareAndSwapStatus(ctx, tx, se.ID, se.Version, seat.StatusAvailable, seat.StatusHolding); err != nil {
		if errors.Is(err, seat.ErrOptimisticLockConflict) {
			recordCASConflict("hold")
			recordReservationResult("conflict")
		} else {
			recordReservationResult("error")
		}
		return nil, err
	}
	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		recordReservationResult("error")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		recordReservationResult("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	recordReservationResult("success")
	s.invalidateAvailability(ctx, se.ScheduleID)
	return res, nil
}

// ConfirmReservation は決済完了後に呼ばれ、予約を確定する
//
// 期限切れの場合は予約をEXPIREDにして座席を解放したうえで
// reservation.ErrReservationExpired を返す（Conflictとは区別される）
func (s *ReservationService) ConfirmReservation(ctx context.Context, id string, now time.Time) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if res.IsPending() && res.IsExpiredAt(now) {
		// 期限切れ。回収ワーカーを待たずにこの場で解放する
		s.expireAndRelease(ctx, res, now)
		return nil, reservation.ErrReservationExpired
	}

	se, err := s.seatRepo.GetByID(ctx, res.SeatID)
	if err != nil {
		return nil, err
	}

	// 終端状態（確定済み・キャンセル済み・期限切れ）は決定的に失敗する
	if err := res.Confirm(now); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 期限チェック後もCASが最終的な裁定者であることに変わりはない
	if err := s.seatRepo.CompareAndSwapStatus(ctx, tx, se.ID, se.Version, seat.StatusHolding, seat.StatusReserved); err != nil {
		if errors.Is(err, seat.ErrOptimisticLockConflict) {
			recordCASConflict("confirm")
		}
		return nil, err
	}
	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	return res, nil
}

// CancelReservation は保留中の予約をキャンセルし、座席を解放する
func (s *ReservationService) CancelReservation(ctx context.Context, id string, now time.Time) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	se, err := s.seatRepo.GetByID(ctx, res.SeatID)
	if err != nil {
		return nil, err
	}

	if err := res.Cancel(now); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := s.seatRepo.CompareAndSwapStatus(ctx, tx, se.ID, se.Version, seat.StatusHolding, seat.StatusAvailable); err != nil {
		if errors.Is(err, seat.ErrOptimisticLockConflict) {
			recordCASConflict("release")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateAvailability(ctx, se.ScheduleID)
	return res, nil
}

// GetReservation はIDから予約を取得する
func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

// GetUserReservations はユーザーの予約一覧を取得する
func (s *ReservationService) GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.reservationRepo.GetByUserID(ctx, userID, limit, offset)
}

// ExpireOverdueReservations は仮押さえ期限を過ぎた保留中予約を回収する
// 回収ワーカーから定期的に呼ばれる。1件ずつ独立したトランザクションで処理し、
// 競合した予約はエラーにせずスキップする（繰り返し実行に対して冪等）
func (s *ReservationService) ExpireOverdueReservations(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.reservationRepo.GetExpiredPending(ctx, now, s.reaperBatchSize)
	if err != nil {
		return 0, fmt.Errorf("期限切れ予約の取得に失敗: %w", err)
	}

	count := 0
	for _, res := range overdue {
		if s.expireAndRelease(ctx, res, now) {
			count++
		}
	}
	return count, nil
}

// expireAndRelease は1件の予約をEXPIREDにし、座席をAVAILABLEへ戻す
// 予約更新はストア層でPENDING行に限定されているため、直前に確定された
// 予約を上書きすることはない。CAS競合時はロールバックしてスキップする
func (s *ReservationService) expireAndRelease(ctx context.Context, res *reservation.Reservation, now time.Time) bool {
	se, err := s.seatRepo.GetByID(ctx, res.SeatID)
	if err != nil {
		logger.Warn("期限切れ処理: 座席取得に失敗",
			zap.String("reservation_id", res.ID), zap.Error(err))
		return false
	}

	if err := res.Expire(now); err != nil {
		return false
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		logger.Warn("期限切れ処理: トランザクション開始に失敗", zap.Error(err))
		return false
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		if errors.Is(err, reservation.ErrReservationNotPending) {
			// 直前に確定またはキャンセルされた。良性の競合なのでスキップ
			logger.Debug("期限切れ処理: 予約は既に終端状態",
				zap.String("reservation_id", res.ID))
			return false
		}
		logger.Warn("期限切れ処理: 予約更新に失敗",
			zap.String("reservation_id", res.ID), zap.Error(err))
		return false
	}

	if err := s.seatRepo.CompareAndSwapStatus(ctx, tx, se.ID, se.Version, seat.StatusHolding, seat.StatusAvailable); err != nil {
		if errors.Is(err, seat.ErrOptimisticLockConflict) {
			// 別の書き込みが座席を解決済み。予約更新ごとロールバックして任せる
			recordCASConflict("release")
			logger.Debug("期限切れ処理: 座席CAS競合によりスキップ",
				zap.String("seat_id", se.ID), zap.Int("version", se.Version))
			return false
		}
		logger.Warn("期限切れ処理: 座席解放に失敗",
			zap.String("seat_id", se.ID), zap.Error(err))
		return false
	}

	if err := tx.Commit(); err != nil {
		logger.Warn("期限切れ処理: コミットに失敗",
			zap.String("reservation_id", res.ID), zap.Error(err))
		return false
	}

	s.invalidateAvailability(ctx, res.ScheduleID)
	return true
}

func (s *ReservationService) invalidateAvailability(ctx context.Context, scheduleID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, scheduleID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}
