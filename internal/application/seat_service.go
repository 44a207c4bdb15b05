package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/723poil/concert-booking/internal/domain/schedule"
	"github.com/723poil/concert-booking/internal/domain/seat"
	"github.com/723poil/concert-booking/internal/infrastructure/redis"
	"github.com/723poil/concert-booking/internal/pkg/logger"
)

// AvailabilityCache は空席数キャッシュのインターフェース
type AvailabilityCache interface {
	GetAvailableCount(ctx context.Context, scheduleID string) (int, error)
	SetAvailableCount(ctx context.Context, scheduleID string, count int, ttl time.Duration) error
	Invalidate(ctx context.Context, scheduleID string) error
}

// 空席数キャッシュのTTL
const availabilityCacheTTL = 10 * time.Second

// SeatService は座席管理のユースケースを提供する
type SeatService struct {
	seatRepo     seat.Repository
	scheduleRepo schedule.Repository
	cache        AvailabilityCache
}

// NewSeatService はSeatServiceを作成する
// cache は nil 可
func NewSeatService(sr seat.Repository, scr schedule.Repository, cache AvailabilityCache) *SeatService {
	return &SeatService{
		seatRepo:     sr,
		scheduleRepo: scr,
		cache:        cache,
	}
}

// CreateSeatInput は座席作成の入力
type CreateSeatInput struct {
	ScheduleID string
	Section    string
	RowNumber  int
	SeatNumber int
	Grade      string
	Price      int
}

// CreateSeat は単一の座席を作成する
func (s *SeatService) CreateSeat(ctx context.Context, input CreateSeatInput) (*seat.Seat, error) {
	if _, err := s.scheduleRepo.GetByID(ctx, input.ScheduleID); err != nil {
		return nil, err
	}

	se := seat.NewSeat(input.ScheduleID, input.Section, input.RowNumber, input.SeatNumber, seat.Grade(input.Grade), input.Price)
	if err := se.Validate(); err != nil {
		return nil, err
	}

	if err := s.seatRepo.Create(ctx, se); err != nil {
		return nil, err
	}
	s.invalidate(ctx, input.ScheduleID)
	return se, nil
}

// CreateBulkSeatsInput はセクション単位の座席一括作成の入力
type CreateBulkSeatsInput struct {
	ScheduleID  string
	Section     string
	Rows        int
	SeatsPerRow int
	Grade       string
	Price       int
}

// CreateBulkSeats はセクションの座席を列×席数のグリッドで一括作成する
func (s *SeatService) CreateBulkSeats(ctx context.Context, input CreateBulkSeatsInput) ([]*seat.Seat, error) {
	if input.Rows <= 0 || input.SeatsPerRow <= 0 {
		return nil, seat.ErrInvalidSeatPosition
	}
	if _, err := s.scheduleRepo.GetByID(ctx, input.ScheduleID); err != nil {
		return nil, err
	}

	seats := make([]*seat.Seat, 0, input.Rows*input.SeatsPerRow)
	for row := 1; row <= input.Rows; row++ {
		for num := 1; num <= input.SeatsPerRow; num++ {
			se := seat.NewSeat(input.ScheduleID, input.Section, row, num, seat.Grade(input.Grade), input.Price)
			if err := se.Validate(); err != nil {
				return nil, fmt.Errorf("座席(%s %d-%d)の検証に失敗: %w", input.Section, row, num, err)
			}
			seats = append(seats, se)
		}
	}

	if err := s.seatRepo.CreateBulk(ctx, seats); err != nil {
		return nil, err
	}
	s.invalidate(ctx, input.ScheduleID)
	return seats, nil
}

// GetSeat はIDから座席を取得する
func (s *SeatService) GetSeat(ctx context.Context, id string) (*seat.Seat, error) {
	return s.seatRepo.GetByID(ctx, id)
}

// GetSeatsBySchedule はスケジュールの全座席を表示順で取得する
func (s *SeatService) GetSeatsBySchedule(ctx context.Context, scheduleID string) ([]*seat.Seat, error) {
	if _, err := s.scheduleRepo.GetByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	return s.seatRepo.GetByScheduleID(ctx, scheduleID)
}

// GetAvailableSeats はスケジュールの空席を表示順
// （グレードの良い順 → セクション → 座席番号）で取得する
func (s *SeatService) GetAvailableSeats(ctx context.Context, scheduleID string) ([]*seat.Seat, error) {
	if _, err := s.scheduleRepo.GetByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	return s.seatRepo.GetAvailableByScheduleID(ctx, scheduleID)
}

// CountAvailableSeats はスケジュールの空席数を返す
// キャッシュヒット時はDBを参照しない。キャッシュの値は数秒古い可能性が
// あるが、実際の予約可否はCASが裁定するため表示用途には十分
func (s *SeatService) CountAvailableSeats(ctx context.Context, scheduleID string) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, scheduleID)
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			logger.Warn("空席数キャッシュ取得エラー", zap.Error(err))
		}
	}

	if _, err := s.scheduleRepo.GetByID(ctx, scheduleID); err != nil {
		return 0, err
	}
	count, err := s.seatRepo.CountAvailableByScheduleID(ctx, scheduleID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, scheduleID, count, availabilityCacheTTL); err != nil {
			logger.Warn("空席数キャッシュ設定エラー", zap.Error(err))
		}
	}
	return count, nil
}

func (s *SeatService) invalidate(ctx context.Context, scheduleID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, scheduleID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}
