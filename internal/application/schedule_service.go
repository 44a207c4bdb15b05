package application

import (
	"context"
	"time"

	"github.com/723poil/concert-booking/internal/domain/concert"
	"github.com/723poil/concert-booking/internal/domain/schedule"
)

// ScheduleService は公演スケジュール管理のユースケースを提供する
type ScheduleService struct {
	scheduleRepo schedule.Repository
	concertRepo  concert.Repository
}

// NewScheduleService はScheduleServiceを作成する
func NewScheduleService(sr schedule.Repository, cr concert.Repository) *ScheduleService {
	return &ScheduleService{scheduleRepo: sr, concertRepo: cr}
}

// CreateScheduleInput はスケジュール作成の入力
type CreateScheduleInput struct {
	ConcertID  string
	Venue      string
	StartAt    time.Time
	EndAt      time.Time
	TotalSeats int
}

// CreateSchedule はコンサートに公演スケジュールを追加する
// 作成直後はUPCOMING状態で、OpenScheduleを呼ぶまで予約は受け付けない
func (s *ScheduleService) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*schedule.Schedule, error) {
	if _, err := s.concertRepo.GetByID(ctx, input.ConcertID); err != nil {
		return nil, err
	}

	sch := schedule.NewSchedule(input.ConcertID, input.Venue, input.StartAt, input.EndAt, input.TotalSeats)
	if err := sch.Validate(); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Create(ctx, sch); err != nil {
		return nil, err
	}
	return sch, nil
}

// GetSchedule はIDからスケジュールを取得する
func (s *ScheduleService) GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error) {
	return s.scheduleRepo.GetByID(ctx, id)
}

// ListSchedulesByConcert はコンサートのスケジュール一覧を開演時刻順で取得する
func (s *ScheduleService) ListSchedulesByConcert(ctx context.Context, concertID string) ([]*schedule.Schedule, error) {
	if _, err := s.concertRepo.GetByID(ctx, concertID); err != nil {
		return nil, err
	}
	return s.scheduleRepo.GetByConcertID(ctx, concertID)
}

// OpenSchedule はスケジュールの予約受付を開始する
func (s *ScheduleService) OpenSchedule(ctx context.Context, id string) (*schedule.Schedule, error) {
	sch, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sch.Open(); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Update(ctx, sch); err != nil {
		return nil, err
	}
	return sch, nil
}

// CloseSchedule はスケジュールの予約受付を終了する
func (s *ScheduleService) CloseSchedule(ctx context.Context, id string) (*schedule.Schedule, error) {
	sch, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sch.Close(); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Update(ctx, sch); err != nil {
		return nil, err
	}
	return sch, nil
}
