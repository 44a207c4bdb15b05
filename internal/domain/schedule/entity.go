package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Status はスケジュールの状態を表す
type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusOpen      Status = "OPEN"
	StatusClosed    Status = "CLOSED"
	StatusCancelled Status = "CANCELLED"
)

// Schedule は公演スケジュールエンティティを表す
// 予約受付可否の判定材料（状態・開演時刻・座席数）を持つ
type Schedule struct {
	ID         string
	ConcertID  string
	Venue      string
	StartAt    time.Time
	EndAt      time.Time
	TotalSeats int
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewSchedule は新しいスケジュールを作成する
func NewSchedule(concertID, venue string, startAt, endAt time.Time, totalSeats int) *Schedule {
	now := time.Now()
	return &Schedule{
		ID:         uuid.NewString(),
		ConcertID:  concertID,
		Venue:      venue,
		StartAt:    startAt,
		EndAt:      endAt,
		TotalSeats: totalSeats,
		Status:     StatusUpcoming,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsReservable は指定時刻で予約を受け付けられるかを返す
// OPEN 状態かつ開演前であること。空席数は座席ストアから導出されるため
// ここでは判定しない
func (s *Schedule) IsReservable(now time.Time) bool {
	return s.Status == StatusOpen && now.Before(s.StartAt)
}

// Open は予約受付を開始する
func (s *Schedule) Open() error {
	if s.Status != StatusUpcoming {
		return ErrScheduleNotUpcoming
	}
	s.Status = StatusOpen
	s.UpdatedAt = time.Now()
	return nil
}

// Close は予約受付を終了する
func (s *Schedule) Close() error {
	if s.Status != StatusOpen {
		return ErrScheduleNotOpen
	}
	s.Status = StatusClosed
	s.UpdatedAt = time.Now()
	return nil
}

// Validate はスケジュールの検証を行う
func (s *Schedule) Validate() error {
	if s.ConcertID == "" {
		return ErrConcertIDRequired
	}
	if s.Venue == "" {
		return ErrVenueRequired
	}
	if s.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	if !s.EndAt.After(s.StartAt) {
		return ErrInvalidScheduleTime
	}
	return nil
}
