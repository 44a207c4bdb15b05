package reservation

import (
	"time"

	"github.com/google/uuid"
)

// Status は予約の状態を表す
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// DefaultHoldDuration は仮押さえの有効期間（デフォルト5分）
const DefaultHoldDuration = 5 * time.Minute

// Reservation は予約エンティティを表す
// 1件の予約は1席に対応する。TotalPrice は仮押さえ時点の座席価格を固定する
type Reservation struct {
	ID          string
	UserID      string
	ScheduleID  string
	SeatID      string
	Status      Status
	TotalPrice  int
	ReservedAt  time.Time
	ExpiredAt   time.Time
	ConfirmedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewReservation は新しい予約を作成する
func NewReservation(userID, scheduleID, seatID string, totalPrice int, now time.Time, holdDuration time.Duration) *Reservation {
	if holdDuration <= 0 {
		holdDuration = DefaultHoldDuration
	}
	return &Reservation{
		ID:         uuid.NewString(),
		UserID:     userID,
		ScheduleID: scheduleID,
		SeatID:     seatID,
		Status:     StatusPending,
		TotalPrice: totalPrice,
		ReservedAt: now,
		ExpiredAt:  now.Add(holdDuration),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsPending は予約が保留中かを返す
func (r *Reservation) IsPending() bool {
	return r.Status == StatusPending
}

// IsExpiredAt は指定時刻で仮押さえ期限を過ぎているかを返す
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return now.After(r.ExpiredAt)
}

// Confirm は予約を確定する
// PENDING かつ期限内の場合のみ CONFIRMED へ遷移できる
func (r *Reservation) Confirm(now time.Time) error {
	if err := r.checkPending(); err != nil {
		return err
	}
	if r.IsExpiredAt(now) {
		return ErrReservationExpired
	}
	r.Status = StatusConfirmed
	r.ConfirmedAt = &now
	r.UpdatedAt = now
	return nil
}

// Cancel は予約をキャンセルする
func (r *Reservation) Cancel(now time.Time) error {
	if err := r.checkPending(); err != nil {
		return err
	}
	r.Status = StatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	return nil
}

// Expire は期限切れの予約を EXPIRED へ遷移させる
func (r *Reservation) Expire(now time.Time) error {
	if err := r.checkPending(); err != nil {
		return err
	}
	r.Status = StatusExpired
	r.UpdatedAt = now
	return nil
}

// checkPending は終端状態からの再遷移を拒否する
func (r *Reservation) checkPending() error {
	switch r.Status {
	case StatusPending:
		return nil
	case StatusConfirmed:
		return ErrReservationAlreadyConfirmed
	case StatusCancelled:
		return ErrReservationAlreadyCancelled
	case StatusExpired:
		return ErrReservationExpired
	default:
		return ErrReservationNotPending
	}
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.ScheduleID == "" {
		return ErrScheduleIDRequired
	}
	if r.SeatID == "" {
		return ErrSeatIDRequired
	}
	if r.TotalPrice < 0 {
		return ErrInvalidTotalPrice
	}
	return nil
}
