package seat

import (
	"time"

	"github.com/google/uuid"
)

// Status は座席の状態を表す
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusHolding   Status = "HOLDING"
	StatusReserved  Status = "RESERVED"
)

// validTransitions は許可された状態遷移の定義
// AVAILABLE → HOLDING（仮押さえ）、HOLDING → RESERVED（確定）、
// HOLDING → AVAILABLE（期限切れ・キャンセルによる解放）のみ許可する
var validTransitions = map[Status]map[Status]bool{
	StatusAvailable: {StatusHolding: true},
	StatusHolding:   {StatusReserved: true, StatusAvailable: true},
}

// CanTransition は from から to への状態遷移が合法かを返す
func CanTransition(from, to Status) bool {
	return validTransitions[from][to]
}

// Grade は座席のグレードを表す
type Grade string

const (
	GradeVIP Grade = "VIP"
	GradeR   Grade = "R"
	GradeS   Grade = "S"
	GradeA   Grade = "A"
)

// Rank はグレードの序列を返す（小さいほど上位）
func (g Grade) Rank() int {
	switch g {
	case GradeVIP:
		return 0
	case GradeR:
		return 1
	case GradeS:
		return 2
	case GradeA:
		return 3
	default:
		return 4
	}
}

// IsValid はグレードが定義済みかを返す
func (g Grade) IsValid() bool {
	return g.Rank() < 4
}

// Seat は座席エンティティを表す
type Seat struct {
	ID         string
	ScheduleID string
	Section    string
	RowNumber  int
	SeatNumber int
	Grade      Grade
	Price      int
	Status     Status
	Version    int // 楽観的ロック用。状態遷移ごとに必ず1増える
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewSeat は新しい座席を作成する
func NewSeat(scheduleID, section string, rowNumber, seatNumber int, grade Grade, price int) *Seat {
	now := time.Now()
	return &Seat{
		ID:         uuid.NewString(),
		ScheduleID: scheduleID,
		Section:    section,
		RowNumber:  rowNumber,
		SeatNumber: seatNumber,
		Grade:      grade,
		Price:      price,
		Status:     StatusAvailable,
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsAvailable は座席が予約可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.ScheduleID == "" {
		return ErrScheduleIDRequired
	}
	if s.Section == "" {
		return ErrSectionRequired
	}
	if s.RowNumber <= 0 || s.SeatNumber <= 0 {
		return ErrInvalidSeatPosition
	}
	if !s.Grade.IsValid() {
		return ErrInvalidGrade
	}
	if s.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}
