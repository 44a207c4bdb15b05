package handler

import (
	"context"
	"time"

	"github.com/723poil/concert-booking/internal/application"
	"github.com/723poil/concert-booking/internal/domain/concert"
	"github.com/723poil/concert-booking/internal/domain/reservation"
	"github.com/723poil/concert-booking/internal/domain/schedule"
	"github.com/723poil/concert-booking/internal/domain/seat"
)

// ConcertServiceInterface はコンサートサービスのインターフェース
type ConcertServiceInterface interface {
	CreateConcert(ctx context.Context, input application.CreateConcertInput) (*concert.Concert, error)
	GetConcert(ctx context.Context, id string) (*concert.Concert, error)
	ListConcerts(ctx context.Context, limit, offset int) ([]*concert.Concert, error)
	UpdateConcert(ctx context.Context, id string, input application.UpdateConcertInput) (*concert.Concert, error)
	DeleteConcert(ctx context.Context, id string) error
}

// ScheduleServiceInterface はスケジュールサービスのインターフェース
type ScheduleServiceInterface interface {
	CreateSchedule(ctx context.Context, input application.CreateScheduleInput) (*schedule.Schedule, error)
	GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error)
	ListSchedulesByConcert(ctx context.Context, concertID string) ([]*schedule.Schedule, error)
	OpenSchedule(ctx context.Context, id string) (*schedule.Schedule, error)
	CloseSchedule(ctx context.Context, id string) (*schedule.Schedule, error)
}

// SeatServiceInterface は座席サービスのインターフェース
type SeatServiceInterface interface {
	CreateSeat(ctx context.Context, input application.CreateSeatInput) (*seat.Seat, error)
	CreateBulkSeats(ctx context.Context, input application.CreateBulkSeatsInput) ([]*seat.Seat, error)
	GetSeat(ctx context.Context, id string) (*seat.Seat, error)
	GetSeatsBySchedule(ctx context.Context, scheduleID string) ([]*seat.Seat, error)
	GetAvailableSeats(ctx context.Context, scheduleID string) ([]*seat.Seat, error)
	CountAvailableSeats(ctx context.Context, scheduleID string) (int, error)
}

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	ReserveSeat(ctx context.Context, input application.ReserveSeatInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error)
	ConfirmReservation(ctx context.Context, id string, now time.Time) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id string, now time.Time) (*reservation.Reservation, error)
}
