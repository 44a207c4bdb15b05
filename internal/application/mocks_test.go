package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/723poil/concert-booking/internal/domain/concert"
	"github.com/723poil/concert-booking/internal/domain/reservation"
	"github.com/723poil/concert-booking/internal/domain/schedule"
	"github.com/723poil/concert-booking/internal/domain/seat"
	"github.com/723poil/concert-booking/internal/domain/transaction"
)

type mockTx struct {
	mock.Mock
}

func (m *mockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *mockTx) Rollback() error {
	return m.Called().Error(0)
}

type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

type mockSeatRepository struct {
	mock.Mock
}

func (m *mockSeatRepository) Create(ctx context.Context, s *seat.Seat) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSeatRepository) CreateBulk(ctx context.Context, seats []*seat.Seat) error {
	return m.Called(ctx, seats).Error(0)
}

func (m *mockSeatRepository) GetByID(ctx context.Context, id string) (*seat.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

func (m *mockSeatRepository) GetByScheduleID(ctx context.Context, scheduleID string) ([]*seat.Seat, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *mockSeatRepository) GetAvailableByScheduleID(ctx context.Context, scheduleID string) ([]*seat.Seat, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *mockSeatRepository) CountAvailableByScheduleID(ctx context.Context, scheduleID string) (int, error) {
	args := m.Called(ctx, scheduleID)
	return args.Int(0), args.Error(1)
}

func (m *mockSeatRepository) CompareAndSwapStatus(ctx context.Context, tx transaction.Tx, seatID string, expectedVersion int, expected, next seat.Status) error {
	return m.Called(ctx, tx, seatID, expectedVersion, expected, next).Error(0)
}

type mockReservationRepository struct {
	mock.Mock
}

func (m *mockReservationRepository) Create(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	return m.Called(ctx, tx, r).Error(0)
}

func (m *mockReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *mockReservationRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *mockReservationRepository) Update(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	return m.Called(ctx, tx, r).Error(0)
}

func (m *mockReservationRepository) GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

type mockScheduleRepository struct {
	mock.Mock
}

func (m *mockScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockScheduleRepository) GetByID(ctx context.Context, id string) (*schedule.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.Schedule), args.Error(1)
}

func (m *mockScheduleRepository) GetByConcertID(ctx context.Context, concertID string) ([]*schedule.Schedule, error) {
	args := m.Called(ctx, concertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schedule.Schedule), args.Error(1)
}

func (m *mockScheduleRepository) Update(ctx context.Context, s *schedule.Schedule) error {
	return m.Called(ctx, s).Error(0)
}

type mockConcertRepository struct {
	mock.Mock
}

func (m *mockConcertRepository) Create(ctx context.Context, c *concert.Concert) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockConcertRepository) GetByID(ctx context.Context, id string) (*concert.Concert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*concert.Concert), args.Error(1)
}

func (m *mockConcertRepository) List(ctx context.Context, limit, offset int) ([]*concert.Concert, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*concert.Concert), args.Error(1)
}

func (m *mockConcertRepository) Update(ctx context.Context, c *concert.Concert) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockConcertRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockAvailabilityCache struct {
	mock.Mock
}

func (m *mockAvailabilityCache) GetAvailableCount(ctx context.Context, scheduleID string) (int, error) {
	args := m.Called(ctx, scheduleID)
	return args.Int(0), args.Error(1)
}

func (m *mockAvailabilityCache) SetAvailableCount(ctx context.Context, scheduleID string, count int, ttl time.Duration) error {
	return m.Called(ctx, scheduleID, count, ttl).Error(0)
}

func (m *mockAvailabilityCache) Invalidate(ctx context.Context, scheduleID string) error {
	return m.Called(ctx, scheduleID).Error(0)
}
