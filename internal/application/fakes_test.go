package application

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/723poil/concert-booking/internal/domain/reservation"
	"github.com/723poil/concert-booking/internal/domain/schedule"
	"github.com/723poil/concert-booking/internal/domain/seat"
	"github.com/723poil/concert-booking/internal/domain/transaction"
)

// fakeStore はシナリオテスト用のインメモリストア
// トランザクションは Begin でストア全体をロックし、Commit / Rollback で
// 解放する直列化方式。Rollback は Begin 時点のスナップショットへ巻き戻す
type fakeStore struct {
	mu           sync.Mutex
	seats        map[string]*seat.Seat
	reservations map[string]*reservation.Reservation
	schedules    map[string]*schedule.Schedule
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seats:        make(map[string]*seat.Seat),
		reservations: make(map[string]*reservation.Reservation),
		schedules:    make(map[string]*schedule.Schedule),
	}
}

func (s *fakeStore) putSeat(se *seat.Seat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *se
	s.seats[se.ID] = &c
}

func (s *fakeStore) putSchedule(sch *schedule.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sch
	s.schedules[sch.ID] = &c
}

func (s *fakeStore) seatState(id string) (seat.Status, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	se := s.seats[id]
	return se.Status, se.Version
}

func (s *fakeStore) reservationStatus(id string) reservation.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id].Status
}

func (s *fakeStore) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reservations {
		if r.Status == reservation.StatusPending {
			n++
		}
	}
	return n
}

type fakeTx struct {
	store    *fakeStore
	snapSeat map[string]seat.Seat
	snapRes  map[string]reservation.Reservation
	done     bool
}

func (t *fakeTx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.store.seats = make(map[string]*seat.Seat, len(t.snapSeat))
	for id, se := range t.snapSeat {
		c := se
		t.store.seats[id] = &c
	}
	t.store.reservations = make(map[string]*reservation.Reservation, len(t.snapRes))
	for id, r := range t.snapRes {
		c := r
		t.store.reservations[id] = &c
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	m.store.mu.Lock()
	tx := &fakeTx{
		store:    m.store,
		snapSeat: make(map[string]seat.Seat, len(m.store.seats)),
		snapRes:  make(map[string]reservation.Reservation, len(m.store.reservations)),
	}
	for id, se := range m.store.seats {
		tx.snapSeat[id] = *se
	}
	for id, r := range m.store.reservations {
		tx.snapRes[id] = *r
	}
	return tx, nil
}

// fakeSeatRepository はトランザクション引数を取るメソッドではロックを
// 取得しない（呼び出し元のトランザクションがロック保持中のため）
type fakeSeatRepository struct {
	store *fakeStore
}

func (r *fakeSeatRepository) Create(ctx context.Context, se *seat.Seat) error {
	r.store.putSeat(se)
	return nil
}

func (r *fakeSeatRepository) CreateBulk(ctx context.Context, seats []*seat.Seat) error {
	for _, se := range seats {
		r.store.putSeat(se)
	}
	return nil
}

func (r *fakeSeatRepository) GetByID(ctx context.Context, id string) (*seat.Seat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	se, ok := r.store.seats[id]
	if !ok {
		return nil, seat.ErrSeatNotFound
	}
	c := *se
	return &c, nil
}

func (r *fakeSeatRepository) GetByScheduleID(ctx context.Context, scheduleID string) ([]*seat.Seat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*seat.Seat
	for _, se := range r.store.seats {
		if se.ScheduleID == scheduleID {
			c := *se
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeSeatRepository) GetAvailableByScheduleID(ctx context.Context, scheduleID string) ([]*seat.Seat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*seat.Seat
	for _, se := range r.store.seats {
		if se.ScheduleID == scheduleID && se.Status == seat.StatusAvailable {
			c := *se
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeSeatRepository) CountAvailableByScheduleID(ctx context.Context, scheduleID string) (int, error) {
	seats, _ := r.GetAvailableByScheduleID(ctx, scheduleID)
	return len(seats), nil
}

func (r *fakeSeatRepository) CompareAndSwapStatus(ctx context.Context, tx transaction.Tx, seatID string, expectedVersion int, expected, next seat.Status) error {
	if !seat.CanTransition(expected, next) {
		return seat.ErrInvalidTransition
	}
	se, ok := r.store.seats[seatID]
	if !ok {
		return seat.ErrSeatNotFound
	}
	if se.Version != expectedVersion || se.Status != expected {
		return seat.ErrOptimisticLockConflict
	}
	se.Status = next
	se.Version++
	se.UpdatedAt = time.Now()
	return nil
}

type fakeReservationRepository struct {
	store *fakeStore
}

func (r *fakeReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	c := *res
	r.store.reservations[res.ID] = &c
	return nil
}

func (r *fakeReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	res, ok := r.store.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	c := *res
	return &c, nil
}

func (r *fakeReservationRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*reservation.Reservation
	for _, res := range r.store.reservations {
		if res.UserID == userID {
			c := *res
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	stored, ok := r.store.reservations[res.ID]
	if !ok {
		return reservation.ErrReservationNotFound
	}
	if stored.Status != reservation.StatusPending {
		return reservation.ErrReservationNotPending
	}
	c := *res
	r.store.reservations[res.ID] = &c
	return nil
}

func (r *fakeReservationRepository) GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*reservation.Reservation
	for _, res := range r.store.reservations {
		if res.Status == reservation.StatusPending && now.After(res.ExpiredAt) {
			c := *res
			out = append(out, &c)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

type fakeScheduleRepository struct {
	store *fakeStore
}

func (r *fakeScheduleRepository) Create(ctx context.Context, sch *schedule.Schedule) error {
	r.store.putSchedule(sch)
	return nil
}

func (r *fakeScheduleRepository) GetByID(ctx context.Context, id string) (*schedule.Schedule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sch, ok := r.store.schedules[id]
	if !ok {
		return nil, schedule.ErrScheduleNotFound
	}
	c := *sch
	return &c, nil
}

func (r *fakeScheduleRepository) GetByConcertID(ctx context.Context, concertID string) ([]*schedule.Schedule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*schedule.Schedule
	for _, sch := range r.store.schedules {
		if sch.ConcertID == concertID {
			c := *sch
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepository) Update(ctx context.Context, sch *schedule.Schedule) error {
	r.store.putSchedule(sch)
	return nil
}
