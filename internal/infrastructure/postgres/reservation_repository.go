package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/723poil/concert-booking/internal/domain/reservation"
	"github.com/723poil/concert-booking/internal/domain/transaction"
)

type reservationRow struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	ScheduleID  string     `db:"schedule_id"`
	SeatID      string     `db:"seat_id"`
	Status      string     `db:"status"`
	TotalPrice  int        `db:"total_price"`
	ReservedAt  time.Time  `db:"reserved_at"`
	ExpiredAt   time.Time  `db:"expired_at"`
	ConfirmedAt *time.Time `db:"confirmed_at"`
	CancelledAt *time.Time `db:"cancelled_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID: r.ID, UserID: r.UserID, ScheduleID: r.ScheduleID, SeatID: r.SeatID,
		Status: reservation.Status(r.Status), TotalPrice: r.TotalPrice,
		ReservedAt: r.ReservedAt, ExpiredAt: r.ExpiredAt,
		ConfirmedAt: r.ConfirmedAt, CancelledAt: r.CancelledAt,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const reservationColumns = `id, user_id, schedule_id, seat_id, status, total_price, reserved_at, expired_at, confirmed_at, cancelled_at, created_at, updated_at`

// ReservationRepository は予約リポジトリのPostgreSQL実装
type ReservationRepository struct{ db *sqlx.DB }

// NewReservationRepository はReservationRepositoryを作成する
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}

	query := `INSERT INTO reservations (` + reservationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := sqlxTx.ExecContext(ctx, query,
		res.ID, res.UserID, res.ScheduleID, res.SeatID, string(res.Status),
		res.TotalPrice, res.ReservedAt, res.ExpiredAt, res.ConfirmedAt, res.CancelledAt,
		res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	var row reservationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY reserved_at DESC LIMIT $2 OFFSET $3`
	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

// Update は予約の状態遷移を永続化する
// WHERE句で PENDING を要求するため、確定と期限切れが競合しても
// 先勝ちの終端状態が後続の書き込みで上書きされることはない
func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}

	query := `UPDATE reservations SET status = $1, confirmed_at = $2, cancelled_at = $3, updated_at = $4 WHERE id = $5 AND status = 'PENDING'`
	result, err := sqlxTx.ExecContext(ctx, query,
		string(res.Status), res.ConfirmedAt, res.CancelledAt, res.UpdatedAt, res.ID,
	)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗: %w", err)
	}
	if rows == 0 {
		return reservation.ErrReservationNotPending
	}
	return nil
}

func (r *ReservationRepository) GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE status = 'PENDING' AND expired_at < $1 ORDER BY expired_at LIMIT $2`
	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, now, limit); err != nil {
		return nil, fmt.Errorf("期限切れ予約の取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
