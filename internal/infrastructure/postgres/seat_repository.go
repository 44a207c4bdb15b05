package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/723poil/concert-booking/internal/domain/seat"
	"github.com/723poil/concert-booking/internal/domain/transaction"
)

type seatRow struct {
	ID         string    `db:"id"`
	ScheduleID string    `db:"schedule_id"`
	Section    string    `db:"section"`
	RowNumber  int       `db:"row_number"`
	SeatNumber int       `db:"seat_number"`
	Grade      string    `db:"grade"`
	Price      int       `db:"price"`
	Status     string    `db:"status"`
	Version    int       `db:"version"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{
		ID: r.ID, ScheduleID: r.ScheduleID, Section: r.Section,
		RowNumber: r.RowNumber, SeatNumber: r.SeatNumber,
		Grade: seat.Grade(r.Grade), Price: r.Price,
		Status: seat.Status(r.Status), Version: r.Version,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const seatColumns = `id, schedule_id, section, row_number, seat_number, grade, price, status, version, created_at, updated_at`

// gradeOrder はグレード上位順（VIP → R → S → A）のソート式
// 並び順はAPI契約の一部なので、辞書順ではなくランクで並べる
const gradeOrder = `CASE grade WHEN 'VIP' THEN 0 WHEN 'R' THEN 1 WHEN 'S' THEN 2 ELSE 3 END`

// SeatRepository は座席リポジトリのPostgreSQL実装
type SeatRepository struct{ db *sqlx.DB }

// NewSeatRepository はSeatRepositoryを作成する
func NewSeatRepository(db *sqlx.DB) *SeatRepository { return &SeatRepository{db: db} }

func (r *SeatRepository) Create(ctx context.Context, s *seat.Seat) error {
	query := `INSERT INTO seats (` + seatColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ScheduleID, s.Section, s.RowNumber, s.SeatNumber,
		string(s.Grade), s.Price, string(s.Status), s.Version, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return seat.ErrSeatAlreadyExists
		}
		return fmt.Errorf("座席作成に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) CreateBulk(ctx context.Context, seats []*seat.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 500
	for i := 0; i < len(seats); i += batchSize {
		end := i + batchSize
		if end > len(seats) {
			end = len(seats)
		}
		if err := r.createBulkBatch(ctx, seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// createBulkBatch はバッチ単位でマルチバリューINSERTを実行
func (r *SeatRepository) createBulkBatch(ctx context.Context, seats []*seat.Seat) error {
	query := `INSERT INTO seats (` + seatColumns + `) VALUES `
	args := make([]interface{}, 0, len(seats)*11)
	placeholders := make([]string, 0, len(seats))

	for i, s := range seats {
		base := i * 11
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11))
		args = append(args,
			s.ID, s.ScheduleID, s.Section, s.RowNumber, s.SeatNumber,
			string(s.Grade), s.Price, string(s.Status), s.Version, s.CreatedAt, s.UpdatedAt)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return seat.ErrSeatAlreadyExists
		}
		return fmt.Errorf("座席一括作成に失敗: %w", err)
	}
	return nil
}

func (r *SeatRepository) GetByID(ctx context.Context, id string) (*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE id = $1`
	var row seatRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, seat.ErrSeatNotFound
		}
		return nil, fmt.Errorf("座席取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SeatRepository) GetByScheduleID(ctx context.Context, scheduleID string) ([]*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE schedule_id = $1 ORDER BY ` + gradeOrder + `, section, row_number, seat_number`
	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID); err != nil {
		return nil, fmt.Errorf("座席一覧取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) GetAvailableByScheduleID(ctx context.Context, scheduleID string) ([]*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE schedule_id = $1 AND status = 'AVAILABLE' ORDER BY ` + gradeOrder + `, section, seat_number`
	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID); err != nil {
		return nil, fmt.Errorf("予約可能座席の取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) CountAvailableByScheduleID(ctx context.Context, scheduleID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM seats WHERE schedule_id = $1 AND status = 'AVAILABLE'`, scheduleID)
	if err != nil {
		return 0, fmt.Errorf("空席数取得に失敗: %w", err)
	}
	return count, nil
}

// CompareAndSwapStatus は座席状態をCASで更新する
// version と status の両方が期待値に一致した場合のみ1行更新され、
// version が1増える。0行更新は楽観的ロックの競合を意味する
func (r *SeatRepository) CompareAndSwapStatus(ctx context.Context, tx transaction.Tx, seatID string, expectedVersion int, expected, next seat.Status) error {
	if !seat.CanTransition(expected, next) {
		return seat.ErrInvalidTransition
	}

	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが不正です")
	}

	query := `UPDATE seats SET status = $1, version = version + 1, updated_at = NOW() WHERE id = $2 AND version = $3 AND status = $4`
	result, err := sqlxTx.ExecContext(ctx, query, string(next), seatID, expectedVersion, string(expected))
	if err != nil {
		return fmt.Errorf("座席状態の更新に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗: %w", err)
	}
	if rows == 0 {
		return seat.ErrOptimisticLockConflict
	}
	return nil
}

var _ seat.Repository = (*SeatRepository)(nil)
