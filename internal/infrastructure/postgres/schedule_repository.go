package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/723poil/concert-booking/internal/domain/schedule"
)

type scheduleRow struct {
	ID         string    `db:"id"`
	ConcertID  string    `db:"concert_id"`
	Venue      string    `db:"venue"`
	StartAt    time.Time `db:"start_at"`
	EndAt      time.Time `db:"end_at"`
	TotalSeats int       `db:"total_seats"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *scheduleRow) toEntity() *schedule.Schedule {
	return &schedule.Schedule{
		ID: r.ID, ConcertID: r.ConcertID, Venue: r.Venue,
		StartAt: r.StartAt, EndAt: r.EndAt, TotalSeats: r.TotalSeats,
		Status: schedule.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const scheduleColumns = `id, concert_id, venue, start_at, end_at, total_seats, status, created_at, updated_at`

// ScheduleRepository はスケジュールリポジトリのPostgreSQL実装
type ScheduleRepository struct{ db *sqlx.DB }

// NewScheduleRepository はScheduleRepositoryを作成する
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	query := `INSERT INTO concert_schedules (` + scheduleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ConcertID, s.Venue, s.StartAt, s.EndAt, s.TotalSeats, string(s.Status), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("スケジュール作成に失敗: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*schedule.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM concert_schedules WHERE id = $1`
	var row scheduleRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("スケジュール取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ScheduleRepository) GetByConcertID(ctx context.Context, concertID string) ([]*schedule.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM concert_schedules WHERE concert_id = $1 ORDER BY start_at`
	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, concertID); err != nil {
		return nil, fmt.Errorf("スケジュール一覧取得に失敗: %w", err)
	}
	schedules := make([]*schedule.Schedule, len(rows))
	for i, row := range rows {
		schedules[i] = row.toEntity()
	}
	return schedules, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, s *schedule.Schedule) error {
	query := `UPDATE concert_schedules SET venue = $1, start_at = $2, end_at = $3, total_seats = $4, status = $5, updated_at = $6 WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		s.Venue, s.StartAt, s.EndAt, s.TotalSeats, string(s.Status), time.Now(), s.ID,
	)
	if err != nil {
		return fmt.Errorf("スケジュール更新に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗: %w", err)
	}
	if rows == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

var _ schedule.Repository = (*ScheduleRepository)(nil)
