package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/723poil/concert-booking/internal/domain/concert"
)

type concertRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *concertRow) toEntity() *concert.Concert {
	var desc string
	if r.Description != nil {
		desc = *r.Description
	}
	return &concert.Concert{
		ID: r.ID, Name: r.Name, Description: desc,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// ConcertRepository はコンサートリポジトリのPostgreSQL実装
type ConcertRepository struct{ db *sqlx.DB }

// NewConcertRepository はConcertRepositoryを作成する
func NewConcertRepository(db *sqlx.DB) *ConcertRepository {
	return &ConcertRepository{db: db}
}

func (r *ConcertRepository) Create(ctx context.Context, c *concert.Concert) error {
	query := `INSERT INTO concerts (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	var desc *string
	if c.Description != "" {
		desc = &c.Description
	}
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, desc, c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("コンサート作成に失敗しました: %w", err)
	}
	return nil
}

func (r *ConcertRepository) GetByID(ctx context.Context, id string) (*concert.Concert, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM concerts WHERE id = $1`
	var row concertRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, concert.ErrConcertNotFound
		}
		return nil, fmt.Errorf("コンサート取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ConcertRepository) List(ctx context.Context, limit, offset int) ([]*concert.Concert, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM concerts ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	var rows []concertRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("コンサート一覧取得に失敗しました: %w", err)
	}
	concerts := make([]*concert.Concert, len(rows))
	for i, row := range rows {
		concerts[i] = row.toEntity()
	}
	return concerts, nil
}

func (r *ConcertRepository) Update(ctx context.Context, c *concert.Concert) error {
	query := `UPDATE concerts SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	var desc *string
	if c.Description != "" {
		desc = &c.Description
	}
	result, err := r.db.ExecContext(ctx, query, c.Name, desc, time.Now(), c.ID)
	if err != nil {
		return fmt.Errorf("コンサート更新に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return concert.ErrConcertNotFound
	}
	return nil
}

func (r *ConcertRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM concerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("コンサート削除に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return concert.ErrConcertNotFound
	}
	return nil
}

var _ concert.Repository = (*ConcertRepository)(nil)
