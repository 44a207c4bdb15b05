package schedule

import "context"

// Repository はスケジュールリポジトリのインターフェース
type Repository interface {
	// Create は新しいスケジュールを作成する
	Create(ctx context.Context, schedule *Schedule) error

	// GetByID はIDからスケジュールを取得する
	GetByID(ctx context.Context, id string) (*Schedule, error)

	// GetByConcertID はコンサートIDからスケジュール一覧を取得する
	GetByConcertID(ctx context.Context, concertID string) ([]*Schedule, error)

	// Update はスケジュールを更新する
	Update(ctx context.Context, schedule *Schedule) error
}
