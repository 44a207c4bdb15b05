package concert

import "context"

// Repository はコンサートリポジトリのインターフェース
type Repository interface {
	// Create は新しいコンサートを作成する
	Create(ctx context.Context, concert *Concert) error

	// GetByID はIDからコンサートを取得する
	GetByID(ctx context.Context, id string) (*Concert, error)

	// List はコンサート一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Concert, error)

	// Update はコンサートを更新する
	Update(ctx context.Context, concert *Concert) error

	// Delete はコンサートを削除する
	Delete(ctx context.Context, id string) error
}
