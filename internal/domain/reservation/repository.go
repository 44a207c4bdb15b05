package reservation

import (
	"context"
	"time"

	"github.com/723poil/concert-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	// 座席CASと同じ原子的単位の中で呼び出すこと
	Create(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// GetByUserID はユーザーIDから予約一覧を取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Reservation, error)

	// Update は予約の状態遷移を永続化する（トランザクション必須）
	// ストア層でも PENDING 行のみを更新対象とし、終端状態の上書きを拒否する。
	// 対象行が既に終端状態の場合は ErrReservationNotPending を返す
	Update(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// GetExpiredPending は仮押さえ期限を過ぎた保留中予約を取得する
	GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]*Reservation, error)
}
