package seat

import (
	"context"

	"github.com/723poil/concert-booking/internal/domain/transaction"
)

// Repository は座席リポジトリのインターフェース
type Repository interface {
	// Create は新しい座席を作成する
	Create(ctx context.Context, seat *Seat) error

	// CreateBulk は複数の座席を一括作成する
	CreateBulk(ctx context.Context, seats []*Seat) error

	// GetByID はIDから座席を取得する
	GetByID(ctx context.Context, id string) (*Seat, error)

	// GetByScheduleID はスケジュールIDから座席一覧を取得する
	GetByScheduleID(ctx context.Context, scheduleID string) ([]*Seat, error)

	// GetAvailableByScheduleID はスケジュールIDから予約可能な座席一覧を取得する
	// グレード上位順 → セクション順 → 座席番号順で返す（API契約）
	GetAvailableByScheduleID(ctx context.Context, scheduleID string) ([]*Seat, error)

	// CountAvailableByScheduleID はスケジュールの予約可能座席数を取得する
	CountAvailableByScheduleID(ctx context.Context, scheduleID string) (int, error)

	// CompareAndSwapStatus は座席状態をCASで更新する（トランザクション必須）
	// 保存済みの version と status が期待値に一致する場合のみ newStatus へ遷移し
	// version を1増やす。一致しない場合は ErrOptimisticLockConflict を返す
	// （競合時の正常な結果であり、異常ではない）
	CompareAndSwapStatus(ctx context.Context, tx transaction.Tx, seatID string, expectedVersion int, expected, next Status) error
}
