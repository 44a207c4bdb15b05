package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound           = errors.New("座席が見つかりません")
	ErrSeatNotAvailable       = errors.New("座席は予約できません")
	ErrSeatNotHolding         = errors.New("座席は仮押さえされていません")
	ErrSeatAlreadyExists      = errors.New("同じ位置の座席が既に存在します")
	ErrScheduleIDRequired     = errors.New("スケジュールIDは必須です")
	ErrSectionRequired        = errors.New("セクションは必須です")
	ErrInvalidSeatPosition    = errors.New("行番号・座席番号は1以上である必要があります")
	ErrInvalidGrade           = errors.New("座席グレードが不正です")
	ErrInvalidPrice           = errors.New("価格は0以上である必要があります")
	ErrInvalidTransition      = errors.New("許可されていない座席状態遷移です")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
