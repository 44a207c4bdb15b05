package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound         = errors.New("予約が見つかりません")
	ErrReservationNotPending       = errors.New("予約は保留中ではありません")
	ErrReservationExpired          = errors.New("予約の仮押さえ期限が切れています")
	ErrReservationAlreadyConfirmed = errors.New("予約は既に確定されています")
	ErrReservationAlreadyCancelled = errors.New("予約は既にキャンセルされています")
	ErrUserIDRequired              = errors.New("ユーザーIDは必須です")
	ErrScheduleIDRequired          = errors.New("スケジュールIDは必須です")
	ErrSeatIDRequired              = errors.New("座席IDは必須です")
	ErrInvalidTotalPrice           = errors.New("合計金額は0以上である必要があります")
)
