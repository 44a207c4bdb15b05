package schedule

import "errors"

// Schedule ドメインのエラー定義
var (
	ErrScheduleNotFound      = errors.New("スケジュールが見つかりません")
	ErrScheduleNotReservable = errors.New("スケジュールは予約受付期間外です")
	ErrScheduleNotUpcoming   = errors.New("スケジュールは公開前ではありません")
	ErrScheduleNotOpen       = errors.New("スケジュールは予約受付中ではありません")
	ErrConcertIDRequired     = errors.New("コンサートIDは必須です")
	ErrVenueRequired         = errors.New("会場は必須です")
	ErrInvalidTotalSeats     = errors.New("座席数は1以上である必要があります")
	ErrInvalidScheduleTime   = errors.New("終了時刻は開始時刻より後である必要があります")
)
