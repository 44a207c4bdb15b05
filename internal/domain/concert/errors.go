package concert

import "errors"

// Concert ドメインのエラー定義
var (
	ErrConcertNotFound     = errors.New("コンサートが見つかりません")
	ErrConcertNameRequired = errors.New("コンサート名は必須です")
)
