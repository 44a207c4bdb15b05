package concert

import (
	"time"

	"github.com/google/uuid"
)

// Concert はコンサートエンティティを表す
// 公演カタログの単位であり、実際の開催日時はスケジュールが持つ
type Concert struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewConcert は新しいコンサートを作成する
func NewConcert(name, description string) *Concert {
	now := time.Now()
	return &Concert{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate はコンサートの検証を行う
func (c *Concert) Validate() error {
	if c.Name == "" {
		return ErrConcertNameRequired
	}
	return nil
}
