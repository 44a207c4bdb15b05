package application

import (
	"context"

	"github.com/723poil/concert-booking/internal/domain/concert"
)

// ConcertService はコンサート管理のユースケースを提供する
type ConcertService struct {
	concertRepo concert.Repository
}

// NewConcertService はConcertServiceを作成する
func NewConcertService(cr concert.Repository) *ConcertService {
	return &ConcertService{concertRepo: cr}
}

// CreateConcertInput はコンサート作成の入力
type CreateConcertInput struct {
	Name        string
	Description string
}

// CreateConcert は新しいコンサートを登録する
func (s *ConcertService) CreateConcert(ctx context.Context, input CreateConcertInput) (*concert.Concert, error) {
	c := concert.NewConcert(input.Name, input.Description)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.concertRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetConcert はIDからコンサートを取得する
func (s *ConcertService) GetConcert(ctx context.Context, id string) (*concert.Concert, error) {
	return s.concertRepo.GetByID(ctx, id)
}

// ListConcerts はコンサート一覧を取得する
func (s *ConcertService) ListConcerts(ctx context.Context, limit, offset int) ([]*concert.Concert, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.concertRepo.List(ctx, limit, offset)
}

// UpdateConcertInput はコンサート更新の入力
type UpdateConcertInput struct {
	Name        string
	Description string
}

// UpdateConcert はコンサート情報を更新する
func (s *ConcertService) UpdateConcert(ctx context.Context, id string, input UpdateConcertInput) (*concert.Concert, error) {
	c, err := s.concertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = input.Name
	c.Description = input.Description
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.concertRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteConcert はコンサートを削除する
func (s *ConcertService) DeleteConcert(ctx context.Context, id string) error {
	if _, err := s.concertRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.concertRepo.Delete(ctx, id)
}
