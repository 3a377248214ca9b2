package repository

import (
	"context"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// FundFilter options for listing funds.
type FundFilter struct {
	Brand  string
	Status entity.FundStatus // empty = any
	Limit  int
	Offset int
}

// FundRepository persistence port for funds. Getters return (nil, nil) when absent.
type FundRepository interface {
	Create(ctx context.Context, fund *entity.Fund) error
	GetByID(ctx context.Context, brand, id string) (*entity.Fund, error)
	Update(ctx context.Context, fund *entity.Fund) error
	Delete(ctx context.Context, brand, id string) error
	List(ctx context.Context, filter FundFilter) ([]*entity.Fund, error)
	// ListByProfile returns the funds where the profile holds an active membership.
	ListByProfile(ctx context.Context, brand, profileID string) ([]*entity.Fund, error)
}
