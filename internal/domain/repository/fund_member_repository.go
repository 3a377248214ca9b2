package repository

import (
	"context"
	"time"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// MemberFilter options for listing the members of a fund.
type MemberFilter struct {
	FundID         string
	IncludeDeleted bool
	EntityType     string // empty = any
}

// FundMemberRepository persistence port for memberships. Getters return (nil, nil) when absent.
type FundMemberRepository interface {
	Create(ctx context.Context, member *entity.FundMember) error
	GetByID(ctx context.Context, id string) (*entity.FundMember, error)
	// GetByFundAndProfile includes soft-deleted rows.
	GetByFundAndProfile(ctx context.Context, fundID, profileID string) (*entity.FundMember, error)
	Update(ctx context.Context, member *entity.FundMember) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	HardDelete(ctx context.Context, id string) error
	ListByFund(ctx context.Context, filter MemberFilter) ([]*entity.MemberWithProfile, error)
	CountActive(ctx context.Context, fundID string) (int, error)
}
