package repository

import (
	"context"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// ProfileFilter options for listing profiles.
type ProfileFilter struct {
	Brand  string
	Query  string // matches name or email, case-insensitive
	Role   string
	Limit  int
	Offset int
}

// ProfileRepository persistence port for profiles. Getters return (nil, nil) when absent.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, brand, id string) (*entity.Profile, error)
	GetByUserID(ctx context.Context, brand, userID string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, brand, email string) (*entity.Profile, error)
	ListByIDs(ctx context.Context, brand string, ids []string) ([]*entity.Profile, error)
	List(ctx context.Context, filter ProfileFilter) ([]*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	// LinkUser sets user_id on a survey-only profile. Returns false when the profile was
	// already linked by someone else.
	LinkUser(ctx context.Context, profileID, userID string) (bool, error)
}
