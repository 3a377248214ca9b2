package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

// ProfileUseCase admin management of profiles.
type ProfileUseCase struct {
	brand string
	repo  repository.ProfileRepository
	log   *logger.Logger
	now   func() time.Time
}

// NewProfileUseCase builds the profile use case.
func NewProfileUseCase(brand string, repo repository.ProfileRepository, log *logger.Logger) *ProfileUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileUseCase{brand: brand, repo: repo, log: log.Component("profiles"), now: time.Now}
}

// Create creates a profile that is not linked to any account yet.
func (uc *ProfileUseCase) Create(ctx context.Context, in dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	email := NormalizeEmail(in.Email)
	existing, err := uc.repo.GetByEmail(ctx, uc.brand, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("a profile with email %s already exists", email)
	}
	now := uc.now().UTC()
	p := &entity.Profile{
		ID:             uuid.New().String(),
		Brand:          uc.brand,
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		Phone:          in.Phone,
		Role:           in.Role,
		EntityType:     in.EntityType,
		Address:        in.Address,
		BirthDate:      in.BirthDate,
		BusinessNumber: in.BusinessNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.Role == "" {
		p.Role = entity.RoleUser
	}
	if p.EntityType == "" {
		p.EntityType = entity.EntityIndividual
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return ToProfileResponse(p), nil
}

// Update applies a partial update, including role changes.
func (uc *ProfileUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email != p.Email {
			other, err := uc.repo.GetByEmail(ctx, uc.brand, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != p.ID {
				return nil, domain.Conflict("a profile with email %s already exists", email)
			}
			p.Email = email
		}
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Role != nil && *in.Role != p.Role {
		if p.ID == actor.ProfileID {
			return nil, domain.Forbidden("admins cannot change their own role")
		}
		uc.log.Info().Str("profile_id", p.ID).Str("from", p.Role).Str("to", *in.Role).Str("by", actor.ProfileID).Msg("role changed")
		p.Role = *in.Role
	}
	if in.EntityType != nil {
		p.EntityType = *in.EntityType
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.BirthDate != nil {
		p.BirthDate = *in.BirthDate
	}
	if in.BusinessNumber != nil {
		p.BusinessNumber = *in.BusinessNumber
	}
	p.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return ToProfileResponse(p), nil
}

// Get returns a profile.
func (uc *ProfileUseCase) Get(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProfileResponse(p), nil
}

// List searches profiles by name or email.
func (uc *ProfileUseCase) List(ctx context.Context, in dto.ProfileListRequest) (*dto.ProfileListResponse, error) {
	in.Normalize()
	if in.Role != "" && in.Role != entity.RoleUser && in.Role != entity.RoleAdmin {
		return nil, domain.Validation("unknown role %q", in.Role)
	}
	list, err := uc.repo.List(ctx, repository.ProfileFilter{
		Brand:  uc.brand,
		Query:  strings.TrimSpace(in.Query),
		Role:   in.Role,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProfileResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProfileResponse(p))
	}
	return &dto.ProfileListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

func (uc *ProfileUseCase) load(ctx context.Context, id string) (*entity.Profile, error) {
	p, err := uc.repo.GetByID(ctx, uc.brand, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("profile %s not found", id)
	}
	return p, nil
}

// NormalizeEmail lower-cases and trims an e-mail address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
