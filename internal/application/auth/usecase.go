package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/usecase"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

// SystemAdminPolicy decides whether an e-mail belongs to a system admin.
type SystemAdminPolicy func(email string) bool

// AuthUseCase turns a verified token identity into the caller's profile.
type AuthUseCase struct {
	brand       string
	profiles    repository.ProfileRepository
	systemAdmin SystemAdminPolicy
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthUseCase builds the auth use case.
func NewAuthUseCase(brand string, profiles repository.ProfileRepository, systemAdmin SystemAdminPolicy, log *logger.Logger) *AuthUseCase {
	if systemAdmin == nil {
		systemAdmin = func(string) bool { return false }
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{brand: brand, profiles: profiles, systemAdmin: systemAdmin, log: log.Component("auth"), now: time.Now}
}

// Resolve returns the profile of the token's user. A profile created through the survey
// with the same e-mail is linked to the account on first sign-in; without one a USER
// profile is created. linked reports whether this call linked or created the profile.
func (uc *AuthUseCase) Resolve(ctx context.Context, id ports.TokenIdentity) (*entity.Profile, bool, error) {
	if id.UserID == "" {
		return nil, false, domain.Unauthenticated("token has no subject")
	}
	p, err := uc.profiles.GetByUserID(ctx, uc.brand, id.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("load profile by user: %w", err)
	}
	if p != nil {
		return p, false, nil
	}
	email := usecase.NormalizeEmail(id.Email)
	if email == "" {
		return nil, false, domain.Unauthenticated("token has no email")
	}

	p, err = uc.profiles.GetByEmail(ctx, uc.brand, email)
	if err != nil {
		return nil, false, fmt.Errorf("load profile by email: %w", err)
	}
	if p != nil {
		if p.IsRegistered() {
			return nil, false, domain.Forbidden("this email is linked to another account")
		}
		ok, err := uc.profiles.LinkUser(ctx, p.ID, id.UserID)
		if err != nil {
			return nil, false, fmt.Errorf("link profile: %w", err)
		}
		if !ok {
			return nil, false, domain.Conflict("profile was linked concurrently, retry")
		}
		userID := id.UserID
		p.UserID = &userID
		uc.log.Info().Str("profile_id", p.ID).Str("user_id", id.UserID).Msg("survey profile linked to account")
		return p, true, nil
	}

	now := uc.now().UTC()
	userID := id.UserID
	p = &entity.Profile{
		ID:         uuid.New().String(),
		Brand:      uc.brand,
		UserID:     &userID,
		Name:       strings.SplitN(email, "@", 2)[0],
		Email:      email,
		Role:       entity.RoleUser,
		EntityType: entity.EntityIndividual,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.profiles.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("create profile: %w", err)
	}
	uc.log.Info().Str("profile_id", p.ID).Str("user_id", id.UserID).Msg("profile created on first sign-in")
	return p, true, nil
}

// Actor builds the use case actor of a resolved profile.
func (uc *AuthUseCase) Actor(p *entity.Profile) entity.Actor {
	a := entity.Actor{ProfileID: p.ID, Email: p.Email, Role: p.Role}
	if p.UserID != nil {
		a.UserID = *p.UserID
	}
	a.SystemAdmin = a.IsAdmin() && uc.systemAdmin(p.Email)
	return a
}

// Me returns the caller's profile.
func (uc *AuthUseCase) Me(ctx context.Context, id ports.TokenIdentity) (*dto.MeResponse, error) {
	p, linked, err := uc.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		Profile:     *usecase.ToProfileResponse(p),
		SystemAdmin: uc.Actor(p).SystemAdmin,
		Linked:      linked,
	}, nil
}
