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

// SurveyNotifier best-effort notification of a survey submission. Implementations must not
// block the caller.
type SurveyNotifier interface {
	SurveySubmitted(fund *entity.Fund, profile *entity.Profile, member *entity.FundMember, newMember bool)
}

// SurveyUseCase public onboarding survey.
type SurveyUseCase struct {
	brand    string
	funds    repository.FundRepository
	profiles repository.ProfileRepository
	members  repository.FundMemberRepository
	notifier SurveyNotifier
	log      *logger.Logger
	now      func() time.Time
}

// NewSurveyUseCase builds the survey use case. notifier may be nil.
func NewSurveyUseCase(
	brand string,
	funds repository.FundRepository,
	profiles repository.ProfileRepository,
	members repository.FundMemberRepository,
	notifier SurveyNotifier,
	log *logger.Logger,
) *SurveyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SurveyUseCase{
		brand:    brand,
		funds:    funds,
		profiles: profiles,
		members:  members,
		notifier: notifier,
		log:      log.Component("survey"),
		now:      time.Now,
	}
}

// Submit records a survey answer: the profile is matched by e-mail (keeping any linked
// account) and the membership is created, revived or updated with the requested units.
func (uc *SurveyUseCase) Submit(ctx context.Context, fundID string, in dto.SurveyRequest) (*dto.SurveyResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	fund, err := uc.funds.GetByID(ctx, uc.brand, fundID)
	if err != nil {
		return nil, err
	}
	if fund == nil {
		return nil, domain.NotFound("fund %s not found", fundID)
	}
	if !fund.Status.AcceptsSurvey() {
		return nil, domain.Validation("fund is no longer accepting applications")
	}

	now := uc.now().UTC()
	email := NormalizeEmail(in.Email)
	p, err := uc.profiles.GetByEmail(ctx, uc.brand, email)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &entity.Profile{
			ID:        uuid.New().String(),
			Brand:     uc.brand,
			Email:     email,
			Role:      entity.RoleUser,
			CreatedAt: now,
		}
		applySurvey(p, in, now)
		if err := uc.profiles.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	} else {
		applySurvey(p, in, now)
		if err := uc.profiles.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}

	m, isNew, err := UpsertMembership(ctx, uc.members, fund.ID, p.ID, in.InvestmentUnits, in.InvestmentUnits, now, true)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("fund_id", fund.ID).Str("profile_id", p.ID).Int("units", m.InvestmentUnits).Bool("new_member", isNew).Msg("survey submitted")
	if uc.notifier != nil {
		uc.notifier.SurveySubmitted(fund, p, m, isNew)
	}
	return &dto.SurveyResponse{
		FundID:          fund.ID,
		ProfileID:       p.ID,
		MemberID:        m.ID,
		InvestmentUnits: m.InvestmentUnits,
		NewMember:       isNew,
	}, nil
}

func applySurvey(p *entity.Profile, in dto.SurveyRequest, now time.Time) {
	p.Name = strings.TrimSpace(in.Name)
	p.Phone = strings.TrimSpace(in.Phone)
	p.EntityType = in.EntityType
	p.Address = strings.TrimSpace(in.Address)
	if in.EntityType == entity.EntityIndividual {
		p.BirthDate, p.BusinessNumber = in.BirthDate, ""
	} else {
		p.BirthDate, p.BusinessNumber = "", strings.TrimSpace(in.BusinessNumber)
	}
	p.UpdatedAt = now
}
