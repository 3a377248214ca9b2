package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

// MemberUseCase admin management of fund memberships.
type MemberUseCase struct {
	brand    string
	funds    repository.FundRepository
	profiles repository.ProfileRepository
	repo     repository.FundMemberRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewMemberUseCase builds the membership use case.
func NewMemberUseCase(brand string, funds repository.FundRepository, profiles repository.ProfileRepository, repo repository.FundMemberRepository, log *logger.Logger) *MemberUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MemberUseCase{brand: brand, funds: funds, profiles: profiles, repo: repo, log: log.Component("members"), now: time.Now}
}

// List lists the members of a fund with unit and amount totals over active members.
func (uc *MemberUseCase) List(ctx context.Context, fundID string, includeDeleted bool) (*dto.MemberListResponse, error) {
	fund, err := uc.fund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.ListByFund(ctx, repository.MemberFilter{FundID: fundID, IncludeDeleted: includeDeleted})
	if err != nil {
		return nil, err
	}
	par := parValue(fund)
	out := &dto.MemberListResponse{Items: make([]dto.MemberResponse, 0, len(rows)), TotalAmount: decimal.Zero}
	for _, m := range rows {
		out.Items = append(out.Items, toMemberResponse(m, par))
		if m.IsActive() {
			out.TotalUnits += m.InvestmentUnits
		}
	}
	out.TotalAmount = unitsAmount(par, out.TotalUnits)
	return out, nil
}

// Add adds a profile to a fund. A soft-deleted membership of the same profile is revived.
func (uc *MemberUseCase) Add(ctx context.Context, actor entity.Actor, fundID string, in dto.AddMemberRequest) (*dto.MemberResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	fund, err := uc.fund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	p, err := uc.profiles.GetByID(ctx, uc.brand, in.ProfileID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("profile %s not found", in.ProfileID)
	}
	total := in.TotalUnits
	if total == 0 {
		total = in.InvestmentUnits
	}
	m, _, err := UpsertMembership(ctx, uc.repo, fundID, p.ID, in.InvestmentUnits, total, uc.now().UTC(), false)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("fund_id", fundID).Str("profile_id", p.ID).Int("units", m.InvestmentUnits).Str("by", actor.ProfileID).Msg("member added")
	out := toMemberResponse(&entity.MemberWithProfile{FundMember: *m, Profile: *p}, parValue(fund))
	return &out, nil
}

// Update changes the units of an active membership.
func (uc *MemberUseCase) Update(ctx context.Context, actor entity.Actor, fundID, memberID string, in dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	fund, err := uc.fund(ctx, fundID)
	if err != nil {
		return nil, err
	}
	m, err := uc.member(ctx, fundID, memberID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, domain.Conflict("member has been removed from the fund")
	}
	if in.InvestmentUnits != nil {
		m.InvestmentUnits = *in.InvestmentUnits
	}
	if in.TotalUnits != nil {
		m.TotalUnits = *in.TotalUnits
	}
	m.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	p, err := uc.profiles.GetByID(ctx, uc.brand, m.ProfileID)
	if err != nil {
		return nil, err
	}
	row := &entity.MemberWithProfile{FundMember: *m}
	if p != nil {
		row.Profile = *p
	}
	uc.log.Info().Str("member_id", m.ID).Int("units", m.InvestmentUnits).Str("by", actor.ProfileID).Msg("member updated")
	out := toMemberResponse(row, parValue(fund))
	return &out, nil
}

// Delete removes a membership. mode is dto.DeleteSoft (default) or dto.DeleteHard; hard
// deletes physically remove the row and are reserved to system admins.
func (uc *MemberUseCase) Delete(ctx context.Context, actor entity.Actor, fundID, memberID, mode string) error {
	if mode == "" {
		mode = dto.DeleteSoft
	}
	if mode != dto.DeleteSoft && mode != dto.DeleteHard {
		return domain.Validation("type must be soft or hard")
	}
	if mode == dto.DeleteHard && !actor.SystemAdmin {
		return domain.Forbidden("only system admins can permanently delete members")
	}
	if _, err := uc.fund(ctx, fundID); err != nil {
		return err
	}
	m, err := uc.member(ctx, fundID, memberID)
	if err != nil {
		return err
	}
	if mode == dto.DeleteHard {
		if err := uc.repo.HardDelete(ctx, m.ID); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
		uc.log.Warn().Str("member_id", m.ID).Str("fund_id", fundID).Str("by", actor.ProfileID).Msg("member permanently deleted")
		return nil
	}
	if !m.IsActive() {
		return nil
	}
	if err := uc.repo.SoftDelete(ctx, m.ID, uc.now().UTC()); err != nil {
		return fmt.Errorf("soft delete member: %w", err)
	}
	uc.log.Info().Str("member_id", m.ID).Str("fund_id", fundID).Str("by", actor.ProfileID).Msg("member removed")
	return nil
}

// IsMember reports whether the profile holds an active membership of the fund.
func (uc *MemberUseCase) IsMember(ctx context.Context, fundID, profileID string) (bool, error) {
	m, err := uc.repo.GetByFundAndProfile(ctx, fundID, profileID)
	if err != nil {
		return false, err
	}
	return m != nil && m.IsActive(), nil
}

func (uc *MemberUseCase) fund(ctx context.Context, id string) (*entity.Fund, error) {
	f, err := uc.funds.GetByID(ctx, uc.brand, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.NotFound("fund %s not found", id)
	}
	return f, nil
}

func (uc *MemberUseCase) member(ctx context.Context, fundID, id string) (*entity.FundMember, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.FundID != fundID {
		return nil, domain.NotFound("member %s not found", id)
	}
	return m, nil
}

// UpsertMembership creates the membership of a profile in a fund, revives a soft-deleted one,
// or (when overwrite is set) updates the units of an active one. It reports whether the
// profile was not an active member before.
func UpsertMembership(
	ctx context.Context,
	repo repository.FundMemberRepository,
	fundID, profileID string,
	units, total int,
	now time.Time,
	overwrite bool,
) (*entity.FundMember, bool, error) {
	m, err := repo.GetByFundAndProfile(ctx, fundID, profileID)
	if err != nil {
		return nil, false, err
	}
	switch {
	case m == nil:
		m = &entity.FundMember{
			ID:              uuid.New().String(),
			FundID:          fundID,
			ProfileID:       profileID,
			InvestmentUnits: units,
			TotalUnits:      total,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := repo.Create(ctx, m); err != nil {
			return nil, false, fmt.Errorf("create member: %w", err)
		}
		return m, true, nil
	case !m.IsActive():
		m.DeletedAt = nil
		m.InvestmentUnits, m.TotalUnits, m.UpdatedAt = units, total, now
		if err := repo.Update(ctx, m); err != nil {
			return nil, false, fmt.Errorf("revive member: %w", err)
		}
		return m, true, nil
	case overwrite:
		m.InvestmentUnits, m.TotalUnits, m.UpdatedAt = units, total, now
		if err := repo.Update(ctx, m); err != nil {
			return nil, false, fmt.Errorf("update member: %w", err)
		}
		return m, false, nil
	default:
		return nil, false, domain.Conflict("profile is already a member of this fund")
	}
}
