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

// FundDocuments the stored PDFs of a fund. Rows go with the fund, objects must be removed
// separately.
type FundDocuments interface {
	FundObjects(ctx context.Context, fundID string) ([]string, error)
	RemoveObjects(ctx context.Context, paths []string)
}

// FundUseCase business rules for funds.
type FundUseCase struct {
	brand    string
	repo     repository.FundRepository
	members  repository.FundMemberRepository
	profiles repository.ProfileRepository
	docs     FundDocuments
	log      *logger.Logger
	now      func() time.Time
}

// NewFundUseCase builds the fund use case.
// docs may be nil, in which case document PDFs are left in storage.
func NewFundUseCase(brand string, repo repository.FundRepository, members repository.FundMemberRepository, profiles repository.ProfileRepository, docs FundDocuments, log *logger.Logger) *FundUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &FundUseCase{brand: brand, repo: repo, members: members, profiles: profiles, docs: docs, log: log.Component("funds"), now: time.Now}
}

// Create creates a fund. Status defaults to ready and the par value to 1,000,000.
func (uc *FundUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateFundRequest) (*dto.FundResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	closedAt, err := dto.ParseDate(in.ClosedAt)
	if err != nil {
		return nil, domain.Validation("closed_at: %v", err)
	}
	if err := uc.checkGPs(ctx, in.GPIDs); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	f := &entity.Fund{
		ID:              uuid.New().String(),
		Brand:           uc.brand,
		Name:            strings.TrimSpace(in.Name),
		Abbreviation:    strings.TrimSpace(in.Abbreviation),
		Status:          entity.FundStatus(in.Status),
		ClosedAt:        closedAt,
		Address:         in.Address,
		TotalCap:        in.TotalCap,
		InitialCap:      in.InitialCap,
		ParValue:        entity.DefaultParValue,
		PaymentSchedule: in.PaymentSchedule,
		Duration:        in.Duration,
		GPIDs:           dedupe(in.GPIDs),
		Account:         entity.BankAccount(in.Account),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if f.Status == "" {
		f.Status = entity.FundStatusReady
	}
	if in.ParValue != nil && in.ParValue.IsPositive() {
		f.ParValue = *in.ParValue
	}
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create fund: %w", err)
	}
	uc.log.Info().Str("fund_id", f.ID).Str("by", actor.ProfileID).Msg("fund created")
	return toFundResponse(f), nil
}

// Update applies a partial update. Any status may follow any other.
func (uc *FundUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateFundRequest) (*dto.FundResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	f, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		f.Name = strings.TrimSpace(*in.Name)
	}
	if in.Abbreviation != nil {
		f.Abbreviation = strings.TrimSpace(*in.Abbreviation)
	}
	if in.Status != nil {
		f.Status = entity.FundStatus(*in.Status)
	}
	if in.ClosedAt != nil {
		if f.ClosedAt, err = dto.ParseDate(*in.ClosedAt); err != nil {
			return nil, domain.Validation("closed_at: %v", err)
		}
	}
	if in.Address != nil {
		f.Address = *in.Address
	}
	if in.TotalCap != nil {
		if in.TotalCap.IsNegative() {
			return nil, domain.Validation("total_cap: must not be negative")
		}
		f.TotalCap = *in.TotalCap
	}
	if in.InitialCap != nil {
		if in.InitialCap.IsNegative() {
			return nil, domain.Validation("initial_cap: must not be negative")
		}
		f.InitialCap = *in.InitialCap
	}
	if in.ParValue != nil {
		if !in.ParValue.IsPositive() {
			return nil, domain.Validation("par_value: must be positive")
		}
		f.ParValue = *in.ParValue
	}
	if in.PaymentSchedule != nil {
		f.PaymentSchedule = *in.PaymentSchedule
	}
	if in.Duration != nil {
		f.Duration = *in.Duration
	}
	if in.GPIDs != nil {
		if err := uc.checkGPs(ctx, *in.GPIDs); err != nil {
			return nil, err
		}
		f.GPIDs = dedupe(*in.GPIDs)
	}
	if in.Account != nil {
		f.Account = entity.BankAccount(*in.Account)
	}
	f.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("update fund: %w", err)
	}
	uc.log.Info().Str("fund_id", f.ID).Str("status", string(f.Status)).Str("by", actor.ProfileID).Msg("fund updated")
	return toFundResponse(f), nil
}

// Get returns a fund.
func (uc *FundUseCase) Get(ctx context.Context, id string) (*dto.FundResponse, error) {
	f, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toFundResponse(f), nil
}

// List lists funds, optionally by status.
func (uc *FundUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.FundListResponse, error) {
	page.Normalize()
	if status != "" && !entity.FundStatus(status).Valid() {
		return nil, domain.Validation("unknown fund status %q", status)
	}
	list, err := uc.repo.List(ctx, repository.FundFilter{
		Brand:  uc.brand,
		Status: entity.FundStatus(status),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.FundResponse, 0, len(list))
	for _, f := range list {
		items = append(items, *toFundResponse(f))
	}
	return &dto.FundListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete removes a fund without active members. System admins only.
func (uc *FundUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.SystemAdmin {
		return domain.Forbidden("only system admins can delete funds")
	}
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	n, err := uc.members.CountActive(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflict("fund still has %d members", n)
	}
	var paths []string
	if uc.docs != nil {
		if paths, err = uc.docs.FundObjects(ctx, id); err != nil {
			return fmt.Errorf("list fund documents: %w", err)
		}
	}
	if err := uc.repo.Delete(ctx, uc.brand, id); err != nil {
		return fmt.Errorf("delete fund: %w", err)
	}
	if len(paths) > 0 {
		uc.docs.RemoveObjects(ctx, paths)
	}
	uc.log.Warn().Str("fund_id", id).Str("by", actor.ProfileID).Int("documents", len(paths)).Msg("fund deleted")
	return nil
}

// ListMine lists the funds the actor is an active member of.
func (uc *FundUseCase) ListMine(ctx context.Context, actor entity.Actor) ([]dto.MyFundResponse, error) {
	funds, err := uc.repo.ListByProfile(ctx, uc.brand, actor.ProfileID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MyFundResponse, 0, len(funds))
	for _, f := range funds {
		m, err := uc.members.GetByFundAndProfile(ctx, f.ID, actor.ProfileID)
		if err != nil {
			return nil, err
		}
		out = append(out, myFund(f, m))
	}
	return out, nil
}

// GetMine returns a fund the actor is an active member of. Admins see every fund.
func (uc *FundUseCase) GetMine(ctx context.Context, actor entity.Actor, id string) (*dto.MyFundResponse, error) {
	f, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := uc.members.GetByFundAndProfile(ctx, id, actor.ProfileID)
	if err != nil {
		return nil, err
	}
	if (m == nil || !m.IsActive()) && !actor.IsAdmin() {
		return nil, domain.Forbidden("not a member of this fund")
	}
	out := myFund(f, m)
	return &out, nil
}

func (uc *FundUseCase) load(ctx context.Context, id string) (*entity.Fund, error) {
	f, err := uc.repo.GetByID(ctx, uc.brand, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.NotFound("fund %s not found", id)
	}
	return f, nil
}

func (uc *FundUseCase) checkGPs(ctx context.Context, ids []string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	found, err := uc.profiles.ListByIDs(ctx, uc.brand, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return domain.Validation("gp_ids: unknown profile")
	}
	return nil
}

func myFund(f *entity.Fund, m *entity.FundMember) dto.MyFundResponse {
	out := dto.MyFundResponse{FundResponse: *toFundResponse(f)}
	if m != nil && m.IsActive() {
		out.InvestmentUnits = m.InvestmentUnits
		out.TotalUnits = m.TotalUnits
		out.Amount = unitsAmount(parValue(f), m.InvestmentUnits)
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
