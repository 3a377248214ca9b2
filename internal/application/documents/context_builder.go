package documents

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/document"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

var kst = time.FixedZone("KST", 9*60*60)

// BuildOptions per-call options of ContextBuilder.Build.
type BuildOptions struct {
	IsPreview   bool
	GeneratedBy string // profile id of the caller
}

// ContextBuilder assembles the substitution context of a document from the fund, its
// members and its GPs, checking the preconditions of each document type.
type ContextBuilder struct {
	brand    string
	funds    repository.FundRepository
	members  repository.FundMemberRepository
	profiles repository.ProfileRepository
	now      func() time.Time
}

// NewContextBuilder builds a context builder for one brand.
func NewContextBuilder(
	brand string,
	funds repository.FundRepository,
	members repository.FundMemberRepository,
	profiles repository.ProfileRepository,
) *ContextBuilder {
	return &ContextBuilder{brand: brand, funds: funds, members: members, profiles: profiles, now: time.Now}
}

// Build returns the context together with the fund it was built from.
func (b *ContextBuilder) Build(ctx context.Context, docType entity.DocumentType, fundID string, opts BuildOptions) (*document.Context, *entity.Fund, error) {
	if !docType.Valid() {
		return nil, nil, domain.Validation("unknown document type %q", docType)
	}
	fund, err := b.funds.GetByID(ctx, b.brand, fundID)
	if err != nil {
		return nil, nil, fmt.Errorf("load fund: %w", err)
	}
	if fund == nil {
		return nil, nil, domain.NotFound("fund %s not found", fundID)
	}

	rows, err := b.members.ListByFund(ctx, repository.MemberFilter{FundID: fundID})
	if err != nil {
		return nil, nil, fmt.Errorf("load members: %w", err)
	}
	rows = activeMembers(rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})

	switch docType {
	case entity.DocumentLPA:
		if fund.ClosedAt == nil {
			return nil, nil, domain.Validation("fund closing date (closed_at) is not set")
		}
	case entity.DocumentPersonalInfoConsent:
		rows = filterEntity(rows, entity.EntityIndividual)
		if len(rows) == 0 {
			return nil, nil, domain.Validation("fund has no individual members to collect consent from")
		}
	case entity.DocumentMemberList:
		if len(rows) == 0 {
			return nil, nil, domain.Validation("fund has no members")
		}
	}

	gps, err := b.gpNames(ctx, fund.GPIDs)
	if err != nil {
		return nil, nil, err
	}

	par := fund.ParValue
	if par.IsZero() {
		par = entity.DefaultParValue
	}
	now := b.now().UTC()
	c := &document.Context{
		DocumentType:  string(docType),
		Fund:          fundContext(fund, par),
		GPs:           gps,
		Members:       make([]document.MemberContext, 0, len(rows)),
		GeneratedAt:   now,
		GeneratedDate: now.In(kst).Format("2006년 1월 2일"),
		GeneratedBy:   opts.GeneratedBy,
		IsPreview:     opts.IsPreview,
	}
	var units int
	for i, m := range rows {
		c.Members = append(c.Members, memberContext(docType, i+1, m, par))
		units += m.InvestmentUnits
	}
	c.Totals = document.TotalsContext{
		MemberCount: len(rows),
		Units:       units,
		Amount:      document.FormatAmount(par.Mul(decimal.NewFromInt(int64(units)))),
	}
	return c, fund, nil
}

func (b *ContextBuilder) gpNames(ctx context.Context, ids []string) ([]string, error) {
	names := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	profiles, err := b.profiles.ListByIDs(ctx, b.brand, ids)
	if err != nil {
		return nil, fmt.Errorf("load gp profiles: %w", err)
	}
	byID := make(map[string]*entity.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			names = append(names, nfc(p.Name))
		}
	}
	return names, nil
}

func fundContext(f *entity.Fund, par decimal.Decimal) document.FundContext {
	return document.FundContext{
		ID:              f.ID,
		Name:            nfc(f.Name),
		Abbreviation:    nfc(f.Abbreviation),
		Status:          string(f.Status),
		Address:         nfc(f.Address),
		TotalCap:        document.FormatAmount(f.TotalCap),
		InitialCap:      document.FormatAmount(f.InitialCap),
		ParValue:        document.FormatAmount(par),
		PaymentSchedule: nfc(f.PaymentSchedule),
		Duration:        f.Duration,
		ClosedAt:        document.FormatDate(f.ClosedAt),
		Account: document.AccountInfo{
			Bank:   nfc(f.Account.Bank),
			Number: f.Account.Number,
			Holder: nfc(f.Account.Holder),
		},
	}
}

// memberContext keeps only what the document type prints.
func memberContext(docType entity.DocumentType, no int, m *entity.MemberWithProfile, par decimal.Decimal) document.MemberContext {
	mc := document.MemberContext{
		No:          no,
		Name:        nfc(m.Profile.Name),
		EntityType:  m.Profile.EntityType,
		EntityLabel: document.EntityLabel(m.Profile.EntityType),
		Units:       m.InvestmentUnits,
		TotalUnits:  m.TotalUnits,
		Amount:      document.FormatAmount(par.Mul(decimal.NewFromInt(int64(m.InvestmentUnits)))),
	}
	switch docType {
	case entity.DocumentPersonalInfoConsent:
		mc.Email = m.Profile.Email
		mc.Phone = m.Profile.Phone
		mc.Address = nfc(m.Profile.Address)
		mc.BirthDate = m.Profile.BirthDate
	case entity.DocumentMemberList:
		mc.Email = m.Profile.Email
		mc.Phone = m.Profile.Phone
		mc.Address = nfc(m.Profile.Address)
		if m.Profile.EntityType == entity.EntityCorporate {
			mc.BusinessNumber = m.Profile.BusinessNumber
		} else {
			mc.BirthDate = m.Profile.BirthDate
		}
	}
	return mc
}

func activeMembers(rows []*entity.MemberWithProfile) []*entity.MemberWithProfile {
	out := rows[:0:0]
	for _, m := range rows {
		if m.IsActive() {
			out = append(out, m)
		}
	}
	return out
}

func filterEntity(rows []*entity.MemberWithProfile, entityType string) []*entity.MemberWithProfile {
	out := rows[:0:0]
	for _, m := range rows {
		if m.Profile.EntityType == entityType {
			out = append(out, m)
		}
	}
	return out
}

func nfc(s string) string { return norm.NFC.String(s) }
