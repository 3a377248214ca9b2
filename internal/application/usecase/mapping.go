package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

func toFundResponse(f *entity.Fund) *dto.FundResponse {
	if f == nil {
		return nil
	}
	gps := f.GPIDs
	if gps == nil {
		gps = []string{}
	}
	return &dto.FundResponse{
		ID:              f.ID,
		Name:            f.Name,
		Abbreviation:    f.Abbreviation,
		Status:          string(f.Status),
		ClosedAt:        f.ClosedAt,
		Address:         f.Address,
		TotalCap:        f.TotalCap,
		InitialCap:      f.InitialCap,
		ParValue:        f.ParValue,
		PaymentSchedule: f.PaymentSchedule,
		Duration:        f.Duration,
		GPIDs:           gps,
		Account:         dto.BankAccountDTO(f.Account),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// ToProfileResponse maps a profile to its API form.
func ToProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		Role:           p.Role,
		EntityType:     p.EntityType,
		Address:        p.Address,
		BirthDate:      p.BirthDate,
		BusinessNumber: p.BusinessNumber,
		Registered:     p.IsRegistered(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toMemberResponse(m *entity.MemberWithProfile, par decimal.Decimal) dto.MemberResponse {
	return dto.MemberResponse{
		ID:              m.ID,
		FundID:          m.FundID,
		ProfileID:       m.ProfileID,
		Name:            m.Profile.Name,
		Email:           m.Profile.Email,
		Phone:           m.Profile.Phone,
		EntityType:      m.Profile.EntityType,
		InvestmentUnits: m.InvestmentUnits,
		TotalUnits:      m.TotalUnits,
		Amount:          unitsAmount(par, m.InvestmentUnits),
		DeletedAt:       m.DeletedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func parValue(f *entity.Fund) decimal.Decimal {
	if f.ParValue.IsZero() {
		return entity.DefaultParValue
	}
	return f.ParValue
}

func unitsAmount(par decimal.Decimal, units int) decimal.Decimal {
	return par.Mul(decimal.NewFromInt(int64(units)))
}
