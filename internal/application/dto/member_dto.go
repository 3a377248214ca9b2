package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// Member delete modes.
const (
	DeleteSoft = "soft"
	DeleteHard = "hard"
)

// AddMemberRequest adds an existing profile to a fund.
type AddMemberRequest struct {
	ProfileID       string `json:"profile_id"`
	InvestmentUnits int    `json:"investment_units"`
	TotalUnits      int    `json:"total_units"`
}

// Validate implements validation.Validatable.
func (r AddMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProfileID, validation.Required, is.UUID),
		validation.Field(&r.InvestmentUnits, validation.Required, validation.Min(1)),
		validation.Field(&r.TotalUnits, validation.Min(0)),
	)
}

// UpdateMemberRequest changes the units of a membership.
type UpdateMemberRequest struct {
	InvestmentUnits *int `json:"investment_units"`
	TotalUnits      *int `json:"total_units"`
}

// Validate implements validation.Validatable.
func (r UpdateMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InvestmentUnits, validation.NilOrNotEmpty, validation.Min(1)),
		validation.Field(&r.TotalUnits, validation.Min(0)),
	)
}

// MemberResponse membership joined with its profile.
type MemberResponse struct {
	ID              string          `json:"id"`
	FundID          string          `json:"fund_id"`
	ProfileID       string          `json:"profile_id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	EntityType      string          `json:"entity_type"`
	InvestmentUnits int             `json:"investment_units"`
	TotalUnits      int             `json:"total_units"`
	Amount          decimal.Decimal `json:"amount"`
	DeletedAt       *time.Time      `json:"deleted_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// MemberListResponse members of a fund with totals over the active ones.
type MemberListResponse struct {
	Items       []MemberResponse `json:"items"`
	TotalUnits  int              `json:"total_units"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
}
