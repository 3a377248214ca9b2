package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// BankAccountDTO capital call account.
type BankAccountDTO struct {
	Bank   string `json:"bank"`
	Number string `json:"number"`
	Holder string `json:"holder"`
}

// CreateFundRequest input for creating a fund.
type CreateFundRequest struct {
	Name            string           `json:"name"`
	Abbreviation    string           `json:"abbreviation"`
	Status          string           `json:"status"`
	ClosedAt        string           `json:"closed_at"` // YYYY-MM-DD, optional
	Address         string           `json:"address"`
	TotalCap        decimal.Decimal  `json:"total_cap"`
	InitialCap      decimal.Decimal  `json:"initial_cap"`
	ParValue        *decimal.Decimal `json:"par_value"`
	PaymentSchedule string           `json:"payment_schedule"`
	Duration        int              `json:"duration"`
	GPIDs           []string         `json:"gp_ids"`
	Account         BankAccountDTO   `json:"account"`
}

// Validate implements validation.Validatable.
func (r CreateFundRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Abbreviation, validation.Length(0, 50)),
		validation.Field(&r.Status, validation.By(fundStatusRule)),
		validation.Field(&r.ClosedAt, validation.Date(dateLayout)),
		validation.Field(&r.TotalCap, validation.By(nonNegative)),
		validation.Field(&r.InitialCap, validation.By(nonNegative)),
		validation.Field(&r.Duration, validation.Min(0), validation.Max(50)),
		validation.Field(&r.GPIDs, validation.Each(is.UUID)),
	)
}

// UpdateFundRequest partial update; nil fields are left untouched. Status accepts any valid
// value regardless of the current one.
type UpdateFundRequest struct {
	Name            *string          `json:"name"`
	Abbreviation    *string          `json:"abbreviation"`
	Status          *string          `json:"status"`
	ClosedAt        *string          `json:"closed_at"` // "" clears
	Address         *string          `json:"address"`
	TotalCap        *decimal.Decimal `json:"total_cap"`
	InitialCap      *decimal.Decimal `json:"initial_cap"`
	ParValue        *decimal.Decimal `json:"par_value"`
	PaymentSchedule *string          `json:"payment_schedule"`
	Duration        *int             `json:"duration"`
	GPIDs           *[]string        `json:"gp_ids"`
	Account         *BankAccountDTO  `json:"account"`
}

// Validate implements validation.Validatable.
func (r UpdateFundRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.By(fundStatusRule)),
		validation.Field(&r.ClosedAt, validation.Date(dateLayout)),
		validation.Field(&r.Duration, validation.Min(0), validation.Max(50)),
	)
}

// FundResponse fund as returned to admins and members.
type FundResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Abbreviation    string          `json:"abbreviation"`
	Status          string          `json:"status"`
	ClosedAt        *time.Time      `json:"closed_at"`
	Address         string          `json:"address"`
	TotalCap        decimal.Decimal `json:"total_cap"`
	InitialCap      decimal.Decimal `json:"initial_cap"`
	ParValue        decimal.Decimal `json:"par_value"`
	PaymentSchedule string          `json:"payment_schedule"`
	Duration        int             `json:"duration"`
	GPIDs           []string        `json:"gp_ids"`
	Account         BankAccountDTO  `json:"account"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// FundListResponse page of funds.
type FundListResponse struct {
	Items []FundResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// MyFundResponse a fund seen by one of its members.
type MyFundResponse struct {
	FundResponse
	InvestmentUnits int             `json:"investment_units"`
	TotalUnits      int             `json:"total_units"`
	Amount          decimal.Decimal `json:"amount"`
}

// ParseDate parses an optional YYYY-MM-DD value; "" yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func fundStatusRule(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if s == "" {
		return nil
	}
	if !entity.FundStatus(s).Valid() {
		return validation.NewError("validation_fund_status", "must be one of ready, processing, applied, active, closing, closed")
	}
	return nil
}

func nonNegative(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if ok && d.IsNegative() {
		return validation.NewError("validation_non_negative", "must not be negative")
	}
	return nil
}
