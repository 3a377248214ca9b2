package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// SurveyRequest public onboarding survey answer for one fund.
type SurveyRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	EntityType      string `json:"entity_type"`
	Address         string `json:"address"`
	BirthDate       string `json:"birth_date"`
	BusinessNumber  string `json:"business_number"`
	InvestmentUnits int    `json:"investment_units"`
}

// Validate implements validation.Validatable.
func (r SurveyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Phone, validation.Required, validation.Length(1, 30)),
		validation.Field(&r.EntityType, validation.Required, validation.In(entity.EntityIndividual, entity.EntityCorporate)),
		validation.Field(&r.Address, validation.Required),
		validation.Field(&r.BirthDate,
			validation.When(r.EntityType == entity.EntityIndividual, validation.Required),
			validation.Date(dateLayout)),
		validation.Field(&r.BusinessNumber,
			validation.When(r.EntityType == entity.EntityCorporate, validation.Required)),
		validation.Field(&r.InvestmentUnits, validation.Required, validation.Min(1)),
	)
}

// SurveyResponse result of a survey submission.
type SurveyResponse struct {
	FundID          string `json:"fund_id"`
	ProfileID       string `json:"profile_id"`
	MemberID        string `json:"member_id"`
	InvestmentUnits int    `json:"investment_units"`
	NewMember       bool   `json:"new_member"`
}
