package dto

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
)

// PageRequest paging for list endpoints.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize applies defaults and bounds.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse page metadata.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse HTTP error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// validationError turns an ozzo-validation error into a domain validation error.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return domain.Validation("%s", err.Error())
}

// Validate runs ozzo validation on any request that implements validation.Validatable and
// tags the failure as a validation error.
func Validate(v validation.Validatable) error {
	if v == nil {
		return fmt.Errorf("dto: nil request")
	}
	return validationError(v.Validate())
}
