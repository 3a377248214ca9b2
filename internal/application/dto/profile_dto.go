package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// CreateProfileRequest admin creation of a survey-only profile.
type CreateProfileRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	EntityType     string `json:"entity_type"`
	Address        string `json:"address"`
	BirthDate      string `json:"birth_date"`
	BusinessNumber string `json:"business_number"`
}

// Validate implements validation.Validatable.
func (r CreateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Phone, validation.Length(0, 30)),
		validation.Field(&r.Role, validation.In(entity.RoleUser, entity.RoleAdmin)),
		validation.Field(&r.EntityType, validation.In(entity.EntityIndividual, entity.EntityCorporate)),
		validation.Field(&r.BirthDate, validation.Date(dateLayout)),
	)
}

// UpdateProfileRequest partial update of a profile.
type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Role           *string `json:"role"`
	EntityType     *string `json:"entity_type"`
	Address        *string `json:"address"`
	BirthDate      *string `json:"birth_date"`
	BusinessNumber *string `json:"business_number"`
}

// Validate implements validation.Validatable.
func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.Role, validation.In(entity.RoleUser, entity.RoleAdmin)),
		validation.Field(&r.EntityType, validation.In(entity.EntityIndividual, entity.EntityCorporate)),
		validation.Field(&r.BirthDate, validation.Date(dateLayout)),
	)
}

// ProfileListRequest query of the profile search.
type ProfileListRequest struct {
	PageRequest
	Query string `query:"q"`
	Role  string `query:"role"`
}

// ProfileResponse profile as returned by the API.
type ProfileResponse struct {
	ID             string    `json:"id"`
	UserID         *string   `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	EntityType     string    `json:"entity_type"`
	Address        string    `json:"address"`
	BirthDate      string    `json:"birth_date,omitempty"`
	BusinessNumber string    `json:"business_number,omitempty"`
	Registered     bool      `json:"registered"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileListResponse page of profiles.
type ProfileListResponse struct {
	Items []ProfileResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// MeResponse the caller's own profile and flags.
type MeResponse struct {
	Profile     ProfileResponse `json:"profile"`
	SystemAdmin bool            `json:"system_admin"`
	Linked      bool            `json:"linked"` // true when this request linked a survey profile
}
