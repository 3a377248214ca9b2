package entity

import "time"

// Roles of a profile.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Entity types of a member.
const (
	EntityIndividual = "individual"
	EntityCorporate  = "corporate"
)

// Profile a person or company known to the club. UserID is nil while the profile only exists
// through the onboarding survey; it is linked when an account with the same email signs in.
type Profile struct {
	ID             string
	Brand          string
	UserID         *string
	Name           string
	Email          string
	Phone          string
	Role           string
	EntityType     string
	Address        string
	BirthDate      string // YYYY-MM-DD, individuals only
	BusinessNumber string // corporates only
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsRegistered reports whether the profile is linked to an account.
func (p *Profile) IsRegistered() bool {
	return p.UserID != nil && *p.UserID != ""
}
