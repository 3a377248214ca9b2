package entity

// Actor the authenticated caller of a use case.
type Actor struct {
	UserID      string
	ProfileID   string
	Email       string
	Role        string
	SystemAdmin bool // ADMIN whose email is on the system admin allowlist
}

// IsAdmin reports whether the actor has the ADMIN role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
