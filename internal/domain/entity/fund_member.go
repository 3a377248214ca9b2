package entity

import "time"

// FundMember membership of a profile in a fund. DeletedAt marks a soft delete.
type FundMember struct {
	ID              string
	FundID          string
	ProfileID       string
	InvestmentUnits int
	TotalUnits      int
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive reports whether the membership is not soft-deleted.
func (m *FundMember) IsActive() bool { return m.DeletedAt == nil }

// MemberWithProfile membership joined with its profile, as listed to admins and fed into
// document contexts.
type MemberWithProfile struct {
	FundMember
	Profile Profile
}
