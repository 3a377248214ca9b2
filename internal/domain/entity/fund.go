package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundStatus lifecycle label of a fund. Any value may be set by an admin; there are no
// enforced transitions.
type FundStatus string

const (
	FundStatusReady      FundStatus = "ready"
	FundStatusProcessing FundStatus = "processing"
	FundStatusApplied    FundStatus = "applied"
	FundStatusActive     FundStatus = "active"
	FundStatusClosing    FundStatus = "closing"
	FundStatusClosed     FundStatus = "closed"
)

// FundStatuses lists every accepted status.
var FundStatuses = []FundStatus{
	FundStatusReady, FundStatusProcessing, FundStatusApplied,
	FundStatusActive, FundStatusClosing, FundStatusClosed,
}

// Valid reports whether s is a known status.
func (s FundStatus) Valid() bool {
	for _, v := range FundStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// AcceptsSurvey reports whether new members may still apply through the survey.
func (s FundStatus) AcceptsSurvey() bool {
	return s != FundStatusClosing && s != FundStatusClosed
}

// DefaultParValue is the amount of one investment unit (KRW).
var DefaultParValue = decimal.NewFromInt(1_000_000)

// BankAccount capital call account of a fund.
type BankAccount struct {
	Bank   string `json:"bank"`
	Number string `json:"number"`
	Holder string `json:"holder"`
}

// Fund a venture fund (investment association) administered by the club.
type Fund struct {
	ID              string
	Brand           string
	Name            string
	Abbreviation    string
	Status          FundStatus
	ClosedAt        *time.Time // required before the LPA can be generated
	Address         string
	TotalCap        decimal.Decimal
	InitialCap      decimal.Decimal
	ParValue        decimal.Decimal
	PaymentSchedule string
	Duration        int // years
	GPIDs           []string
	Account         BankAccount
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
