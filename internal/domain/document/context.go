// Package document holds the pure logic of document generation: the substitution context,
// its normalisation for duplicate detection, template processing and version diffing.
package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Context substitution data for one document. It is stored as the generation_context of a
// version, so it must only carry what the document type needs.
type Context struct {
	DocumentType  string          `json:"document_type"`
	Fund          FundContext     `json:"fund"`
	GPs           []string        `json:"gps"`
	Members       []MemberContext `json:"members"`
	Totals        TotalsContext   `json:"totals"`
	GeneratedAt   time.Time       `json:"generated_at"`
	GeneratedDate string          `json:"generated_date"`
	GeneratedBy   string          `json:"generated_by,omitempty"`
	IsPreview     bool            `json:"is_preview"`
}

// FundContext fund attributes exposed to templates. Amounts are pre-formatted.
type FundContext struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Abbreviation    string      `json:"abbreviation"`
	Status          string      `json:"status"`
	Address         string      `json:"address"`
	TotalCap        string      `json:"total_cap"`
	InitialCap      string      `json:"initial_cap"`
	ParValue        string      `json:"par_value"`
	PaymentSchedule string      `json:"payment_schedule"`
	Duration        int         `json:"duration"`
	ClosedAt        string      `json:"closed_at"`
	Account         AccountInfo `json:"account"`
}

// AccountInfo capital call account.
type AccountInfo struct {
	Bank   string `json:"bank"`
	Number string `json:"number"`
	Holder string `json:"holder"`
}

// MemberContext one member row. Contact fields are only filled for types that need them.
type MemberContext struct {
	No             int    `json:"no"`
	Name           string `json:"name"`
	EntityType     string `json:"entity_type"`
	EntityLabel    string `json:"entity_label"`
	Units          int    `json:"units"`
	TotalUnits     int    `json:"total_units"`
	Amount         string `json:"amount"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	BirthDate      string `json:"birth_date,omitempty"`
	BusinessNumber string `json:"business_number,omitempty"`
}

// TotalsContext aggregates over Members.
type TotalsContext struct {
	MemberCount int    `json:"member_count"`
	Units       int    `json:"units"`
	Amount      string `json:"amount"`
}

// Values returns the context as a generic JSON tree for placeholder lookup.
func (c *Context) Values() (map[string]any, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("document: marshal context: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("document: unmarshal context: %w", err)
	}
	return out, nil
}

var amountPrinter = message.NewPrinter(language.Korean)

// FormatAmount formats a KRW amount with thousands separators, e.g. 1,000,000.
func FormatAmount(d decimal.Decimal) string {
	return amountPrinter.Sprintf("%d", d.Round(0).IntPart())
}

// FormatDate formats a date as YYYY-MM-DD, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// EntityLabel Korean label of an entity type.
func EntityLabel(entityType string) string {
	switch entityType {
	case "individual":
		return "개인"
	case "corporate":
		return "법인"
	default:
		return entityType
	}
}
