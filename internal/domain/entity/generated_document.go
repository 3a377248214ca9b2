package entity

import (
	"encoding/json"
	"time"
)

// GeneratedDocument one immutable version of a rendered document. VersionNumber grows
// strictly per (FundID, DocumentType); the active row with the highest number is the latest.
type GeneratedDocument struct {
	ID                string
	FundID            string
	DocumentType      DocumentType
	VersionNumber     int
	TemplateID        *string // nil when rendered from a bundled default
	TemplateVersion   string
	GenerationContext json.RawMessage
	ProcessedContent  json.RawMessage
	PDFStoragePath    string
	IsActive          bool
	CreatedBy         string
	CreatedAt         time.Time
}

// ProcessedContent rendered field values of a document, stored as JSON and diffed.
type ProcessedContent struct {
	Title    string             `json:"title"`
	Subtitle string             `json:"subtitle,omitempty"`
	Sections []ProcessedSection `json:"sections"`
	Footer   string             `json:"footer,omitempty"`
}

// ProcessedSection a section after placeholder substitution.
type ProcessedSection struct {
	ID      string     `json:"id"`
	Title   string     `json:"title,omitempty"`
	Body    string     `json:"body,omitempty"`
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}
