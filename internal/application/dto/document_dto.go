package dto

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/document"
)

var semverRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// DocumentResponse one generated document version. Context and content are only included
// on the detail endpoint.
type DocumentResponse struct {
	ID                string          `json:"id"`
	FundID            string          `json:"fund_id"`
	DocumentType      string          `json:"document_type"`
	VersionNumber     int             `json:"version_number"`
	TemplateID        *string         `json:"template_id"`
	TemplateVersion   string          `json:"template_version"`
	IsActive          bool            `json:"is_active"`
	IsLatest          bool            `json:"is_latest"`
	CreatedBy         string          `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	GenerationContext json.RawMessage `json:"generation_context,omitempty"`
	ProcessedContent  json.RawMessage `json:"processed_content,omitempty"`
}

// DocumentListResponse versions of one (fund, type), newest first.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
}

// GenerateResponse outcome of a generate request. Duplicate is true when nothing changed since
// the latest version, in which case Document is that version.
type GenerateResponse struct {
	Duplicate bool             `json:"duplicate"`
	Document  DocumentResponse `json:"document"`
}

// DiffResponse field-level difference between two versions.
type DiffResponse struct {
	From    DocumentResponse  `json:"from"`
	To      DocumentResponse  `json:"to"`
	Changes []document.Change `json:"changes"`
}

// SignedURLResponse time limited download link.
type SignedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
