package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// CreateTemplateRequest a new immutable template version.
type CreateTemplateRequest struct {
	DocumentType string                 `json:"document_type"`
	FundID       *string                `json:"fund_id"`
	Version      string                 `json:"version"` // optional, defaults to the next patch
	Content      entity.TemplateContent `json:"content"`
}

// Validate implements validation.Validatable.
func (r CreateTemplateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DocumentType, validation.Required, validation.By(documentTypeRule)),
		validation.Field(&r.FundID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.Version, validation.Match(semverRe)),
		validation.Field(&r.Content, validation.By(templateContentRule)),
	)
}

// TemplateListRequest query of the template list.
type TemplateListRequest struct {
	DocumentType string `query:"type"`
	FundID       string `query:"fund_id"`
	GlobalOnly   bool   `query:"global"`
}

// TemplateResponse template as returned by the API.
type TemplateResponse struct {
	ID           string                 `json:"id"`
	DocumentType string                 `json:"document_type"`
	Version      string                 `json:"version"`
	FundID       *string                `json:"fund_id"`
	IsActive     bool                   `json:"is_active"`
	Bundled      bool                   `json:"bundled"`
	Content      entity.TemplateContent `json:"content"`
	CreatedBy    string                 `json:"created_by,omitempty"`
	CreatedAt    *time.Time             `json:"created_at,omitempty"`
}

func documentTypeRule(value interface{}) error {
	s, _ := value.(string)
	if s != "" && !entity.DocumentType(s).Valid() {
		return validation.NewError("validation_document_type", "must be one of lpa, personal_info_consent, member_list")
	}
	return nil
}

func templateContentRule(value interface{}) error {
	c, ok := value.(entity.TemplateContent)
	if !ok {
		return nil
	}
	if c.Title == "" {
		return validation.NewError("validation_template_title", "title is required")
	}
	if len(c.Sections) == 0 {
		return validation.NewError("validation_template_sections", "at least one section is required")
	}
	seen := make(map[string]bool, len(c.Sections))
	for _, s := range c.Sections {
		if s.ID == "" {
			return validation.NewError("validation_template_section_id", "every section needs an id")
		}
		if seen[s.ID] {
			return validation.NewError("validation_template_section_dup", "section ids must be unique")
		}
		seen[s.ID] = true
		if s.Table != nil && (s.Table.Source == "" || len(s.Table.Columns) == 0) {
			return validation.NewError("validation_template_table", "tables need a source and columns")
		}
	}
	return nil
}
