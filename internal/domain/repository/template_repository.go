package repository

import (
	"context"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// TemplateFilter options for listing templates. FundID nil with GlobalOnly lists global
// templates; FundID nil without GlobalOnly lists every scope.
type TemplateFilter struct {
	DocumentType entity.DocumentType
	FundID       *string
	GlobalOnly   bool
}

// TemplateRepository persistence port for templates. Rows are never updated in place except
// for the is_active flag.
type TemplateRepository interface {
	Create(ctx context.Context, tmpl *entity.Template) error
	GetByID(ctx context.Context, id string) (*entity.Template, error)
	// GetActive returns the active template of exactly this scope (fundID nil = global).
	GetActive(ctx context.Context, docType entity.DocumentType, fundID *string) (*entity.Template, error)
	List(ctx context.Context, filter TemplateFilter) ([]*entity.Template, error)
	// Versions returns every version string of the scope.
	Versions(ctx context.Context, docType entity.DocumentType, fundID *string) ([]string, error)
	// Activate deactivates the active template of the target's scope and activates the target
	// as one atomic step.
	Activate(ctx context.Context, id string) error
}
