package documents

import (
	"context"
	"fmt"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

// TemplateResolver picks the template a document is generated from. Lookups are not cached so
// an activation is visible to the next request.
type TemplateResolver struct {
	repo     repository.TemplateRepository
	defaults DefaultTemplates
}

// NewTemplateResolver builds a resolver. defaults may be nil.
func NewTemplateResolver(repo repository.TemplateRepository, defaults DefaultTemplates) *TemplateResolver {
	return &TemplateResolver{repo: repo, defaults: defaults}
}

// Resolve returns the active fund-scoped template, then the active global one, then the
// bundled default for the type.
func (r *TemplateResolver) Resolve(ctx context.Context, docType entity.DocumentType, fundID *string) (*entity.Template, error) {
	if !docType.Valid() {
		return nil, domain.Validation("unknown document type %q", docType)
	}
	if fundID != nil && *fundID != "" {
		t, err := r.repo.GetActive(ctx, docType, fundID)
		if err != nil {
			return nil, fmt.Errorf("resolve fund template: %w", err)
		}
		if t != nil {
			return t, nil
		}
	}
	t, err := r.repo.GetActive(ctx, docType, nil)
	if err != nil {
		return nil, fmt.Errorf("resolve global template: %w", err)
	}
	if t != nil {
		return t, nil
	}
	if r.defaults != nil {
		if t, ok := r.defaults.Default(docType); ok {
			return t, nil
		}
	}
	return nil, domain.NotFound("no active template for %s", docType)
}
