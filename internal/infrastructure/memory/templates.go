package memory

import (
	"context"
	"sort"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

// TemplateRepository in-memory repository.TemplateRepository.
type TemplateRepository struct{ s *Store }

var _ repository.TemplateRepository = (*TemplateRepository)(nil)

func (r *TemplateRepository) Create(_ context.Context, t *entity.Template) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.templates {
		if sameScope(x, t.DocumentType, t.FundID) && x.Version == t.Version {
			return domain.Conflict("template version %s already exists", t.Version)
		}
		if t.IsActive && x.IsActive && sameScope(x, t.DocumentType, t.FundID) {
			return domain.Conflict("scope already has an active template")
		}
	}
	r.s.templates[t.ID] = cloneTemplate(t)
	return nil
}

func (r *TemplateRepository) GetByID(_ context.Context, id string) (*entity.Template, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.templates[id]
	if !ok {
		return nil, nil
	}
	return cloneTemplate(t), nil
}

func (r *TemplateRepository) GetActive(_ context.Context, docType entity.DocumentType, fundID *string) (*entity.Template, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.templates {
		if t.IsActive && sameScope(t, docType, fundID) {
			return cloneTemplate(t), nil
		}
	}
	return nil, nil
}

func (r *TemplateRepository) List(_ context.Context, f repository.TemplateFilter) ([]*entity.Template, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Template
	for _, t := range r.s.templates {
		if f.DocumentType != "" && t.DocumentType != f.DocumentType {
			continue
		}
		switch {
		case f.FundID != nil:
			if t.FundID == nil || *t.FundID != *f.FundID {
				continue
			}
		case f.GlobalOnly:
			if t.FundID != nil {
				continue
			}
		}
		out = append(out, cloneTemplate(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *TemplateRepository) Versions(_ context.Context, docType entity.DocumentType, fundID *string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []string
	for _, t := range r.s.templates {
		if sameScope(t, docType, fundID) {
			out = append(out, t.Version)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *TemplateRepository) Activate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target, ok := r.s.templates[id]
	if !ok {
		return domain.NotFound("template %s not found", id)
	}
	for _, t := range r.s.templates {
		if t.IsActive && sameScope(t, target.DocumentType, target.FundID) {
			t.IsActive = false
		}
	}
	target.IsActive = true
	return nil
}

func sameScope(t *entity.Template, docType entity.DocumentType, fundID *string) bool {
	if t.DocumentType != docType {
		return false
	}
	if fundID == nil || *fundID == "" {
		return t.FundID == nil
	}
	return t.FundID != nil && *t.FundID == *fundID
}

func cloneTemplate(t *entity.Template) *entity.Template {
	c := *t
	if t.FundID != nil {
		f := *t.FundID
		c.FundID = &f
	}
	c.Content.Sections = append([]entity.TemplateSection(nil), t.Content.Sections...)
	return &c
}
