package memory

import (
	"context"
	"sort"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

// FundRepository in-memory repository.FundRepository.
type FundRepository struct{ s *Store }

var _ repository.FundRepository = (*FundRepository)(nil)

func (r *FundRepository) Create(_ context.Context, f *entity.Fund) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.funds[f.ID] = cloneFund(f)
	return nil
}

func (r *FundRepository) GetByID(_ context.Context, brand, id string) (*entity.Fund, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.funds[id]
	if !ok || f.Brand != brand {
		return nil, nil
	}
	return cloneFund(f), nil
}

func (r *FundRepository) Update(_ context.Context, f *entity.Fund) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.funds[f.ID]; ok {
		r.s.funds[f.ID] = cloneFund(f)
	}
	return nil
}

func (r *FundRepository) Delete(_ context.Context, brand, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.funds[id]
	if !ok || f.Brand != brand {
		return nil
	}
	delete(r.s.funds, id)
	// mirrors ON DELETE CASCADE
	for mid, m := range r.s.members {
		if m.FundID == id {
			delete(r.s.members, mid)
		}
	}
	for did, d := range r.s.documents {
		if d.FundID == id {
			delete(r.s.documents, did)
		}
	}
	for tid, t := range r.s.templates {
		if t.FundID != nil && *t.FundID == id {
			delete(r.s.templates, tid)
		}
	}
	return nil
}

func (r *FundRepository) List(_ context.Context, filter repository.FundFilter) ([]*entity.Fund, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Fund
	for _, f := range r.s.funds {
		if f.Brand != filter.Brand || (filter.Status != "" && f.Status != filter.Status) {
			continue
		}
		out = append(out, cloneFund(f))
	}
	sortFunds(out)
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *FundRepository) ListByProfile(_ context.Context, brand, profileID string) ([]*entity.Fund, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Fund
	for _, m := range r.s.members {
		if m.ProfileID != profileID || !m.IsActive() {
			continue
		}
		if f, ok := r.s.funds[m.FundID]; ok && f.Brand == brand {
			out = append(out, cloneFund(f))
		}
	}
	sortFunds(out)
	return out, nil
}

func sortFunds(fs []*entity.Fund) {
	sort.Slice(fs, func(i, j int) bool {
		if !fs[i].CreatedAt.Equal(fs[j].CreatedAt) {
			return fs[i].CreatedAt.After(fs[j].CreatedAt)
		}
		return fs[i].ID < fs[j].ID
	})
}

func cloneFund(f *entity.Fund) *entity.Fund {
	c := *f
	c.GPIDs = append([]string(nil), f.GPIDs...)
	if f.ClosedAt != nil {
		t := *f.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}

func page[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
