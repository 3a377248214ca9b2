package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

// ProfileRepository in-memory repository.ProfileRepository.
type ProfileRepository struct{ s *Store }

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func (r *ProfileRepository) Create(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.profiles[p.ID] = cloneProfile(p)
	return nil
}

func (r *ProfileRepository) GetByID(_ context.Context, brand, id string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	if !ok || p.Brand != brand {
		return nil, nil
	}
	return cloneProfile(p), nil
}

func (r *ProfileRepository) GetByUserID(_ context.Context, brand, userID string) (*entity.Profile, error) {
	return r.find(func(p *entity.Profile) bool {
		return p.Brand == brand && p.UserID != nil && *p.UserID == userID
	}), nil
}

func (r *ProfileRepository) GetByEmail(_ context.Context, brand, email string) (*entity.Profile, error) {
	return r.find(func(p *entity.Profile) bool {
		return p.Brand == brand && strings.EqualFold(p.Email, email)
	}), nil
}

func (r *ProfileRepository) find(match func(*entity.Profile) bool) *entity.Profile {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.profiles {
		if match(p) {
			return cloneProfile(p)
		}
	}
	return nil
}

func (r *ProfileRepository) ListByIDs(_ context.Context, brand string, ids []string) ([]*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Profile
	for _, id := range ids {
		if p, ok := r.s.profiles[id]; ok && p.Brand == brand {
			out = append(out, cloneProfile(p))
		}
	}
	return out, nil
}

func (r *ProfileRepository) List(_ context.Context, filter repository.ProfileFilter) ([]*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.ToLower(filter.Query)
	var out []*entity.Profile
	for _, p := range r.s.profiles {
		if p.Brand != filter.Brand || (filter.Role != "" && p.Role != filter.Role) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Email), q) {
			continue
		}
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *ProfileRepository) Update(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[p.ID]; ok {
		r.s.profiles[p.ID] = cloneProfile(p)
	}
	return nil
}

func (r *ProfileRepository) LinkUser(_ context.Context, profileID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[profileID]
	if !ok || (p.UserID != nil && *p.UserID != "" && *p.UserID != userID) {
		return false, nil
	}
	u := userID
	p.UserID = &u
	return true, nil
}

func cloneProfile(p *entity.Profile) *entity.Profile {
	c := *p
	if p.UserID != nil {
		u := *p.UserID
		c.UserID = &u
	}
	return &c
}
