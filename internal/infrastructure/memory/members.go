package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

// FundMemberRepository in-memory repository.FundMemberRepository.
type FundMemberRepository struct{ s *Store }

var _ repository.FundMemberRepository = (*FundMemberRepository)(nil)

func (r *FundMemberRepository) Create(_ context.Context, m *entity.FundMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.members {
		if x.FundID == m.FundID && x.ProfileID == m.ProfileID {
			return domain.Conflict("profile is already a member of this fund")
		}
	}
	r.s.members[m.ID] = cloneMember(m)
	return nil
}

func (r *FundMemberRepository) GetByID(_ context.Context, id string) (*entity.FundMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, nil
	}
	return cloneMember(m), nil
}

func (r *FundMemberRepository) GetByFundAndProfile(_ context.Context, fundID, profileID string) (*entity.FundMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.members {
		if m.FundID == fundID && m.ProfileID == profileID {
			return cloneMember(m), nil
		}
	}
	return nil, nil
}

func (r *FundMemberRepository) Update(_ context.Context, m *entity.FundMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[m.ID]; ok {
		r.s.members[m.ID] = cloneMember(m)
	}
	return nil
}

func (r *FundMemberRepository) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.members[id]; ok && m.DeletedAt == nil {
		t := at
		m.DeletedAt = &t
		m.UpdatedAt = at
	}
	return nil
}

func (r *FundMemberRepository) HardDelete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.members, id)
	return nil
}

func (r *FundMemberRepository) ListByFund(_ context.Context, filter repository.MemberFilter) ([]*entity.MemberWithProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.MemberWithProfile
	for _, m := range r.s.members {
		if m.FundID != filter.FundID || (!filter.IncludeDeleted && !m.IsActive()) {
			continue
		}
		p, ok := r.s.profiles[m.ProfileID]
		if !ok || (filter.EntityType != "" && p.EntityType != filter.EntityType) {
			continue
		}
		out = append(out, &entity.MemberWithProfile{FundMember: *cloneMember(m), Profile: *cloneProfile(p)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *FundMemberRepository) CountActive(_ context.Context, fundID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, m := range r.s.members {
		if m.FundID == fundID && m.IsActive() {
			n++
		}
	}
	return n, nil
}

func cloneMember(m *entity.FundMember) *entity.FundMember {
	c := *m
	if m.DeletedAt != nil {
		t := *m.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}
