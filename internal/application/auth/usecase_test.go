package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/auth"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/memory"
)

const brand = "angel"

func newAuth(s *memory.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(brand, s.Profiles, func(email string) bool { return email == "root@club.kr" }, nil)
}

func addProfile(t *testing.T, s *memory.Store, id, email, role string, userID *string) {
	t.Helper()
	require.NoError(t, s.Profiles.Create(context.Background(), &entity.Profile{
		ID: id, Brand: brand, Email: email, Role: role, UserID: userID, CreatedAt: time.Now(),
	}))
}

func TestResolve_ExistingLinkedProfile(t *testing.T) {
	s := memory.NewStore()
	uid := "user-1"
	addProfile(t, s, "p1", "hong@example.com", entity.RoleUser, &uid)

	p, linked, err := newAuth(s).Resolve(context.Background(), ports.TokenIdentity{UserID: uid, Email: "other@example.com"})
	require.NoError(t, err)
	assert.False(t, linked)
	assert.Equal(t, "p1", p.ID)
}

func TestResolve_LinksSurveyProfileByEmail(t *testing.T) {
	s := memory.NewStore()
	addProfile(t, s, "p1", "hong@example.com", entity.RoleUser, nil)

	p, linked, err := newAuth(s).Resolve(context.Background(), ports.TokenIdentity{UserID: "user-9", Email: "HONG@example.com"})
	require.NoError(t, err)
	assert.True(t, linked)
	assert.Equal(t, "p1", p.ID)

	stored, _ := s.Profiles.GetByUserID(context.Background(), brand, "user-9")
	require.NotNil(t, stored)
	assert.Equal(t, "p1", stored.ID)
}

func TestResolve_EmailOwnedByAnotherAccount(t *testing.T) {
	s := memory.NewStore()
	other := "user-1"
	addProfile(t, s, "p1", "hong@example.com", entity.RoleUser, &other)

	_, _, err := newAuth(s).Resolve(context.Background(), ports.TokenIdentity{UserID: "user-2", Email: "hong@example.com"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResolve_CreatesUserProfile(t *testing.T) {
	s := memory.NewStore()
	a := newAuth(s)
	p, linked, err := a.Resolve(context.Background(), ports.TokenIdentity{UserID: "user-3", Email: "new@example.com"})
	require.NoError(t, err)
	assert.True(t, linked)
	assert.Equal(t, entity.RoleUser, p.Role)
	assert.Equal(t, "new", p.Name)

	again, linked, err := a.Resolve(context.Background(), ports.TokenIdentity{UserID: "user-3", Email: "new@example.com"})
	require.NoError(t, err)
	assert.False(t, linked)
	assert.Equal(t, p.ID, again.ID)
}

func TestResolve_RequiresSubjectAndEmail(t *testing.T) {
	a := newAuth(memory.NewStore())
	_, _, err := a.Resolve(context.Background(), ports.TokenIdentity{Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, _, err = a.Resolve(context.Background(), ports.TokenIdentity{UserID: "u"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestActor_SystemAdminRequiresAdminRole(t *testing.T) {
	a := newAuth(memory.NewStore())
	uid := "u"
	actor := a.Actor(&entity.Profile{ID: "p", Email: "root@club.kr", Role: entity.RoleAdmin, UserID: &uid})
	assert.True(t, actor.SystemAdmin)
	assert.Equal(t, "u", actor.UserID)

	actor = a.Actor(&entity.Profile{ID: "p", Email: "root@club.kr", Role: entity.RoleUser})
	assert.False(t, actor.SystemAdmin)

	actor = a.Actor(&entity.Profile{ID: "p", Email: "admin@club.kr", Role: entity.RoleAdmin})
	assert.False(t, actor.SystemAdmin)
	assert.True(t, actor.IsAdmin())
}

func TestMe(t *testing.T) {
	s := memory.NewStore()
	addProfile(t, s, "p1", "root@club.kr", entity.RoleAdmin, nil)
	me, err := newAuth(s).Me(context.Background(), ports.TokenIdentity{UserID: "u-root", Email: "root@club.kr"})
	require.NoError(t, err)
	assert.True(t, me.SystemAdmin)
	assert.True(t, me.Linked)
	assert.True(t, me.Profile.Registered)
}
