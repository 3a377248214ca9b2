package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/usecase"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/memory"
)

const brand = "angel"

var (
	admin    = entity.Actor{ProfileID: "p-admin", Role: entity.RoleAdmin}
	sysAdmin = entity.Actor{ProfileID: "p-root", Role: entity.RoleAdmin, SystemAdmin: true}
)

type surveyRecorder struct {
	mu    sync.Mutex
	calls []bool
}

func (r *surveyRecorder) SurveySubmitted(_ *entity.Fund, _ *entity.Profile, _ *entity.FundMember, isNew bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, isNew)
}

type documentRecorder struct {
	paths   map[string][]string
	removed []string
}

func (r *documentRecorder) FundObjects(_ context.Context, fundID string) ([]string, error) {
	return r.paths[fundID], nil
}

func (r *documentRecorder) RemoveObjects(_ context.Context, paths []string) {
	r.removed = append(r.removed, paths...)
}

type env struct {
	store    *memory.Store
	funds    *usecase.FundUseCase
	profiles *usecase.ProfileUseCase
	members  *usecase.MemberUseCase
	survey   *usecase.SurveyUseCase
	notifier *surveyRecorder
	docs     *documentRecorder
}

func newEnv() *env {
	s := memory.NewStore()
	n := &surveyRecorder{}
	d := &documentRecorder{paths: map[string][]string{}}
	return &env{
		store:    s,
		docs:     d,
		funds:    usecase.NewFundUseCase(brand, s.Funds, s.Members, s.Profiles, d, nil),
		profiles: usecase.NewProfileUseCase(brand, s.Profiles, nil),
		members:  usecase.NewMemberUseCase(brand, s.Funds, s.Profiles, s.Members, nil),
		survey:   usecase.NewSurveyUseCase(brand, s.Funds, s.Profiles, s.Members, n, nil),
		notifier: n,
	}
}

func (e *env) createFund(t *testing.T) *dto.FundResponse {
	t.Helper()
	f, err := e.funds.Create(context.Background(), admin, dto.CreateFundRequest{
		Name:       "엔젤 1호 조합",
		TotalCap:   decimal.NewFromInt(100_000_000),
		InitialCap: decimal.NewFromInt(10_000_000),
		Duration:   5,
	})
	require.NoError(t, err)
	return f
}

func survey(email string, units int) dto.SurveyRequest {
	return dto.SurveyRequest{
		Name:            "홍길동",
		Email:           email,
		Phone:           "010-1234-5678",
		EntityType:      entity.EntityIndividual,
		Address:         "서울",
		BirthDate:       "1990-01-01",
		InvestmentUnits: units,
	}
}

func TestFundCreate_Defaults(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	assert.Equal(t, "ready", f.Status)
	assert.True(t, f.ParValue.Equal(entity.DefaultParValue))
	assert.Nil(t, f.ClosedAt)
	assert.Equal(t, []string{}, f.GPIDs)
}

func TestFundCreate_Validation(t *testing.T) {
	e := newEnv()
	_, err := e.funds.Create(context.Background(), admin, dto.CreateFundRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.funds.Create(context.Background(), admin, dto.CreateFundRequest{Name: "x", Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.funds.Create(context.Background(), admin, dto.CreateFundRequest{Name: "x", GPIDs: []string{uuid.New().String()}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "unknown gp profile")
}

func TestFundUpdate_AnyStatusAndClosingDate(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	closed, ready, date := "closed", "ready", "2024-03-01"

	got, err := e.funds.Update(context.Background(), admin, f.ID, dto.UpdateFundRequest{Status: &closed, ClosedAt: &date})
	require.NoError(t, err)
	assert.Equal(t, "closed", got.Status)
	require.NotNil(t, got.ClosedAt)
	assert.Equal(t, "2024-03-01", got.ClosedAt.Format("2006-01-02"))

	// no transition rules
	got, err = e.funds.Update(context.Background(), admin, f.ID, dto.UpdateFundRequest{Status: &ready})
	require.NoError(t, err)
	assert.Equal(t, "ready", got.Status)

	empty := ""
	got, err = e.funds.Update(context.Background(), admin, f.ID, dto.UpdateFundRequest{ClosedAt: &empty})
	require.NoError(t, err)
	assert.Nil(t, got.ClosedAt)
}

func TestFundDelete_SystemAdminOnlyAndNoMembers(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	_, err := e.survey.Submit(context.Background(), f.ID, survey("a@example.com", 1))
	require.NoError(t, err)

	assert.ErrorIs(t, e.funds.Delete(context.Background(), admin, f.ID), domain.ErrForbidden)
	assert.ErrorIs(t, e.funds.Delete(context.Background(), sysAdmin, f.ID), domain.ErrConflict)

	list, err := e.members.List(context.Background(), f.ID, false)
	require.NoError(t, err)
	require.NoError(t, e.members.Delete(context.Background(), admin, f.ID, list.Items[0].ID, ""))
	assert.Empty(t, e.docs.removed, "refused deletes keep the PDFs")

	e.docs.paths[f.ID] = []string{"documents/" + f.ID + "/lpa/v1-a.pdf", "documents/" + f.ID + "/member_list/v1-b.pdf"}
	require.NoError(t, e.funds.Delete(context.Background(), sysAdmin, f.ID))
	_, err = e.funds.Get(context.Background(), f.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ElementsMatch(t, e.docs.paths[f.ID], e.docs.removed)
}

func TestFundList_FilterByStatus(t *testing.T) {
	e := newEnv()
	a := e.createFund(t)
	e.createFund(t)
	active := "active"
	_, err := e.funds.Update(context.Background(), admin, a.ID, dto.UpdateFundRequest{Status: &active})
	require.NoError(t, err)

	all, err := e.funds.List(context.Background(), "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 20, all.Page.Limit)

	only, err := e.funds.List(context.Background(), "active", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, only.Items, 1)
	assert.Equal(t, a.ID, only.Items[0].ID)

	_, err = e.funds.List(context.Background(), "bogus", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSurvey_CreatesProfileAndMembership(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)

	res, err := e.survey.Submit(context.Background(), f.ID, survey("Hong@Example.com", 3))
	require.NoError(t, err)
	assert.True(t, res.NewMember)
	assert.Equal(t, 3, res.InvestmentUnits)

	p, err := e.store.Profiles.GetByEmail(context.Background(), brand, "hong@example.com")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, entity.RoleUser, p.Role)
	assert.Nil(t, p.UserID)
	assert.Equal(t, []bool{true}, e.notifier.calls)
}

func TestSurvey_ResubmissionUpdatesUnitsAndKeepsAccountLink(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	first, err := e.survey.Submit(context.Background(), f.ID, survey("hong@example.com", 3))
	require.NoError(t, err)
	ok, err := e.store.Profiles.LinkUser(context.Background(), first.ProfileID, "user-1")
	require.NoError(t, err)
	require.True(t, ok)

	second, err := e.survey.Submit(context.Background(), f.ID, survey("hong@example.com", 5))
	require.NoError(t, err)
	assert.False(t, second.NewMember)
	assert.Equal(t, first.MemberID, second.MemberID)
	assert.Equal(t, 5, second.InvestmentUnits)

	p, _ := e.store.Profiles.GetByID(context.Background(), brand, first.ProfileID)
	require.NotNil(t, p.UserID)
	assert.Equal(t, "user-1", *p.UserID)
}

func TestSurvey_RevivesSoftDeletedMembership(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	first, err := e.survey.Submit(context.Background(), f.ID, survey("hong@example.com", 3))
	require.NoError(t, err)
	require.NoError(t, e.members.Delete(context.Background(), admin, f.ID, first.MemberID, dto.DeleteSoft))

	again, err := e.survey.Submit(context.Background(), f.ID, survey("hong@example.com", 2))
	require.NoError(t, err)
	assert.True(t, again.NewMember)
	assert.Equal(t, first.MemberID, again.MemberID)

	list, err := e.members.List(context.Background(), f.ID, false)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Nil(t, list.Items[0].DeletedAt)
}

func TestSurvey_ClosedFundRejects(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	closing := "closing"
	_, err := e.funds.Update(context.Background(), admin, f.ID, dto.UpdateFundRequest{Status: &closing})
	require.NoError(t, err)

	_, err = e.survey.Submit(context.Background(), f.ID, survey("hong@example.com", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.survey.Submit(context.Background(), uuid.New().String(), survey("hong@example.com", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSurvey_CorporateNeedsBusinessNumber(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	req := survey("corp@example.com", 1)
	req.EntityType = entity.EntityCorporate
	_, err := e.survey.Submit(context.Background(), f.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req.BusinessNumber = "123-45-67890"
	_, err = e.survey.Submit(context.Background(), f.ID, req)
	assert.NoError(t, err)
}

func TestMemberDelete_SoftAndHard(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	res, err := e.survey.Submit(context.Background(), f.ID, survey("hong@example.com", 3))
	require.NoError(t, err)

	err = e.members.Delete(context.Background(), admin, f.ID, res.MemberID, dto.DeleteHard)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, e.members.Delete(context.Background(), admin, f.ID, res.MemberID, ""))
	m, _ := e.store.Members.GetByID(context.Background(), res.MemberID)
	require.NotNil(t, m)
	assert.NotNil(t, m.DeletedAt)

	withDeleted, err := e.members.List(context.Background(), f.ID, true)
	require.NoError(t, err)
	assert.Len(t, withDeleted.Items, 1)
	assert.Equal(t, 0, withDeleted.TotalUnits)

	require.NoError(t, e.members.Delete(context.Background(), sysAdmin, f.ID, res.MemberID, dto.DeleteHard))
	m, _ = e.store.Members.GetByID(context.Background(), res.MemberID)
	assert.Nil(t, m)

	assert.ErrorIs(t, e.members.Delete(context.Background(), admin, f.ID, res.MemberID, "purge"), domain.ErrInvalidInput)
}

func TestMemberAddAndUpdate(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	p, err := e.profiles.Create(context.Background(), dto.CreateProfileRequest{Name: "김철수", Email: "kim@example.com"})
	require.NoError(t, err)

	m, err := e.members.Add(context.Background(), admin, f.ID, dto.AddMemberRequest{ProfileID: p.ID, InvestmentUnits: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, m.TotalUnits)
	assert.True(t, m.Amount.Equal(decimal.NewFromInt(4_000_000)))

	_, err = e.members.Add(context.Background(), admin, f.ID, dto.AddMemberRequest{ProfileID: p.ID, InvestmentUnits: 1})
	assert.ErrorIs(t, err, domain.ErrConflict)

	units := 6
	m, err = e.members.Update(context.Background(), admin, f.ID, m.ID, dto.UpdateMemberRequest{InvestmentUnits: &units})
	require.NoError(t, err)
	assert.Equal(t, 6, m.InvestmentUnits)

	ok, err := e.members.IsMember(context.Background(), f.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = e.members.Update(context.Background(), admin, uuid.New().String(), m.ID, dto.UpdateMemberRequest{InvestmentUnits: &units})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMyFunds(t *testing.T) {
	e := newEnv()
	f := e.createFund(t)
	e.createFund(t)
	res, err := e.survey.Submit(context.Background(), f.ID, survey("hong@example.com", 2))
	require.NoError(t, err)
	me := entity.Actor{ProfileID: res.ProfileID, Role: entity.RoleUser}

	mine, err := e.funds.ListMine(context.Background(), me)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 2, mine[0].InvestmentUnits)
	assert.True(t, mine[0].Amount.Equal(decimal.NewFromInt(2_000_000)))

	_, err = e.funds.GetMine(context.Background(), me, f.ID)
	require.NoError(t, err)

	require.NoError(t, e.members.Delete(context.Background(), admin, f.ID, res.MemberID, ""))
	_, err = e.funds.GetMine(context.Background(), me, f.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.funds.GetMine(context.Background(), admin, f.ID)
	assert.NoError(t, err, "admins see every fund")
}

func TestProfiles(t *testing.T) {
	e := newEnv()
	p, err := e.profiles.Create(context.Background(), dto.CreateProfileRequest{Name: "김철수", Email: "Kim@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", p.Email)
	assert.Equal(t, entity.RoleUser, p.Role)
	assert.False(t, p.Registered)

	_, err = e.profiles.Create(context.Background(), dto.CreateProfileRequest{Name: "dup", Email: "kim@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	role := entity.RoleAdmin
	got, err := e.profiles.Update(context.Background(), admin, p.ID, dto.UpdateProfileRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)

	self := entity.Actor{ProfileID: p.ID, Role: entity.RoleAdmin}
	user := entity.RoleUser
	_, err = e.profiles.Update(context.Background(), self, p.ID, dto.UpdateProfileRequest{Role: &user})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := e.profiles.List(context.Background(), dto.ProfileListRequest{Query: "kim"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = e.profiles.Get(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
