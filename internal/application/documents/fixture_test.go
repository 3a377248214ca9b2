package documents_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/documents"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/memory"
	"github.com/bychung/snusv-angel-club-sub003/internal/infrastructure/templates"
)

const brand = "angel"

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
}

func (r *fakeRenderer) Render(_ context.Context, c entity.ProcessedContent, meta ports.RenderMeta) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	out := "%PDF-1.4 " + c.Title
	if meta.Preview {
		out += " [preview]"
	}
	return []byte(out), nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	docs []*entity.GeneratedDocument
}

func (n *recordingNotifier) DocumentGenerated(_ *entity.Fund, doc *entity.GeneratedDocument) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.docs = append(n.docs, doc)
}

type fixture struct {
	store     *memory.Store
	objects   *memory.ObjectStore
	renderer  *fakeRenderer
	notifier  *recordingNotifier
	resolver  *documents.TemplateResolver
	builder   *documents.ContextBuilder
	versions  *documents.VersionStore
	svc       *documents.Service
	templates *documents.TemplateUseCase
	fund      *entity.Fund
	gp        *entity.Profile
	admin     entity.Actor
	sysAdmin  entity.Actor
	seq       int
}

// tick returns strictly increasing timestamps so member order is deterministic.
func (f *fixture) tick() time.Time {
	f.seq++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		objects:  memory.NewObjectStore(),
		renderer: &fakeRenderer{},
		notifier: &recordingNotifier{},
	}
	f.resolver = documents.NewTemplateResolver(f.store.Templates, templates.MustLoad())
	f.builder = documents.NewContextBuilder(brand, f.store.Funds, f.store.Members, f.store.Profiles)
	f.versions = documents.NewVersionStore(f.store.Documents, f.store, f.objects, nil)
	f.svc = documents.NewService(documents.Deps{
		Brand:    brand,
		Funds:    f.store.Funds,
		Resolver: f.resolver,
		Builder:  f.builder,
		Detector: documents.NewDuplicateDetector(f.store.Documents),
		Store:    f.versions,
		Renderer: f.renderer,
		Notifier: f.notifier,
	})
	f.templates = documents.NewTemplateUseCase(brand, f.store.Templates, f.store.Funds, f.resolver, nil)

	ctx := context.Background()
	f.gp = f.addProfile(t, "업무집행조합원", entity.EntityCorporate)
	closed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f.fund = &entity.Fund{
		ID:         uuid.New().String(),
		Brand:      brand,
		Name:       "스누브이 엔젤클럽 1호 조합",
		Status:     entity.FundStatusActive,
		ClosedAt:   &closed,
		Address:    "서울특별시 관악구 관악로 1",
		TotalCap:   decimal.NewFromInt(100_000_000),
		InitialCap: decimal.NewFromInt(50_000_000),
		ParValue:   entity.DefaultParValue,
		Duration:   5,
		GPIDs:      []string{f.gp.ID},
		Account:    entity.BankAccount{Bank: "신한은행", Number: "110-000-000000", Holder: "스누브이"},
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, f.store.Funds.Create(ctx, f.fund))

	f.admin = entity.Actor{UserID: "u-admin", ProfileID: "p-admin", Role: entity.RoleAdmin}
	f.sysAdmin = entity.Actor{UserID: "u-root", ProfileID: "p-root", Role: entity.RoleAdmin, SystemAdmin: true}
	return f
}

func (f *fixture) addProfile(t *testing.T, name, entityType string) *entity.Profile {
	t.Helper()
	p := &entity.Profile{
		ID:         uuid.New().String(),
		Brand:      brand,
		Name:       name,
		Email:      uuid.New().String()[:8] + "@example.com",
		Phone:      "010-0000-0000",
		Role:       entity.RoleUser,
		EntityType: entityType,
		Address:    "서울",
		BirthDate:  "1990-01-01",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, f.store.Profiles.Create(context.Background(), p))
	return p
}

func (f *fixture) addMember(t *testing.T, name, entityType string, units int) *entity.FundMember {
	t.Helper()
	p := f.addProfile(t, name, entityType)
	m := &entity.FundMember{
		ID:              uuid.New().String(),
		FundID:          f.fund.ID,
		ProfileID:       p.ID,
		InvestmentUnits: units,
		TotalUnits:      units,
		CreatedAt:       f.tick(),
		UpdatedAt:       f.tick(),
	}
	require.NoError(t, f.store.Members.Create(context.Background(), m))
	return m
}

func (f *fixture) generate(t *testing.T, docType entity.DocumentType, force bool) (string, int, bool) {
	t.Helper()
	res, err := f.svc.Generate(context.Background(), f.admin, f.fund.ID, docType, documents.GenerateOptions{Force: force})
	require.NoError(t, err)
	return res.Document.ID, res.Document.VersionNumber, res.Duplicate
}
