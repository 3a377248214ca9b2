package documents_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/documents"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

func TestNextVersion(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, "1.0.0"},
		{[]string{"1.0.0"}, "1.0.1"},
		{[]string{"1.0.9", "1.0.10", "1.0.2"}, "1.0.11"},
		{[]string{"2.0.0", "1.9.9"}, "2.0.1"},
		{[]string{"bundled-1.0.0", "draft"}, "1.0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, documents.NextVersion(tt.in), "%v", tt.in)
	}
}

func sampleContent() entity.TemplateContent {
	return entity.TemplateContent{
		Title:    "{{fund.name}} 조합규약",
		Sections: []entity.TemplateSection{{ID: "art1", Title: "제1조", Body: "{{fund.name}}"}},
	}
}

func TestTemplateCreate_AssignsNextPatchVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := dto.CreateTemplateRequest{DocumentType: "lpa", Content: sampleContent()}

	first, err := f.templates.Create(ctx, f.admin, req)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", first.Version)
	assert.False(t, first.IsActive)

	second, err := f.templates.Create(ctx, f.admin, req)
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", second.Version)

	req.Version = "1.0.1"
	_, err = f.templates.Create(ctx, f.admin, req)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTemplateCreate_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.templates.Create(context.Background(), f.admin, dto.CreateTemplateRequest{DocumentType: "contract", Content: sampleContent()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.templates.Create(context.Background(), f.admin, dto.CreateTemplateRequest{DocumentType: "lpa"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTemplateActivate_SystemAdminOnlyAndSwitchesScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := dto.CreateTemplateRequest{DocumentType: "lpa", Content: sampleContent()}
	a, err := f.templates.Create(ctx, f.admin, req)
	require.NoError(t, err)
	b, err := f.templates.Create(ctx, f.admin, req)
	require.NoError(t, err)

	_, err = f.templates.Activate(ctx, f.admin, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.templates.Activate(ctx, f.sysAdmin, a.ID)
	require.NoError(t, err)
	active, err := f.templates.Active(ctx, entity.DocumentLPA, "")
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)

	_, err = f.templates.Activate(ctx, f.sysAdmin, b.ID)
	require.NoError(t, err)
	active, err = f.templates.Active(ctx, entity.DocumentLPA, f.fund.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)

	got, err := f.templates.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "previous template of the scope is deactivated")

	_, err = f.templates.Activate(ctx, f.sysAdmin, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTemplateActive_FallsBackToBundled(t *testing.T) {
	f := newFixture(t)
	got, err := f.templates.Active(context.Background(), entity.DocumentPersonalInfoConsent, "")
	require.NoError(t, err)
	assert.True(t, got.Bundled)
	assert.Nil(t, got.CreatedAt)
}
