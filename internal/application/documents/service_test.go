package documents_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/documents"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

func TestGenerate_SecondIdenticalRequestIsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)

	id1, v1, dup := f.generate(t, entity.DocumentLPA, false)
	assert.False(t, dup)
	assert.Equal(t, 1, v1)

	// a different admin generating the same inputs is still a duplicate
	f.admin.ProfileID = "p-other"
	id2, v2, dup := f.generate(t, entity.DocumentLPA, false)
	assert.True(t, dup)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, v2)

	list, err := f.svc.ListVersions(context.Background(), f.fund.ID, entity.DocumentLPA)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, f.objects.Len())
	assert.Len(t, f.notifier.docs, 1)
}

func TestGenerate_ChangedInputsCreateNewVersion(t *testing.T) {
	f := newFixture(t)
	m := f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	f.generate(t, entity.DocumentMemberList, false)

	m.InvestmentUnits = 12
	require.NoError(t, f.store.Members.Update(context.Background(), m))

	_, v, dup := f.generate(t, entity.DocumentMemberList, false)
	assert.False(t, dup)
	assert.Equal(t, 2, v)
}

func TestGenerate_TemplateChangeCreatesNewVersion(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	f.generate(t, entity.DocumentLPA, false)

	storeTemplate(t, f.store, entity.DocumentLPA, nil, "1.0.0", true)
	_, v, dup := f.generate(t, entity.DocumentLPA, false)
	assert.False(t, dup)
	assert.Equal(t, 2, v)
}

func TestGenerate_FundTemplateWithSameVersionCreatesNewVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)

	global, err := f.templates.Create(ctx, f.admin, dto.CreateTemplateRequest{DocumentType: "lpa", Content: sampleContent()})
	require.NoError(t, err)
	_, err = f.templates.Activate(ctx, f.sysAdmin, global.ID)
	require.NoError(t, err)
	f.generate(t, entity.DocumentLPA, false)

	fundID := f.fund.ID
	scoped, err := f.templates.Create(ctx, f.admin, dto.CreateTemplateRequest{DocumentType: "lpa", FundID: &fundID, Content: sampleContent()})
	require.NoError(t, err)
	require.Equal(t, global.Version, scoped.Version, "versions are numbered per scope")
	_, err = f.templates.Activate(ctx, f.sysAdmin, scoped.ID)
	require.NoError(t, err)

	id, v, dup := f.generate(t, entity.DocumentLPA, false)
	assert.False(t, dup)
	assert.Equal(t, 2, v)
	doc, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc.TemplateID)
	assert.Equal(t, scoped.ID, *doc.TemplateID)

	_, _, dup = f.generate(t, entity.DocumentLPA, false)
	assert.True(t, dup)
}

func TestGenerate_ForceBypassesDuplicateCheck(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	f.generate(t, entity.DocumentLPA, false)
	_, v, dup := f.generate(t, entity.DocumentLPA, true)
	assert.False(t, dup)
	assert.Equal(t, 2, v)
}

func TestGenerate_StoresContextAndProcessedContent(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	id, _, _ := f.generate(t, entity.DocumentLPA, false)

	doc, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, doc.IsLatest)
	assert.Equal(t, "bundled-1.0.0", doc.TemplateVersion)
	assert.Nil(t, doc.TemplateID)

	var processed entity.ProcessedContent
	require.NoError(t, json.Unmarshal(doc.ProcessedContent, &processed))
	assert.Equal(t, f.fund.Name+" 조합규약", processed.Title)

	var ctxMap map[string]any
	require.NoError(t, json.Unmarshal(doc.GenerationContext, &ctxMap))
	assert.Equal(t, "lpa", ctxMap["document_type"])

	pdf, err := f.svc.PDF(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, string(pdf.Data), "%PDF")
	assert.Contains(t, pdf.Name, "_v1.pdf")
}

func TestGenerate_PreconditionFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	f.fund.ClosedAt = nil
	require.NoError(t, f.store.Funds.Update(context.Background(), f.fund))

	_, err := f.svc.Generate(context.Background(), f.admin, f.fund.ID, entity.DocumentLPA, documents.GenerateOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.objects.Len())
	assert.Equal(t, 0, f.renderer.calls)

	closed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f.fund.ClosedAt = &closed
	require.NoError(t, f.store.Funds.Update(context.Background(), f.fund))
	_, v, dup := f.generate(t, entity.DocumentLPA, false)
	assert.False(t, dup)
	assert.Equal(t, 1, v)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	pdf, err := f.svc.Preview(context.Background(), f.admin, f.fund.ID, entity.DocumentMemberList)
	require.NoError(t, err)
	assert.Contains(t, string(pdf.Data), "[preview]")
	assert.Contains(t, pdf.Name, "_preview.pdf")
	assert.Equal(t, 0, f.objects.Len())

	_, err = f.svc.Latest(context.Background(), f.fund.ID, entity.DocumentMemberList)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateVersion_ConcurrentCallsGetDistinctNumbers(t *testing.T) {
	f := newFixture(t)
	const n = 10
	var wg sync.WaitGroup
	numbers := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := f.versions.CreateVersion(context.Background(), f.fund.ID, entity.DocumentLPA, documents.NewVersion{
				Context:   json.RawMessage(fmt.Sprintf(`{"i":%d}`, i)),
				Processed: json.RawMessage(`{}`),
				PDF:       []byte("%PDF"),
			})
			assert.NoError(t, err)
			numbers <- doc.VersionNumber
		}(i)
	}
	wg.Wait()
	close(numbers)
	seen := map[int]bool{}
	for v := range numbers {
		assert.False(t, seen[v], "version %d assigned twice", v)
		seen[v] = true
	}
	for v := 1; v <= n; v++ {
		assert.True(t, seen[v], "missing version %d", v)
	}
}

func TestCreateVersion_FailedInsertRemovesUploadedPDF(t *testing.T) {
	f := newFixture(t)
	f.store.Documents.InsertErr = errors.New("unique violation")
	_, err := f.versions.CreateVersion(context.Background(), f.fund.ID, entity.DocumentLPA, documents.NewVersion{PDF: []byte("%PDF")})
	require.Error(t, err)
	assert.Equal(t, 0, f.objects.Len())
}

func TestCreateVersion_UploadFailureStoresNoRow(t *testing.T) {
	f := newFixture(t)
	f.objects.UploadErr = errors.New("bucket unavailable")
	_, err := f.versions.CreateVersion(context.Background(), f.fund.ID, entity.DocumentLPA, documents.NewVersion{PDF: []byte("%PDF")})
	require.Error(t, err)
	latest, err := f.versions.GetLatest(context.Background(), f.fund.ID, entity.DocumentLPA)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestDelete_LatestHardDeleteVersionIsRefused(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	id1, _, _ := f.generate(t, entity.DocumentLPA, false)

	err := f.svc.Delete(context.Background(), f.admin, id1)
	require.ErrorIs(t, err, domain.ErrConflict)
	list, _ := f.svc.ListVersions(context.Background(), f.fund.ID, entity.DocumentLPA)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, f.objects.Len())
}

func TestDelete_OlderHardDeleteVersionIsRemoved(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	id1, _, _ := f.generate(t, entity.DocumentLPA, false)
	id2, _, _ := f.generate(t, entity.DocumentLPA, true)

	require.NoError(t, f.svc.Delete(context.Background(), f.admin, id1))
	_, err := f.svc.Get(context.Background(), id1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.objects.Len())

	latest, err := f.svc.Latest(context.Background(), f.fund.ID, entity.DocumentLPA)
	require.NoError(t, err)
	assert.Equal(t, id2, latest.ID)

	// version numbers are never reused
	_, v, _ := f.generate(t, entity.DocumentLPA, true)
	assert.Equal(t, 3, v)
}

func TestDelete_SoftDeleteTypeIsUnconditional(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	id1, _, _ := f.generate(t, entity.DocumentMemberList, false)
	f.objects.RemoveErr = errors.New("storage down")

	require.NoError(t, f.svc.Delete(context.Background(), f.admin, id1), "storage failures are swallowed")

	list, err := f.svc.ListVersions(context.Background(), f.fund.ID, entity.DocumentMemberList)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.False(t, list.Items[0].IsActive)
	assert.False(t, list.Items[0].IsLatest)

	_, err = f.svc.Latest(context.Background(), f.fund.ID, entity.DocumentMemberList)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, v, dup := f.generate(t, entity.DocumentMemberList, false)
	assert.False(t, dup, "no active version left to duplicate")
	assert.Equal(t, 2, v)
}

func TestDelete_SoftDeletedVersionHasNoPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	id, _, _ := f.generate(t, entity.DocumentMemberList, false)
	require.NoError(t, f.svc.Delete(ctx, f.admin, id))

	doc, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, doc.IsActive)

	_, err = f.svc.PDF(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = f.svc.SignedURL(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFundObjects_ListsEveryStoredPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	f.generate(t, entity.DocumentLPA, false)
	f.generate(t, entity.DocumentLPA, true)
	f.generate(t, entity.DocumentMemberList, false)

	paths, err := f.versions.FundObjects(ctx, f.fund.ID)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for _, p := range paths {
		assert.True(t, f.objects.Has(p), p)
	}

	f.versions.RemoveObjects(ctx, paths)
	assert.Equal(t, 0, f.objects.Len())
}

func TestListVersions_NewestFirst(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	for i := 0; i < 3; i++ {
		f.generate(t, entity.DocumentLPA, true)
	}
	list, err := f.svc.ListVersions(context.Background(), f.fund.ID, entity.DocumentLPA)
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{list.Items[0].VersionNumber, list.Items[1].VersionNumber, list.Items[2].VersionNumber})
	assert.True(t, list.Items[0].IsLatest)
	assert.False(t, list.Items[1].IsLatest)
}

func TestCompare(t *testing.T) {
	f := newFixture(t)
	m := f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	id1, _, _ := f.generate(t, entity.DocumentMemberList, false)

	same, err := f.svc.Compare(context.Background(), id1, id1)
	require.NoError(t, err)
	assert.Empty(t, same.Changes)

	m.InvestmentUnits = 20
	require.NoError(t, f.store.Members.Update(context.Background(), m))
	id2, _, _ := f.generate(t, entity.DocumentMemberList, false)

	diff, err := f.svc.Compare(context.Background(), id1, id2)
	require.NoError(t, err)
	require.NotEmpty(t, diff.Changes)
	paths := map[string]bool{}
	for _, c := range diff.Changes {
		assert.Equal(t, "modified", string(c.ChangeType))
		paths[c.Path] = true
	}
	assert.True(t, paths["sections[1].rows[0][3]"], "units cell changes: %v", paths)

	_, err = f.svc.Compare(context.Background(), id1, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Compare(context.Background(), "", id1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSignedURL(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "홍길동", entity.EntityIndividual, 10)
	id, _, _ := f.generate(t, entity.DocumentLPA, false)
	res, err := f.svc.SignedURL(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, res.URL, "documents/"+f.fund.ID+"/lpa/v1-"+id+".pdf")
	assert.False(t, res.ExpiresAt.IsZero())
}
