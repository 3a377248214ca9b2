package memory

import (
	"context"
	"sort"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

// DocumentRepository in-memory repository.DocumentRepository. LockScope is a no-op; callers
// serialise through Store.RunDocuments.
type DocumentRepository struct {
	s *Store
	// InsertErr, when set, is returned by Insert. Tests use it to exercise rollback paths.
	InsertErr error
}

var _ repository.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) LockScope(context.Context, string, entity.DocumentType) error {
	return nil
}

func (r *DocumentRepository) MaxVersion(_ context.Context, fundID string, docType entity.DocumentType) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	top := 0
	for _, d := range r.s.documents {
		if d.FundID == fundID && d.DocumentType == docType && d.VersionNumber > top {
			top = d.VersionNumber
		}
	}
	return top, nil
}

func (r *DocumentRepository) Insert(_ context.Context, doc *entity.GeneratedDocument) error {
	if r.InsertErr != nil {
		return r.InsertErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.documents {
		if d.FundID == doc.FundID && d.DocumentType == doc.DocumentType && d.VersionNumber == doc.VersionNumber {
			return domain.Conflict("version %d already exists", doc.VersionNumber)
		}
	}
	c := *doc
	r.s.documents[doc.ID] = &c
	return nil
}

func (r *DocumentRepository) GetByID(_ context.Context, id string) (*entity.GeneratedDocument, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.documents[id]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

func (r *DocumentRepository) GetLatest(ctx context.Context, fundID string, docType entity.DocumentType) (*entity.GeneratedDocument, error) {
	list, _ := r.List(ctx, fundID, docType)
	for _, d := range list {
		if d.IsActive {
			return d, nil
		}
	}
	return nil, nil
}

func (r *DocumentRepository) List(_ context.Context, fundID string, docType entity.DocumentType) ([]*entity.GeneratedDocument, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.GeneratedDocument
	for _, d := range r.s.documents {
		if d.FundID == fundID && d.DocumentType == docType {
			c := *d
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (r *DocumentRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.documents, id)
	return nil
}

func (r *DocumentRepository) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.documents[id]; ok {
		d.IsActive = false
	}
	return nil
}
