package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

const pdfContentType = "application/pdf"

// NewVersion the inputs of one generated version.
type NewVersion struct {
	Context         json.RawMessage
	Processed       json.RawMessage
	TemplateID      *string
	TemplateVersion string
	PDF             []byte
	CreatedBy       string
}

// VersionStore persists document versions and their PDFs.
type VersionStore struct {
	docs    repository.DocumentRepository
	tx      TxRunner
	storage ports.Storage
	log     *logger.Logger
	now     func() time.Time
}

// NewVersionStore builds a version store.
func NewVersionStore(docs repository.DocumentRepository, tx TxRunner, storage ports.Storage, log *logger.Logger) *VersionStore {
	if log == nil {
		log = logger.Nop()
	}
	return &VersionStore{docs: docs, tx: tx, storage: storage, log: log.Component("version_store"), now: time.Now}
}

// ObjectPath storage key of the PDF of a version.
func ObjectPath(fundID string, docType entity.DocumentType, version int, id string) string {
	return fmt.Sprintf("documents/%s/%s/v%d-%s.pdf", fundID, docType, version, id)
}

// CreateVersion stores a new version numbered one above the highest existing number of the
// scope, inactive rows included. Version creation is serialised per scope.
func (s *VersionStore) CreateVersion(ctx context.Context, fundID string, docType entity.DocumentType, in NewVersion) (*entity.GeneratedDocument, error) {
	var (
		doc      *entity.GeneratedDocument
		uploaded string
	)
	err := s.tx.RunDocuments(ctx, func(docs repository.DocumentRepository) error {
		if err := docs.LockScope(ctx, fundID, docType); err != nil {
			return fmt.Errorf("lock %s/%s: %w", fundID, docType, err)
		}
		top, err := docs.MaxVersion(ctx, fundID, docType)
		if err != nil {
			return fmt.Errorf("max version: %w", err)
		}
		id := uuid.New().String()
		number := top + 1
		path := ObjectPath(fundID, docType, number, id)
		if err := s.storage.Upload(ctx, path, in.PDF, pdfContentType); err != nil {
			return fmt.Errorf("upload pdf: %w", err)
		}
		uploaded = path

		d := &entity.GeneratedDocument{
			ID:                id,
			FundID:            fundID,
			DocumentType:      docType,
			VersionNumber:     number,
			TemplateID:        in.TemplateID,
			TemplateVersion:   in.TemplateVersion,
			GenerationContext: in.Context,
			ProcessedContent:  in.Processed,
			PDFStoragePath:    path,
			IsActive:          true,
			CreatedBy:         in.CreatedBy,
			CreatedAt:         s.now().UTC(),
		}
		if err := docs.Insert(ctx, d); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
		doc = d
		return nil
	})
	if err != nil {
		if uploaded != "" {
			s.removeObject(ctx, uploaded, "")
		}
		return nil, err
	}
	s.log.Info().
		Str("fund_id", fundID).
		Str("document_type", string(docType)).
		Int("version", doc.VersionNumber).
		Str("document_id", doc.ID).
		Msg("document version created")
	return doc, nil
}

// GetLatest returns the latest active version, or nil.
func (s *VersionStore) GetLatest(ctx context.Context, fundID string, docType entity.DocumentType) (*entity.GeneratedDocument, error) {
	return s.docs.GetLatest(ctx, fundID, docType)
}

// ListVersions returns every version of the scope, newest first.
func (s *VersionStore) ListVersions(ctx context.Context, fundID string, docType entity.DocumentType) ([]*entity.GeneratedDocument, error) {
	return s.docs.List(ctx, fundID, docType)
}

// Get returns a version by id or a NotFound error.
func (s *VersionStore) Get(ctx context.Context, id string) (*entity.GeneratedDocument, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		return nil, domain.NotFound("document %s not found", id)
	}
	return doc, nil
}

// DeleteVersion removes a version. Soft-delete types are deactivated unconditionally; other
// types are deleted unless the target is the latest active version. The PDF is removed
// best-effort afterwards.
func (s *VersionStore) DeleteVersion(ctx context.Context, id string) (*entity.GeneratedDocument, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.DocumentType.SoftDelete() {
		if err := s.docs.Deactivate(ctx, id); err != nil {
			return nil, fmt.Errorf("deactivate document: %w", err)
		}
		doc.IsActive = false
	} else {
		err = s.tx.RunDocuments(ctx, func(docs repository.DocumentRepository) error {
			if err := docs.LockScope(ctx, doc.FundID, doc.DocumentType); err != nil {
				return err
			}
			latest, err := docs.GetLatest(ctx, doc.FundID, doc.DocumentType)
			if err != nil {
				return err
			}
			if latest != nil && latest.ID == doc.ID {
				return domain.Conflict("the latest version of a %s cannot be deleted", doc.DocumentType)
			}
			return docs.Delete(ctx, id)
		})
		if err != nil {
			return nil, err
		}
	}
	s.removeObject(ctx, doc.PDFStoragePath, doc.ID)
	return doc, nil
}

// Download returns the PDF bytes of a version. Deactivated versions keep their row but not
// their PDF.
func (s *VersionStore) Download(ctx context.Context, id string) ([]byte, *entity.GeneratedDocument, error) {
	doc, err := s.storedPDF(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.storage.Download(ctx, doc.PDFStoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("download %s: %w", doc.PDFStoragePath, err)
	}
	return data, doc, nil
}

// SignedURL returns a time limited link to the PDF of a version and its expiry.
func (s *VersionStore) SignedURL(ctx context.Context, id string, ttl time.Duration) (string, time.Time, error) {
	doc, err := s.storedPDF(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	url, err := s.storage.SignedURL(ctx, doc.PDFStoragePath, ttl)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s: %w", doc.PDFStoragePath, err)
	}
	return url, s.now().Add(ttl).UTC(), nil
}

// FundObjects returns the storage paths of every version of every document type of a fund.
func (s *VersionStore) FundObjects(ctx context.Context, fundID string) ([]string, error) {
	var paths []string
	for _, docType := range entity.DocumentTypes {
		list, err := s.docs.List(ctx, fundID, docType)
		if err != nil {
			return nil, fmt.Errorf("list %s versions: %w", docType, err)
		}
		for _, d := range list {
			if d.PDFStoragePath != "" {
				paths = append(paths, d.PDFStoragePath)
			}
		}
	}
	return paths, nil
}

// RemoveObjects deletes stored PDFs; failures are logged only.
func (s *VersionStore) RemoveObjects(ctx context.Context, paths []string) {
	for _, p := range paths {
		s.removeObject(ctx, p, "")
	}
}

func (s *VersionStore) storedPDF(ctx context.Context, id string) (*entity.GeneratedDocument, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsActive {
		return nil, domain.NotFound("the PDF of version %d was deleted", doc.VersionNumber)
	}
	return doc, nil
}

// removeObject deletes a stored PDF; failures are logged only.
func (s *VersionStore) removeObject(ctx context.Context, path, documentID string) {
	if path == "" {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.storage.Remove(rctx, path); err != nil {
		s.log.Warn().Err(err).Str("document_id", documentID).Str("path", path).Msg("pdf removal failed")
	}
}
