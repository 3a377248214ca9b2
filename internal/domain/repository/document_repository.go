package repository

import (
	"context"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// DocumentRepository persistence port for generated document versions.
type DocumentRepository interface {
	// LockScope serialises version creation for (fundID, docType) until the surrounding
	// transaction ends.
	LockScope(ctx context.Context, fundID string, docType entity.DocumentType) error
	// MaxVersion returns the highest version_number of the scope, active or not (0 if none).
	MaxVersion(ctx context.Context, fundID string, docType entity.DocumentType) (int, error)
	Insert(ctx context.Context, doc *entity.GeneratedDocument) error
	GetByID(ctx context.Context, id string) (*entity.GeneratedDocument, error)
	// GetLatest returns the active row with the highest version_number, or nil.
	GetLatest(ctx context.Context, fundID string, docType entity.DocumentType) (*entity.GeneratedDocument, error)
	// List returns every version of the scope, newest first.
	List(ctx context.Context, fundID string, docType entity.DocumentType) ([]*entity.GeneratedDocument, error)
	Delete(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
}
