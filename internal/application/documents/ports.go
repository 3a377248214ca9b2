// Package documents implements versioned legal document generation: template resolution,
// context building, duplicate detection, the version store and version comparison.
package documents

import (
	"context"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

// TxRunner runs fn inside one database transaction with a document repository bound to it.
type TxRunner interface {
	RunDocuments(ctx context.Context, fn func(docs repository.DocumentRepository) error) error
}

// DefaultTemplates bundled templates used when no stored template is active.
type DefaultTemplates interface {
	Default(docType entity.DocumentType) (*entity.Template, bool)
}

// Notifier best-effort notification of a new document version. Implementations must not
// block the caller.
type Notifier interface {
	DocumentGenerated(fund *entity.Fund, doc *entity.GeneratedDocument)
}

type nopNotifier struct{}

func (nopNotifier) DocumentGenerated(*entity.Fund, *entity.GeneratedDocument) {}
