package postgres

import (
	"context"
	"fmt"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/documents"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

var _ documents.TxRunner = (*TxRunner)(nil)

// TxRunner runs callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	db Querier
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(db Querier) *TxRunner {
	return &TxRunner{db: db}
}

// RunDocuments begins a transaction, hands fn a document repository bound to it and commits
// when fn succeeds. Advisory locks taken through the repository last until commit or rollback.
func (r *TxRunner) RunDocuments(ctx context.Context, fn func(docs repository.DocumentRepository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewDocumentRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
