package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepository)(nil)

var documentColumns = []string{
	"id", "fund_id", "document_type", "version_number", "template_id", "template_version",
	"generation_context", "processed_content", "pdf_storage_path", "is_active", "created_by", "created_at",
}

// DocumentRepository implements repository.DocumentRepository on PostgreSQL.
type DocumentRepository struct {
	q Querier
}

// NewDocumentRepository builds the repository over a pool or a transaction. LockScope only
// has an effect inside a transaction.
func NewDocumentRepository(q Querier) *DocumentRepository {
	return &DocumentRepository{q: q}
}

// LockScope takes a transaction-scoped advisory lock keyed by fund and type.
func (r *DocumentRepository) LockScope(ctx context.Context, fundID string, docType entity.DocumentType) error {
	_, err := r.q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))", fundID, string(docType))
	if err != nil {
		return fmt.Errorf("lock document scope: %w", err)
	}
	return nil
}

func (r *DocumentRepository) MaxVersion(ctx context.Context, fundID string, docType entity.DocumentType) (int, error) {
	query, args, err := psql.Select("COALESCE(MAX(version_number), 0)").From("generated_documents").
		Where(sq.Eq{"fund_id": fundID, "document_type": string(docType)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build max version: %w", err)
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *DocumentRepository) Insert(ctx context.Context, d *entity.GeneratedDocument) error {
	query, args, err := psql.Insert("generated_documents").
		Columns(documentColumns...).
		Values(d.ID, d.FundID, string(d.DocumentType), d.VersionNumber, nullableID(d.TemplateID), d.TemplateVersion,
			d.GenerationContext, d.ProcessedContent, d.PDFStoragePath, d.IsActive, d.CreatedBy, d.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert document: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return mapWriteErr(err, "document version")
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*entity.GeneratedDocument, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, psql.Select(documentColumns...).From("generated_documents").Where(sq.Eq{"id": id}))
}

func (r *DocumentRepository) GetLatest(ctx context.Context, fundID string, docType entity.DocumentType) (*entity.GeneratedDocument, error) {
	if !validID(fundID) {
		return nil, nil
	}
	return r.getOne(ctx, psql.Select(documentColumns...).From("generated_documents").
		Where(sq.Eq{"fund_id": fundID, "document_type": string(docType), "is_active": true}).
		OrderBy("version_number DESC").
		Limit(1))
}

func (r *DocumentRepository) getOne(ctx context.Context, b sq.SelectBuilder) (*entity.GeneratedDocument, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select document: %w", err)
	}
	d, err := scanDocument(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func (r *DocumentRepository) List(ctx context.Context, fundID string, docType entity.DocumentType) ([]*entity.GeneratedDocument, error) {
	if !validID(fundID) {
		return nil, nil
	}
	query, args, err := psql.Select(documentColumns...).From("generated_documents").
		Where(sq.Eq{"fund_id": fundID, "document_type": string(docType)}).
		OrderBy("version_number DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list documents: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.GeneratedDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, "DELETE FROM generated_documents WHERE id = $1", id)
	return err
}

func (r *DocumentRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, "UPDATE generated_documents SET is_active = false WHERE id = $1", id)
	return err
}

func scanDocument(row pgx.Row) (*entity.GeneratedDocument, error) {
	var d entity.GeneratedDocument
	var docType string
	var genCtx, processed []byte
	err := row.Scan(&d.ID, &d.FundID, &docType, &d.VersionNumber, &d.TemplateID, &d.TemplateVersion,
		&genCtx, &processed, &d.PDFStoragePath, &d.IsActive, &d.CreatedBy, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.DocumentType = entity.DocumentType(docType)
	d.GenerationContext = genCtx
	d.ProcessedContent = processed
	return &d, nil
}
