package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

var _ repository.TemplateRepository = (*TemplateRepository)(nil)

var templateColumns = []string{
	"id", "document_type", "version", "content", "is_active", "fund_id", "created_by", "created_at",
}

// TemplateRepository implements repository.TemplateRepository on PostgreSQL.
type TemplateRepository struct {
	q Querier
}

// NewTemplateRepository builds the repository over a pool or a transaction.
func NewTemplateRepository(q Querier) *TemplateRepository {
	return &TemplateRepository{q: q}
}

func (r *TemplateRepository) Create(ctx context.Context, t *entity.Template) error {
	query, args, err := psql.Insert("document_templates").
		Columns(templateColumns...).
		Values(t.ID, string(t.DocumentType), t.Version, t.Content, t.IsActive, nullableID(t.FundID), t.CreatedBy, t.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert template: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return mapWriteErr(err, "template version")
	}
	return nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*entity.Template, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *TemplateRepository) GetActive(ctx context.Context, docType entity.DocumentType, fundID *string) (*entity.Template, error) {
	if fundID != nil && !validID(*fundID) {
		return nil, nil
	}
	return r.getOne(ctx, sq.And{scopeOf(docType, fundID), sq.Eq{"is_active": true}})
}

func (r *TemplateRepository) getOne(ctx context.Context, where sq.Sqlizer) (*entity.Template, error) {
	query, args, err := psql.Select(templateColumns...).From("document_templates").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select template: %w", err)
	}
	t, err := scanTemplate(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *TemplateRepository) List(ctx context.Context, f repository.TemplateFilter) ([]*entity.Template, error) {
	b := psql.Select(templateColumns...).From("document_templates").OrderBy("created_at DESC", "id")
	if f.DocumentType != "" {
		b = b.Where(sq.Eq{"document_type": string(f.DocumentType)})
	}
	switch {
	case f.FundID != nil:
		if !validID(*f.FundID) {
			return nil, nil
		}
		b = b.Where(sq.Eq{"fund_id": *f.FundID})
	case f.GlobalOnly:
		b = b.Where(sq.Eq{"fund_id": nil})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list templates: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TemplateRepository) Versions(ctx context.Context, docType entity.DocumentType, fundID *string) ([]string, error) {
	if fundID != nil && !validID(*fundID) {
		return nil, nil
	}
	query, args, err := psql.Select("version").From("document_templates").
		Where(scopeOf(docType, fundID)).
		OrderBy("version").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build template versions: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Activate swaps the active flag inside one transaction. The previous template is switched
// off first so the partial unique index never sees two active rows.
func (r *TemplateRepository) Activate(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.NotFound("template %s not found", id)
	}
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		var docType string
		var fundID *string
		err := tx.QueryRow(ctx, "SELECT document_type, fund_id FROM document_templates WHERE id = $1 FOR UPDATE", id).
			Scan(&docType, &fundID)
		if err != nil {
			if isNoRows(err) {
				return domain.NotFound("template %s not found", id)
			}
			return err
		}

		query, args, err := psql.Update("document_templates").
			Set("is_active", false).
			Where(sq.And{scopeOf(entity.DocumentType(docType), fundID), sq.Eq{"is_active": true}, sq.NotEq{"id": id}}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build deactivate templates: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, "UPDATE document_templates SET is_active = true WHERE id = $1", id); err != nil {
			return mapWriteErr(err, "active template")
		}
		return nil
	})
}

func scopeOf(docType entity.DocumentType, fundID *string) sq.Eq {
	if fundID == nil {
		return sq.Eq{"document_type": string(docType), "fund_id": nil}
	}
	return sq.Eq{"document_type": string(docType), "fund_id": *fundID}
}

func scanTemplate(row pgx.Row) (*entity.Template, error) {
	var t entity.Template
	var docType string
	err := row.Scan(&t.ID, &docType, &t.Version, &t.Content, &t.IsActive, &t.FundID, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.DocumentType = entity.DocumentType(docType)
	return &t, nil
}
