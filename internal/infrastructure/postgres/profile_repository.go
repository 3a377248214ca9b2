package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

var profileColumns = []string{
	"id", "brand", "user_id", "name", "email", "phone", "role", "entity_type",
	"address", "birth_date", "business_number", "created_at", "updated_at",
}

// ProfileRepository implements repository.ProfileRepository on PostgreSQL.
type ProfileRepository struct {
	q Querier
}

// NewProfileRepository builds the repository over a pool or a transaction.
func NewProfileRepository(q Querier) *ProfileRepository {
	return &ProfileRepository{q: q}
}

func (r *ProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	query, args, err := psql.Insert("profiles").
		Columns(profileColumns...).
		Values(p.ID, p.Brand, p.UserID, p.Name, p.Email, p.Phone, p.Role, p.EntityType,
			p.Address, p.BirthDate, p.BusinessNumber, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert profile: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return mapWriteErr(err, "profile")
	}
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, brand, id string) (*entity.Profile, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, sq.Eq{"brand": brand, "id": id})
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, brand, userID string) (*entity.Profile, error) {
	return r.getOne(ctx, sq.Eq{"brand": brand, "user_id": userID})
}

// GetByEmail matches case-insensitively, like the unique index.
func (r *ProfileRepository) GetByEmail(ctx context.Context, brand, email string) (*entity.Profile, error) {
	return r.getOne(ctx, sq.And{sq.Eq{"brand": brand}, sq.Expr("lower(email) = lower(?)", email)})
}

func (r *ProfileRepository) getOne(ctx context.Context, where sq.Sqlizer) (*entity.Profile, error) {
	query, args, err := psql.Select(profileColumns...).From("profiles").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile: %w", err)
	}
	p, err := scanProfile(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) ListByIDs(ctx context.Context, brand string, ids []string) ([]*entity.Profile, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}
	query, args, err := psql.Select(profileColumns...).From("profiles").
		Where(sq.Eq{"brand": brand, "id": valid}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list profiles: %w", err)
	}
	return r.query(ctx, query, args)
}

func (r *ProfileRepository) List(ctx context.Context, filter repository.ProfileFilter) ([]*entity.Profile, error) {
	b := psql.Select(profileColumns...).From("profiles").
		Where(sq.Eq{"brand": filter.Brand}).
		OrderBy("name", "id")
	if filter.Role != "" {
		b = b.Where(sq.Eq{"role": filter.Role})
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		b = b.Where(sq.Or{sq.ILike{"name": like}, sq.ILike{"email": like}})
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		b = b.Offset(uint64(filter.Offset))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list profiles: %w", err)
	}
	return r.query(ctx, query, args)
}

func (r *ProfileRepository) query(ctx context.Context, query string, args []any) ([]*entity.Profile, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) Update(ctx context.Context, p *entity.Profile) error {
	query, args, err := psql.Update("profiles").
		Set("user_id", p.UserID).
		Set("name", p.Name).
		Set("email", p.Email).
		Set("phone", p.Phone).
		Set("role", p.Role).
		Set("entity_type", p.EntityType).
		Set("address", p.Address).
		Set("birth_date", p.BirthDate).
		Set("business_number", p.BusinessNumber).
		Set("updated_at", p.UpdatedAt).
		Where(sq.Eq{"id": p.ID, "brand": p.Brand}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return mapWriteErr(err, "profile")
	}
	return nil
}

// LinkUser only claims a profile that is unlinked or already linked to userID.
func (r *ProfileRepository) LinkUser(ctx context.Context, profileID, userID string) (bool, error) {
	if !validID(profileID) {
		return false, nil
	}
	query, args, err := psql.Update("profiles").
		Set("user_id", userID).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": profileID}).
		Where(sq.Or{sq.Eq{"user_id": nil}, sq.Eq{"user_id": ""}, sq.Eq{"user_id": userID}}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build link profile: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, mapWriteErr(err, "account link")
	}
	return tag.RowsAffected() == 1, nil
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var p entity.Profile
	err := row.Scan(&p.ID, &p.Brand, &p.UserID, &p.Name, &p.Email, &p.Phone, &p.Role, &p.EntityType,
		&p.Address, &p.BirthDate, &p.BusinessNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
