package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

var _ repository.FundMemberRepository = (*FundMemberRepository)(nil)

var memberColumns = []string{
	"id", "fund_id", "profile_id", "investment_units", "total_units", "deleted_at", "created_at", "updated_at",
}

// FundMemberRepository implements repository.FundMemberRepository on PostgreSQL.
type FundMemberRepository struct {
	q Querier
}

// NewFundMemberRepository builds the repository over a pool or a transaction.
func NewFundMemberRepository(q Querier) *FundMemberRepository {
	return &FundMemberRepository{q: q}
}

func (r *FundMemberRepository) Create(ctx context.Context, m *entity.FundMember) error {
	query, args, err := psql.Insert("fund_members").
		Columns(memberColumns...).
		Values(m.ID, m.FundID, m.ProfileID, m.InvestmentUnits, m.TotalUnits, m.DeletedAt, m.CreatedAt, m.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert member: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return mapWriteErr(err, "membership")
	}
	return nil
}

func (r *FundMemberRepository) GetByID(ctx context.Context, id string) (*entity.FundMember, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *FundMemberRepository) GetByFundAndProfile(ctx context.Context, fundID, profileID string) (*entity.FundMember, error) {
	if !validID(fundID) || !validID(profileID) {
		return nil, nil
	}
	return r.getOne(ctx, sq.Eq{"fund_id": fundID, "profile_id": profileID})
}

func (r *FundMemberRepository) getOne(ctx context.Context, where sq.Eq) (*entity.FundMember, error) {
	query, args, err := psql.Select(memberColumns...).From("fund_members").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select member: %w", err)
	}
	var m entity.FundMember
	err = r.q.QueryRow(ctx, query, args...).Scan(&m.ID, &m.FundID, &m.ProfileID,
		&m.InvestmentUnits, &m.TotalUnits, &m.DeletedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Update writes units and deleted_at, so it also restores a soft-deleted membership.
func (r *FundMemberRepository) Update(ctx context.Context, m *entity.FundMember) error {
	query, args, err := psql.Update("fund_members").
		Set("investment_units", m.InvestmentUnits).
		Set("total_units", m.TotalUnits).
		Set("deleted_at", m.DeletedAt).
		Set("updated_at", m.UpdatedAt).
		Where(sq.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update member: %w", err)
	}
	_, err = r.q.Exec(ctx, query, args...)
	return err
}

func (r *FundMemberRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	if !validID(id) {
		return nil
	}
	query, args, err := psql.Update("fund_members").
		Set("deleted_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete member: %w", err)
	}
	_, err = r.q.Exec(ctx, query, args...)
	return err
}

func (r *FundMemberRepository) HardDelete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	query, args, err := psql.Delete("fund_members").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete member: %w", err)
	}
	_, err = r.q.Exec(ctx, query, args...)
	return err
}

// ListByFund joins each membership with its profile in join order.
func (r *FundMemberRepository) ListByFund(ctx context.Context, filter repository.MemberFilter) ([]*entity.MemberWithProfile, error) {
	if !validID(filter.FundID) {
		return nil, nil
	}
	cols := make([]string, 0, len(memberColumns)+len(profileColumns))
	for _, c := range memberColumns {
		cols = append(cols, "m."+c)
	}
	for _, c := range profileColumns {
		cols = append(cols, "p."+c)
	}
	b := psql.Select(cols...).From("fund_members m").
		Join("profiles p ON p.id = m.profile_id").
		Where(sq.Eq{"m.fund_id": filter.FundID}).
		OrderBy("m.created_at", "m.id")
	if !filter.IncludeDeleted {
		b = b.Where(sq.Eq{"m.deleted_at": nil})
	}
	if filter.EntityType != "" {
		b = b.Where(sq.Eq{"p.entity_type": filter.EntityType})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list members: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.MemberWithProfile
	for rows.Next() {
		mp, err := scanMemberWithProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, mp)
	}
	return out, rows.Err()
}

func (r *FundMemberRepository) CountActive(ctx context.Context, fundID string) (int, error) {
	if !validID(fundID) {
		return 0, nil
	}
	query, args, err := psql.Select("count(*)").From("fund_members").
		Where(sq.Eq{"fund_id": fundID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count members: %w", err)
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanMemberWithProfile(row pgx.Row) (*entity.MemberWithProfile, error) {
	var mp entity.MemberWithProfile
	m, p := &mp.FundMember, &mp.Profile
	err := row.Scan(&m.ID, &m.FundID, &m.ProfileID, &m.InvestmentUnits, &m.TotalUnits,
		&m.DeletedAt, &m.CreatedAt, &m.UpdatedAt,
		&p.ID, &p.Brand, &p.UserID, &p.Name, &p.Email, &p.Phone, &p.Role, &p.EntityType,
		&p.Address, &p.BirthDate, &p.BusinessNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &mp, nil
}
