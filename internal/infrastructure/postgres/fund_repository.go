package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

var _ repository.FundRepository = (*FundRepository)(nil)

var fundColumns = []string{
	"f.id", "f.brand", "f.name", "f.abbreviation", "f.status", "f.closed_at", "f.address",
	"f.total_cap", "f.initial_cap", "f.par_value", "f.payment_schedule", "f.duration",
	"f.gp_ids", "f.account", "f.created_at", "f.updated_at",
}

// FundRepository implements repository.FundRepository on PostgreSQL.
type FundRepository struct {
	q Querier
}

// NewFundRepository builds the repository over a pool or a transaction.
func NewFundRepository(q Querier) *FundRepository {
	return &FundRepository{q: q}
}

func (r *FundRepository) Create(ctx context.Context, f *entity.Fund) error {
	query, args, err := psql.Insert("funds").
		Columns("id", "brand", "name", "abbreviation", "status", "closed_at", "address",
			"total_cap", "initial_cap", "par_value", "payment_schedule", "duration",
			"gp_ids", "account", "created_at", "updated_at").
		Values(f.ID, f.Brand, f.Name, f.Abbreviation, string(f.Status), f.ClosedAt, f.Address,
			f.TotalCap, f.InitialCap, f.ParValue, f.PaymentSchedule, f.Duration,
			gpIDs(f.GPIDs), f.Account, f.CreatedAt, f.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert fund: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return mapWriteErr(err, "fund")
	}
	return nil
}

func (r *FundRepository) GetByID(ctx context.Context, brand, id string) (*entity.Fund, error) {
	if !validID(id) {
		return nil, nil
	}
	query, args, err := psql.Select(fundColumns...).From("funds f").
		Where(sq.Eq{"f.id": id, "f.brand": brand}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select fund: %w", err)
	}
	f, err := scanFund(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (r *FundRepository) Update(ctx context.Context, f *entity.Fund) error {
	query, args, err := psql.Update("funds").
		Set("name", f.Name).
		Set("abbreviation", f.Abbreviation).
		Set("status", string(f.Status)).
		Set("closed_at", f.ClosedAt).
		Set("address", f.Address).
		Set("total_cap", f.TotalCap).
		Set("initial_cap", f.InitialCap).
		Set("par_value", f.ParValue).
		Set("payment_schedule", f.PaymentSchedule).
		Set("duration", f.Duration).
		Set("gp_ids", gpIDs(f.GPIDs)).
		Set("account", f.Account).
		Set("updated_at", f.UpdatedAt).
		Where(sq.Eq{"id": f.ID, "brand": f.Brand}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update fund: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return mapWriteErr(err, "fund")
	}
	return nil
}

// Delete removes the fund; memberships, templates and documents cascade.
func (r *FundRepository) Delete(ctx context.Context, brand, id string) error {
	if !validID(id) {
		return nil
	}
	query, args, err := psql.Delete("funds").Where(sq.Eq{"id": id, "brand": brand}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete fund: %w", err)
	}
	_, err = r.q.Exec(ctx, query, args...)
	return err
}

func (r *FundRepository) List(ctx context.Context, filter repository.FundFilter) ([]*entity.Fund, error) {
	b := psql.Select(fundColumns...).From("funds f").
		Where(sq.Eq{"f.brand": filter.Brand}).
		OrderBy("f.created_at DESC", "f.id")
	if filter.Status != "" {
		b = b.Where(sq.Eq{"f.status": string(filter.Status)})
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		b = b.Offset(uint64(filter.Offset))
	}
	return r.list(ctx, b)
}

func (r *FundRepository) ListByProfile(ctx context.Context, brand, profileID string) ([]*entity.Fund, error) {
	if !validID(profileID) {
		return nil, nil
	}
	b := psql.Select(fundColumns...).From("funds f").
		Join("fund_members m ON m.fund_id = f.id").
		Where(sq.Eq{"f.brand": brand, "m.profile_id": profileID, "m.deleted_at": nil}).
		OrderBy("f.created_at DESC", "f.id")
	return r.list(ctx, b)
}

func (r *FundRepository) list(ctx context.Context, b sq.SelectBuilder) ([]*entity.Fund, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list funds: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.Fund
	for rows.Next() {
		f, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFund(row pgx.Row) (*entity.Fund, error) {
	var f entity.Fund
	var status string
	err := row.Scan(&f.ID, &f.Brand, &f.Name, &f.Abbreviation, &status, &f.ClosedAt, &f.Address,
		&f.TotalCap, &f.InitialCap, &f.ParValue, &f.PaymentSchedule, &f.Duration,
		&f.GPIDs, &f.Account, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.Status = entity.FundStatus(status)
	return &f, nil
}

// gpIDs keeps the column NOT NULL for funds without general partners.
func gpIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
