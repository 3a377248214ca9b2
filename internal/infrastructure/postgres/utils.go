package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock, so repositories work inside
// and outside transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// psql builds statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// isUniqueViolation reports a unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// mapWriteErr turns constraint violations into domain conflicts.
func mapWriteErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return domain.Wrap(domain.KindConflict, err, what+" already exists")
	}
	return err
}

// validID guards uuid columns: a malformed id can match no row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullableID(id *string) any {
	if id == nil {
		return nil
	}
	return *id
}
