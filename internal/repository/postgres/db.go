package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"taxi/internal/repository"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Querier is the subset of *sql.DB the repositories use. *sql.Tx satisfies
// it as well.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)

	_ repository.UserRepository  = (*UserRepository)(nil)
	_ repository.OrderRepository = (*OrderRepository)(nil)
)

// translateError maps driver errors onto repository sentinels.
func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

// affectedOne returns ErrNotFound when an unconditional update by primary key
// touched no rows.
func affectedOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
