// Package repositories holds the pgx-backed data access layer and the
// sentinel errors shared with the service and handler layers. ErrNotFound
// deliberately covers both "row absent" and "row exists but is in the wrong
// state": a guarded UPDATE that touches zero rows reports the same error as a
// lookup miss, and handlers translate both to 404.
package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when an entity is absent or its current status
// fails an operation's precondition. Handlers translate it to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned for malformed or forbidden field values, such as
// resolving a request to a non-terminal status. Handlers translate it to 400.
var ErrValidation = errors.New("validation failed")

// ErrConflict is returned when an insert collides with existing state, such
// as registering an already-taken username. Handlers translate it to 400.
var ErrConflict = errors.New("conflict")

// Database is the slice of pgxpool.Pool the repositories depend on.
// pgxmock's pool satisfies it as well.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Querier is the executor passed to methods that must run inside a caller
// supplied transaction. Both pgx.Tx and Database satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
