package repo

import (
	"context"
	"database/sql"
)

// Querier is the subset of database/sql used by the repositories. Both
// *sql.DB and *sql.Tx satisfy it, so a write can join the caller's open
// transaction and commit or roll back with it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
