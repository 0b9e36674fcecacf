package repository

import (
	"context"
	"database/sql"
)

// Querier is the statement surface shared by *sql.DB, *sql.Conn and *sql.Tx.
// Repository methods with a Tx variant accept it so callers can run them
// inside an existing transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Conn)(nil)
	_ Querier = (*sql.Tx)(nil)
)
