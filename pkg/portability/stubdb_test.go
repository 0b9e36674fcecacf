package portability

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

// stubTable answers queries whose text contains match with a fixed result
// set. Entries are tried in order, first match wins, so more specific
// fragments must be declared before the table names they embed as subqueries.
type stubTable struct {
	match string
	cols  []string
	rows  [][]driver.Value
}

// stubDB is a database/sql driver backed by canned result sets. It records
// every statement so tests can assert what a read-only operation issued.
type stubDB struct {
	tables  []stubTable
	queries []string
	execs   []string
}

func (db *stubDB) lookup(query string) (stubTable, bool) {
	for _, t := range db.tables {
		if strings.Contains(query, t.match) {
			return t, true
		}
	}
	return stubTable{}, false
}

type stubConnector struct{ db *stubDB }

func (c stubConnector) Connect(context.Context) (driver.Conn, error) {
	return &stubConn{db: c.db}, nil
}

func (c stubConnector) Driver() driver.Driver { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through sql.OpenDB")
}

type stubConn struct{ db *stubDB }

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements not supported")
}

func (c *stubConn) Close() error              { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

func (c *stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.db.queries = append(c.db.queries, query)
	t, ok := c.db.lookup(query)
	if !ok {
		return nil, fmt.Errorf("no canned result for query: %s", query)
	}
	return &stubRows{cols: t.cols, rows: t.rows}, nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.db.execs = append(c.db.execs, query)
	return driver.RowsAffected(1), nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	i    int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}

// newStubService wires a Service onto a stub database.
func newStubService(t *testing.T, db *stubDB) *Service {
	t.Helper()
	sqlDB := sql.OpenDB(stubConnector{db: db})
	t.Cleanup(func() { sqlDB.Close() })
	return NewService(sqlDB, nil, nil)
}

// queriesMatching counts recorded queries containing the fragment.
func (db *stubDB) queriesMatching(fragment string) int {
	n := 0
	for _, q := range db.queries {
		if strings.Contains(q, fragment) {
			n++
		}
	}
	return n
}
