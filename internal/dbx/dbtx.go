// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal read interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// the placeholder dialect of the connected engine, and Open, which picks the
// database/sql driver for a configured engine.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect describes how bind parameters are written for an engine.
type Dialect int

const (
	// Postgres uses $1, $2, ...
	Postgres Dialect = iota
	// SQLite uses ?.
	SQLite
)

// Driver names accepted in configuration.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Placeholder returns the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// In returns a parenthesised placeholder list for count parameters starting
// at position first, e.g. "($2, $3)".
func (d Dialect) In(first, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.Placeholder(first + i)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Rebind rewrites a query written with $n placeholders for the dialect.
// Queries are authored once in Postgres form.
func (d Dialect) Rebind(query string) string {
	if d == Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			b.WriteByte('?')
			for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
				i++
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// DialectFor maps a configured driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres, "pgx":
		return Postgres, nil
	case DriverSQLite:
		return SQLite, nil
	default:
		return 0, fmt.Errorf("unsupported driver %q", driver)
	}
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to the database and verifies the connection. The recovery
// tool never writes, so callers should point dsn at a read-only role or a
// restored dump.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, 0, err
	}

	name := "pgx"
	if dialect == SQLite {
		name = "sqlite"
	}

	db, err := sqlOpen(name, dsn)
	if err != nil {
		return nil, 0, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, 0, fmt.Errorf("db ping error: %w", err)
	}
	return db, dialect, nil
}
