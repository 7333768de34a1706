// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect selects the SQL driver and the few schema differences between backends
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnsupportedDialect = errors.New("unsupported database type")
)

// ParseDialect accepts the DATABASE_TYPE spellings we support
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, s)
}

// Open connects to the database and verifies the connection
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	var conn *sql.DB
	var err error

	switch dialect {
	case Postgres:
		conn, err = sql.Open("postgres", dsn)
	case SQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err == nil {
			// One writer at a time; avoids SQLITE_BUSY on lock upgrades
			conn.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	return conn, nil
}

// sqliteDSN turns on foreign keys and a busy timeout unless the DSN already sets pragmas
func sqliteDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
