package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vvka-141/ecomload/pkg/ecomload"
)

// postgres SQLSTATE class 23: integrity constraint violation
const pgIntegrityClass = "23"

// IsConstraintViolation reports whether err comes from a violated
// foreign-key, primary-key, unique, not-null or check constraint.
func IsConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgIntegrityClass)
	}
	return false
}

// classify wraps a statement failure with the matching ecomload sentinel.
func classify(err error, format string, args ...any) error {
	sentinel := ecomload.ErrExecutionFailed
	if IsConstraintViolation(err) {
		sentinel = ecomload.ErrConstraintViolation
	}
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), sentinel, err)
}

// wrapConnectionError adds guidance to postgres connection failures.
func wrapConnectionError(err error, dsn string) error {
	errStr := strings.ToLower(err.Error())
	target := redactDSN(dsn)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running
  - Wrong host or port in --dsn

Original error: %w`, target, err)

	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf(`cannot resolve host in %s

Possible causes:
  - Hostname is misspelled
  - DNS is not reachable

Original error: %w`, target, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for %s

Check the user and password in --dsn, ECOMLOAD_DSN or DATABASE_URL.

Original error: %w`, target, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database in %s does not exist

Create it first, ecomload only creates tables.

Original error: %w`, target, err)

	default:
		return fmt.Errorf("failed to connect to %s: %w", target, err)
	}
}

// redactDSN hides the password of a URL-style DSN.
func redactDSN(dsn string) string {
	cfg, err := pgconn.ParseConfig(dsn)
	if err != nil {
		return "postgres"
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
}
