package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/vvka-141/ecomload/internal/schema"
	"github.com/vvka-141/ecomload/pkg/ecomload"
)

// executor is the subset shared by *sql.Conn and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Store implements ecomload.Store over a single pinned database connection.
// Not safe for concurrent use.
type Store struct {
	db       *sql.DB
	conn     *sql.Conn
	dialect  Dialect
	registry *schema.Registry

	closeOnce sync.Once
	closeErr  error
}

// Open connects to the backing store named by cfg and prepares the session.
// For sqlite the store file and its parent directory are created if absent.
// Every failure wraps ecomload.ErrStoreInit.
func Open(ctx context.Context, registry *schema.Registry, cfg ecomload.LoadConfig) (*Store, error) {
	if registry == nil {
		panic("registry cannot be nil")
	}
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ecomload.ErrStoreInit, err)
	}

	var dsn string
	switch dialect.Driver() {
	case ecomload.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("%w: postgres requires a DSN", ecomload.ErrStoreInit)
		}
		dsn = cfg.DSN
	default:
		if err := ensureFile(cfg.DatabasePath); err != nil {
			return nil, fmt.Errorf("%w: %w", ecomload.ErrStoreInit, err)
		}
		dsn = cfg.DatabasePath
	}

	sqlDB, err := sql.Open(dialect.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ecomload.ErrStoreInit, dialect.Driver(), err)
	}
	sqlDB.SetMaxOpenConns(1)

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		_ = sqlDB.Close()
		if dialect.Driver() == ecomload.DriverPostgres {
			err = wrapConnectionError(err, dsn)
		}
		return nil, fmt.Errorf("%w: %w", ecomload.ErrStoreInit, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = sqlDB.Close()
		if dialect.Driver() == ecomload.DriverPostgres {
			err = wrapConnectionError(err, dsn)
		}
		return nil, fmt.Errorf("%w: %w", ecomload.ErrStoreInit, err)
	}

	for _, stmt := range dialect.SessionStatements() {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			_ = sqlDB.Close()
			return nil, fmt.Errorf("%w: %s: %w", ecomload.ErrStoreInit, stmt, err)
		}
	}

	return &Store{db: sqlDB, conn: conn, dialect: dialect, registry: registry}, nil
}

// NewOpener adapts Open to ecomload.StoreOpener.
func NewOpener(registry *schema.Registry) ecomload.StoreOpener {
	if registry == nil {
		panic("registry cannot be nil")
	}
	return func(ctx context.Context, cfg ecomload.LoadConfig) (ecomload.Store, error) {
		s, err := Open(ctx, registry, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func ensureFile(path string) error {
	if path == "" {
		return errors.New("database path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create dirs: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o640)
	if err != nil {
		return fmt.Errorf("create store file: %w", err)
	}
	return f.Close()
}

func (s *Store) executor(ctx context.Context) executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.conn
}

func (s *Store) inTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

// CreateSchema issues every table's CREATE TABLE IF NOT EXISTS in dependency order.
func (s *Store) CreateSchema(ctx context.Context) error {
	ex := s.executor(ctx)
	for i, stmt := range s.registry.CreateStatements(s.dialect) {
		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			return classify(err, "create table %s", s.registry.Order()[i])
		}
	}
	return nil
}

// Clear deletes every row of every table, dependents first.
func (s *Store) Clear(ctx context.Context) error {
	return s.withTx(ctx, func(ctx context.Context, ex executor) error {
		for _, name := range s.registry.ReverseOrder() {
			if _, err := ex.ExecContext(ctx, s.dialect.DeleteStatement(name)); err != nil {
				return classify(err, "clear %s", name)
			}
		}
		return nil
	})
}

// InsertRows inserts rows into table inside one transaction and returns the
// number inserted. A failing row rolls back the whole table.
func (s *Store) InsertRows(ctx context.Context, table string, rows [][]any) (int64, error) {
	t, ok := s.registry.Table(table)
	if !ok {
		return 0, fmt.Errorf("unknown table %q: %w", table, ecomload.ErrInvalidConfig)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var inserted int64
	err := s.withTx(ctx, func(ctx context.Context, ex executor) error {
		stmt, err := ex.PrepareContext(ctx, s.dialect.InsertStatement(t))
		if err != nil {
			return classify(err, "prepare insert into %s", t.Name)
		}
		defer stmt.Close()

		for i, row := range rows {
			if len(row) != len(t.Columns) {
				return fmt.Errorf("%s row %d: got %d values for %d columns: %w",
					t.Name, i+1, len(row), len(t.Columns), ecomload.ErrExecutionFailed)
			}
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return classify(err, "%s row %d", t.Name, i+1)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Count returns the number of rows currently stored in table.
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	if _, ok := s.registry.Table(table); !ok {
		return 0, fmt.Errorf("unknown table %q: %w", table, ecomload.ErrInvalidConfig)
	}
	var n int64
	if err := s.executor(ctx).QueryRowContext(ctx, s.dialect.CountStatement(table)).Scan(&n); err != nil {
		return 0, classify(err, "count %s", table)
	}
	return n, nil
}

// RunInTransaction runs fn inside one outer transaction. Store calls made
// with the context passed to fn join it instead of opening their own.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (retErr error) {
	if s.inTransaction(ctx) {
		return fn(ctx)
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return classify(err, "begin transaction")
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(err, "commit")
	}
	return nil
}

// withTx runs fn in a transaction of its own, or in the caller's outer one.
func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context, ex executor) error) error {
	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		return fn(ctx, s.executor(ctx))
	})
}

// Close releases the pinned connection and the pool. Safe to call twice.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = errors.Join(s.conn.Close(), s.db.Close())
	})
	return s.closeErr
}

var _ ecomload.Store = (*Store)(nil)
