package ecomload

import "context"

// Loader is the main interface for a reset-and-reload run.
type Loader interface {
	// Load creates the schema if absent, clears every table and reloads them
	// from their source files. The returned Summary lists the tables committed
	// before any failure; the error is the first fatal one.
	Load(ctx context.Context, config LoadConfig) (Summary, error)
}

// RowReader produces the typed rows of one table from its source file.
type RowReader interface {
	ReadTable(ctx context.Context, table string) (TableData, error)
}

// Store is a backing store holding one connection for the duration of a run.
// Not safe for concurrent use.
type Store interface {
	// CreateSchema issues every CREATE TABLE IF NOT EXISTS in dependency order.
	CreateSchema(ctx context.Context) error

	// Clear deletes all rows, dependents first.
	Clear(ctx context.Context) error

	// InsertRows inserts rows into table inside one transaction and returns the count.
	InsertRows(ctx context.Context, table string, rows [][]any) (int64, error)

	// RunInTransaction executes fn inside one outer transaction. Every store
	// call fn makes joins that transaction; it commits only if fn returns nil.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases the connection. Safe to call more than once.
	Close() error
}

// StoreOpener opens the backing store described by config.
type StoreOpener func(ctx context.Context, config LoadConfig) (Store, error)

// ReaderOpener builds the RowReader for the data directory named by config.
type ReaderOpener func(ctx context.Context, config LoadConfig) (RowReader, error)
