package ecomload

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Driver identifies a backing store implementation.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// IsValid returns true if the Driver is a known backing store.
func (d Driver) IsValid() bool {
	return d == DriverSQLite || d == DriverPostgres
}

// S3Config holds the connection settings used when DataDir is an s3:// location.
type S3Config struct {
	Region    string
	Endpoint  string // optional; custom endpoint such as MinIO
	PathStyle bool
}

// LoadConfig contains everything a load run needs. It is built once at
// process start and passed by value; nothing reads ambient state after that.
type LoadConfig struct {
	// DataDir holds one <table>.csv per entity. Either a local directory or s3://bucket/prefix.
	DataDir string

	// Driver selects the backing store.
	Driver Driver

	// DatabasePath is the SQLite store file (DriverSQLite only).
	DatabasePath string

	// DSN is the PostgreSQL connection string (DriverPostgres only).
	DSN string

	// Atomic wraps the clear and every table load in one outer transaction.
	// A failure then leaves the store exactly as it was before the run.
	Atomic bool

	// MetricsFile, when set, receives a Prometheus text exposition of the run.
	MetricsFile string

	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration

	// S3 is used only when DataDir has the s3:// scheme.
	S3 S3Config

	// Verbose enables detailed logging
	Verbose bool
}

// IsS3 reports whether the data directory points at an S3 bucket.
func (c LoadConfig) IsS3() bool {
	return strings.HasPrefix(c.DataDir, S3Scheme)
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c LoadConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, fmt.Errorf("DataDir is required: %w", ErrInvalidConfig))
	}
	if c.IsS3() && strings.Trim(strings.TrimPrefix(c.DataDir, S3Scheme), "/") == "" {
		errs = append(errs, fmt.Errorf("DataDir %q names no bucket: %w", c.DataDir, ErrInvalidConfig))
	}

	if !c.Driver.IsValid() {
		errs = append(errs, fmt.Errorf("unknown driver %q: %w", c.Driver, ErrInvalidConfig))
	}
	if c.Driver == DriverSQLite && strings.TrimSpace(c.DatabasePath) == "" {
		errs = append(errs, fmt.Errorf("DatabasePath is required for the sqlite driver: %w", ErrInvalidConfig))
	}
	if c.Driver == DriverPostgres && strings.TrimSpace(c.DSN) == "" {
		errs = append(errs, fmt.Errorf("DSN is required for the postgres driver: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// TableData is the typed content of one source file.
type TableData struct {
	Table    string
	Source   string  // where the rows were read from, for diagnostics
	Checksum string  // SHA-256 of the raw source bytes
	Rows     [][]any // one tuple per record, aligned to the table's column order
}

// TableResult records how many rows a table received.
type TableResult struct {
	Table    string
	Inserted int64
	Checksum string
}

// Summary is the outcome of a run. Tables holds only fully committed tables,
// in load order.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Tables    []TableResult
}

// Inserted returns the row count recorded for table.
func (s Summary) Inserted(table string) (int64, bool) {
	for _, t := range s.Tables {
		if t.Table == table {
			return t.Inserted, true
		}
	}
	return 0, false
}

// Total returns the number of rows inserted across all tables.
func (s Summary) Total() int64 {
	var n int64
	for _, t := range s.Tables {
		n += t.Inserted
	}
	return n
}
