package ecomload

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (unknown flags, bad values)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitStoreError      = 11 // Backing store could not be created or opened
	ExitSourceError     = 12 // Source file missing or unreadable
	ExitCoercionError   = 13 // Non-numeric value in a numeric column
	ExitConstraintError = 14 // Insert violated a foreign key or primary key
)

const (
	// DefaultDataDir is the directory holding one <table>.csv per entity.
	DefaultDataDir = "data"

	// DefaultDatabasePath is the SQLite store file written by a run.
	DefaultDatabasePath = "ecom.db"

	// DefaultDriver is the backing store used when none is configured.
	DefaultDriver = DriverSQLite

	// SourceExtension is appended to a table name to locate its source file.
	SourceExtension = ".csv"

	// S3Scheme marks a data directory that lives in an S3 bucket.
	S3Scheme = "s3://"
)
