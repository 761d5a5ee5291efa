package ecomload

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure classes of a load run.
// Callers distinguish them with errors.Is():
//
//	summary, err := loader.Load(ctx, cfg)
//	if errors.Is(err, ecomload.ErrConstraintViolation) {
//	    // tables loaded before the failing one are still committed
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStoreInit indicates the backing store could not be created, opened or prepared.
	ErrStoreInit = errors.New("store initialization failed")

	// ErrSourceNotFound indicates a table's source file is missing or unreadable.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrMalformedSource indicates a source file could not be read as UTF-8 delimited text.
	ErrMalformedSource = errors.New("malformed source file")

	// ErrCoercion indicates a non-empty value could not be parsed as its column's numeric type.
	ErrCoercion = errors.New("type coercion failed")

	// ErrConstraintViolation indicates an insert violated a foreign key, primary key or NOT NULL constraint.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrExecutionFailed indicates a statement against the store failed for any other reason.
	ErrExecutionFailed = errors.New("execution failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrStoreInit):
		return ExitStoreError
	case errors.Is(err, ErrSourceNotFound), errors.Is(err, ErrMalformedSource):
		return ExitSourceError
	case errors.Is(err, ErrCoercion):
		return ExitCoercionError
	case errors.Is(err, ErrConstraintViolation):
		return ExitConstraintError
	}

	// cobra reports usage problems as plain errors
	errStr := err.Error()
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "invalid argument", "accepts "} {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
