package filesystem

import (
	"context"
	"io"
)

// Provider opens source files by name.
type Provider interface {
	// Open returns a reader over the named file. The caller closes it.
	// A missing file yields an error wrapping fs.ErrNotExist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Location describes where name resolves, for log and error messages.
	Location(name string) string
}
