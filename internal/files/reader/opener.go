package reader

import (
	"context"
	"fmt"

	"github.com/vvka-141/ecomload/internal/checksum"
	"github.com/vvka-141/ecomload/internal/files/filesystem"
	"github.com/vvka-141/ecomload/internal/schema"
	"github.com/vvka-141/ecomload/pkg/ecomload"
)

// NewOpener returns an ecomload.ReaderOpener choosing the provider from
// config.DataDir: an s3:// location reads from S3, anything else from disk.
// Nothing is opened until a table is read.
func NewOpener(registry *schema.Registry, calculator checksum.Calculator) ecomload.ReaderOpener {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	return func(ctx context.Context, config ecomload.LoadConfig) (ecomload.RowReader, error) {
		provider, err := ProviderFor(ctx, config)
		if err != nil {
			return nil, err
		}
		return NewReader(registry, provider, calculator), nil
	}
}

// ProviderFor builds the source provider for config.DataDir.
func ProviderFor(ctx context.Context, config ecomload.LoadConfig) (filesystem.Provider, error) {
	if !config.IsS3() {
		return filesystem.NewOSFileSystem(config.DataDir), nil
	}
	p, err := filesystem.NewS3FileSystem(ctx, config.DataDir, config.S3)
	if err != nil {
		return nil, fmt.Errorf("data dir %s: %w: %w", config.DataDir, ecomload.ErrInvalidConfig, err)
	}
	return p, nil
}
