package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OSFileSystem implements Provider for a directory on the local filesystem.
type OSFileSystem struct {
	root string
}

// NewOSFileSystem creates a provider rooted at dir.
func NewOSFileSystem(dir string) *OSFileSystem {
	return &OSFileSystem{root: dir}
}

func (p *OSFileSystem) Location(name string) string {
	return filepath.Join(p.root, name)
}

func (p *OSFileSystem) Open(_ context.Context, name string) (io.ReadCloser, error) {
	path := p.Location(name)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
