package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sync"
)

// MemoryFileSystem implements Provider over in-memory files.
// Safe for concurrent use.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	root  string
}

// NewMemoryFileSystem creates an empty in-memory provider. root only shows up
// in Location and is otherwise cosmetic.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string][]byte),
		root:  path.Clean("/" + root),
	}
}

// AddFile adds or replaces a file.
func (m *MemoryFileSystem) AddFile(name string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = []byte(content)
}

func (m *MemoryFileSystem) Location(name string) string {
	return path.Join(m.root, name)
}

func (m *MemoryFileSystem) Open(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	content, ok := m.files[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("failed to access %s: %w", m.Location(name), fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}
