package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vvka-141/ecomload/pkg/ecomload"
)

type mockStore struct {
	createErr error
	clearErr  error
	insertErr map[string]error
	closeErr  error

	calls        []string
	inserted     map[string][][]any
	transactions int
	closed       int
}

func newMockStore() *mockStore {
	return &mockStore{insertErr: map[string]error{}, inserted: map[string][][]any{}}
}

func (m *mockStore) CreateSchema(_ context.Context) error {
	m.calls = append(m.calls, "create")
	return m.createErr
}

func (m *mockStore) Clear(_ context.Context) error {
	m.calls = append(m.calls, "clear")
	return m.clearErr
}

func (m *mockStore) InsertRows(_ context.Context, table string, rows [][]any) (int64, error) {
	m.calls = append(m.calls, "insert:"+table)
	if err := m.insertErr[table]; err != nil {
		return 0, err
	}
	m.inserted[table] = rows
	return int64(len(rows)), nil
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.transactions++
	m.calls = append(m.calls, "begin")
	err := fn(ctx)
	if err != nil {
		m.calls = append(m.calls, "rollback")
		return err
	}
	m.calls = append(m.calls, "commit")
	return nil
}

func (m *mockStore) Close() error {
	m.closed++
	return m.closeErr
}

type mockReader struct {
	tables map[string]ecomload.TableData
	errs   map[string]error
	reads  []string
}

func (m *mockReader) ReadTable(_ context.Context, table string) (ecomload.TableData, error) {
	m.reads = append(m.reads, table)
	if err := m.errs[table]; err != nil {
		return ecomload.TableData{}, err
	}
	data, ok := m.tables[table]
	if !ok {
		return ecomload.TableData{}, fmt.Errorf("%s: %w", table, ecomload.ErrSourceNotFound)
	}
	return data, nil
}

type recordingLogger struct {
	mu      sync.Mutex
	verbose []string
	info    []string
	errors  []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = append(l.verbose, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info = append(l.info, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func storeOpener(store ecomload.Store, err error) ecomload.StoreOpener {
	return func(_ context.Context, _ ecomload.LoadConfig) (ecomload.Store, error) {
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func readerOpener(r ecomload.RowReader, err error) ecomload.ReaderOpener {
	return func(_ context.Context, _ ecomload.LoadConfig) (ecomload.RowReader, error) {
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
