package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/ecomload/internal/schema"
	"github.com/vvka-141/ecomload/pkg/ecomload"
)

// LoadService implements the ecomload.Loader interface.
// Thread-Safety: NOT safe for concurrent Load() calls against the same store.
type LoadService struct {
	openStore  ecomload.StoreOpener
	openReader ecomload.ReaderOpener
	registry   *schema.Registry
	logger     ecomload.Logger
	now        func() time.Time
}

// NewLoadService creates a LoadService with all dependencies injected.
// Panics on nil dependencies; runtime failures are returned from Load.
func NewLoadService(
	openStore ecomload.StoreOpener,
	openReader ecomload.ReaderOpener,
	registry *schema.Registry,
	logger ecomload.Logger,
) *LoadService {
	if openStore == nil {
		panic("openStore cannot be nil")
	}
	if openReader == nil {
		panic("openReader cannot be nil")
	}
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LoadService{
		openStore:  openStore,
		openReader: openReader,
		registry:   registry,
		logger:     logger,
		now:        time.Now,
	}
}

// Load runs one reset-and-reload:
//  1. open the store (creating the sqlite file if absent, FK enforcement on)
//  2. create every table if absent
//  3. clear every table, dependents first
//  4. load every table in dependency order, one transaction per table
//
// Without config.Atomic a failure on table N leaves tables 1..N-1 committed,
// and the returned Summary lists exactly those. With config.Atomic steps 3
// and 4 share one transaction and a failure returns an empty Summary.
func (s *LoadService) Load(ctx context.Context, config ecomload.LoadConfig) (summary ecomload.Summary, err error) {
	if err := config.Validate(); err != nil {
		return ecomload.Summary{}, err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	summary = ecomload.Summary{RunID: uuid.NewString(), StartedAt: s.now()}
	defer func() {
		summary.Duration = s.now().Sub(summary.StartedAt)
	}()

	s.logger.Verbose("Run %s: loading %s into %s", summary.RunID, config.DataDir, storeTarget(config))

	rows, err := s.openReader(ctx, config)
	if err != nil {
		return summary, err
	}

	store, err := s.openStore(ctx, config)
	if err != nil {
		return summary, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			s.logger.Error("Failed to close store: %v", cerr)
		}
	}()

	if err := store.CreateSchema(ctx); err != nil {
		return summary, fmt.Errorf("failed to create schema: %w", err)
	}
	s.logger.Verbose("Schema ready (%d tables)", len(s.registry.Order()))

	reload := func(ctx context.Context) error {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
		s.logger.Verbose("Cleared tables: %v", s.registry.ReverseOrder())

		for _, table := range s.registry.Order() {
			result, err := s.loadTable(ctx, store, rows, table)
			if err != nil {
				return err
			}
			summary.Tables = append(summary.Tables, result)
		}
		return nil
	}

	if config.Atomic {
		s.logger.Verbose("Atomic mode: clear and reload share one transaction")
		if err := store.RunInTransaction(ctx, reload); err != nil {
			summary.Tables = nil
			return summary, err
		}
		return summary, nil
	}
	if err := reload(ctx); err != nil {
		return summary, err
	}
	return summary, nil
}

func (s *LoadService) loadTable(ctx context.Context, store ecomload.Store, rows ecomload.RowReader, table string) (ecomload.TableResult, error) {
	if err := ctx.Err(); err != nil {
		return ecomload.TableResult{}, err
	}

	data, err := rows.ReadTable(ctx, table)
	if err != nil {
		return ecomload.TableResult{}, err
	}
	s.logger.Verbose("Read %d rows from %s (sha256 %s)", len(data.Rows), data.Source, data.Checksum)

	result := ecomload.TableResult{Table: table, Checksum: data.Checksum}
	if len(data.Rows) == 0 {
		return result, nil
	}

	n, err := store.InsertRows(ctx, table, data.Rows)
	if err != nil {
		return ecomload.TableResult{}, fmt.Errorf("failed to load %s: %w", table, err)
	}
	result.Inserted = n
	return result, nil
}

func storeTarget(config ecomload.LoadConfig) string {
	if config.Driver == ecomload.DriverPostgres {
		return "postgres"
	}
	return config.DatabasePath
}

var _ ecomload.Loader = (*LoadService)(nil)
