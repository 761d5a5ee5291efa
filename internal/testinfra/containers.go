// Package testinfra starts the throwaway services integration tests run against.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "ecomload"

	// DSNEnv points integration tests at an existing server instead of a container.
	DSNEnv = "ECOMLOAD_TEST_DSN"
)

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

var (
	sharedOnce sync.Once
	sharedCtr  *PostgresContainer
	sharedErr  error
)

// PostgresDSN returns a DSN for integration tests: ECOMLOAD_TEST_DSN when set,
// otherwise a container shared by the test binary. Skips under -short or when
// no container runtime is available. Tests sharing the server must clean up
// the tables they touch.
func PostgresDSN(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	if dsn := os.Getenv(DSNEnv); dsn != "" {
		return dsn
	}

	sharedOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		sharedCtr, sharedErr = StartPostgres(ctx)
	})
	if sharedErr != nil {
		t.Skipf("postgres container unavailable (set %s to use an existing server): %v", DSNEnv, sharedErr)
	}
	return sharedCtr.ConnString
}
