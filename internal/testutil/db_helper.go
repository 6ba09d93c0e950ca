package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SQLitePath returns a destination file path inside the test's temp dir.
func SQLitePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "export.db")
}

// StartPostgres starts a PostgreSQL TestContainer and returns its URL.
//
// Usage:
//
//	dsn, cleanup, err := testutil.StartPostgres(ctx)
//	require.NoError(t, err)
//	defer cleanup()
func StartPostgres(ctx context.Context) (string, func(), error) {
	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return "", nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	cleanup := func() {
		_ = pgContainer.Terminate(ctx)
	}

	return dsn, cleanup, nil
}
