package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/config"
	"github.com/parsascontentcorner/discordexport/internal/export"
	"github.com/parsascontentcorner/discordexport/internal/testutil"
)

// setupSQLite opens a fresh SQLite store in the test's temp dir.
func setupSQLite(t *testing.T) *DB {
	t.Helper()

	dest, err := testutil.GenerateTestConfig().ResolveDestination(testutil.SQLitePath(t))
	require.NoError(t, err)

	db, err := Open(context.Background(), dest, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// setupPostgres starts a PostgreSQL container and opens a store on it.
func setupPostgres(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}

	ctx := context.Background()
	dsn, cleanup, err := testutil.StartPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	dest, err := testutil.GenerateTestConfig().ResolveDestination(dsn)
	require.NoError(t, err)
	require.Equal(t, config.DialectPostgres, dest.Dialect)

	db, err := Open(ctx, dest, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// setupMock returns a store backed by sqlmock.
func setupMock(t *testing.T, dialect config.Dialect) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return newDB(sqlDB, dialect, zap.NewNop()), mock
}

// sampleExport parses the standard fixture export.
func sampleExport(t *testing.T) *export.Export {
	t.Helper()

	tree := testutil.WriteSampleExport(t)
	exp, err := export.NewParser(tree.Root, zap.NewNop()).Parse()
	require.NoError(t, err)
	return exp
}

func newTestLoader(db *DB) *Loader {
	return NewLoader(db, testutil.GenerateTestConfig().Loader, zap.NewNop())
}
