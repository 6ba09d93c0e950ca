package integration

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/config"
	"github.com/parsascontentcorner/discordexport/internal/database"
	"github.com/parsascontentcorner/discordexport/internal/testutil"
)

// store is one destination under test.
type store struct {
	name string
	// placeholder renders the n-th bound parameter of the dialect.
	placeholder func(n int) string
	open        func(t *testing.T) *database.DB
}

func stores() []store {
	return []store{
		{
			name:        "sqlite",
			placeholder: func(int) string { return "?" },
			open: func(t *testing.T) *database.DB {
				return openStore(t, testutil.SQLitePath(t))
			},
		},
		{
			name:        "postgres",
			placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
			open: func(t *testing.T) *database.DB {
				if testing.Short() {
					t.Skip("skipping PostgreSQL container test in short mode")
				}
				dsn, cleanup, err := testutil.StartPostgres(context.Background())
				require.NoError(t, err)
				t.Cleanup(cleanup)
				return openStore(t, dsn)
			},
		},
	}
}

func openStore(t *testing.T, target string) *database.DB {
	t.Helper()

	cfg := testutil.GenerateTestConfig()
	dest, err := cfg.ResolveDestination(target)
	require.NoError(t, err)

	db, err := database.Open(context.Background(), dest, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func testLoaderConfig() config.LoaderConfig {
	return testutil.GenerateTestConfig().Loader
}
