package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertRowCount checks the number of rows in a destination table.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	var count int
	err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	require.NoError(t, err, "count %s", table)
	assert.Equal(t, expected, count, "row count of %s", table)
}

// QueryStrings runs a single-column query and returns the values in order.
// NULL values are returned as "<nil>".
func QueryStrings(t *testing.T, db *sql.DB, query string, args ...any) []string {
	t.Helper()

	rows, err := db.Query(query, args...)
	require.NoError(t, err)
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v sql.NullString
		require.NoError(t, rows.Scan(&v))
		if v.Valid {
			values = append(values, v.String)
		} else {
			values = append(values, "<nil>")
		}
	}
	require.NoError(t, rows.Err())
	return values
}

// AssertTablesEmpty checks that every table exists and holds no rows.
func AssertTablesEmpty(t *testing.T, db *sql.DB, tables ...string) {
	t.Helper()

	for _, table := range tables {
		AssertRowCount(t, db, table, 0)
	}
}
