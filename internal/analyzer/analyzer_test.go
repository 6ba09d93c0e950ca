package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/database"
	"github.com/parsascontentcorner/discordexport/internal/export"
	"github.com/parsascontentcorner/discordexport/internal/models"
	"github.com/parsascontentcorner/discordexport/internal/testutil"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		contents []any
		expected []WordCount
	}{
		{
			name:     "case folded and ordered by count then word",
			contents: []any{"Go go GO", "hello  World\tgo", "world"},
			expected: []WordCount{{"go", 4}, {"world", 2}, {"hello", 1}},
		},
		{
			name:     "punctuation stays attached",
			contents: []any{"hi, hi"},
			expected: []WordCount{{"hi", 1}, {"hi,", 1}},
		},
		{
			name:     "no messages",
			contents: nil,
			expected: []WordCount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			rows := sqlmock.NewRows([]string{"contents"})
			for _, c := range tt.contents {
				rows.AddRow(c)
			}
			mock.ExpectQuery("SELECT contents FROM message WHERE contents IS NOT NULL AND contents NOT LIKE").
				WillReturnRows(rows)

			counts, err := New(db, zap.NewNop()).CountWords(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expected, counts)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCountWords_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT contents").WillReturnError(errors.New("no such table: message"))

	_, err = New(db, zap.NewNop()).CountWords(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query message contents")
}

func TestCountWords_LoadedStore(t *testing.T) {
	tree := testutil.WriteSampleExport(t)
	exp, err := export.NewParser(tree.Root, zap.NewNop()).Parse()
	require.NoError(t, err)
	exp.Channels[0].Messages = append(exp.Channels[0].Messages,
		models.Message{ID: "1003", Timestamp: "2021", Contents: strPtr("<@200>")},
		models.Message{ID: "1004", Timestamp: "2021", Contents: strPtr("Hello again")},
	)

	dest, err := testutil.GenerateTestConfig().ResolveDestination(testutil.SQLitePath(t))
	require.NoError(t, err)
	ctx := context.Background()
	db, err := database.Open(ctx, dest, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	_, err = database.NewLoader(db, testutil.GenerateTestConfig().Loader, zap.NewNop()).Save(ctx, exp)
	require.NoError(t, err)

	counts, err := New(db, zap.NewNop()).CountWords(ctx)

	require.NoError(t, err)
	assert.Equal(t, []WordCount{
		{"hello", 2},
		{"a", 1},
		{"again", 1},
		{"it's", 1},
		{"test", 1},
		{"there", 1},
	}, counts)
}

func TestTop(t *testing.T) {
	counts := []WordCount{{"a", 3}, {"b", 2}, {"c", 1}}

	assert.Equal(t, counts[:2], Top(counts, 2))
	assert.Equal(t, counts, Top(counts, 0))
	assert.Equal(t, counts, Top(counts, 10))
}

func strPtr(s string) *string {
	return &s
}
