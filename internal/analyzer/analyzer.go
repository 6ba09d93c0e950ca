// Package analyzer computes word frequencies over the message contents of a
// loaded store.
package analyzer

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Contents shaped like <...> are mentions, emoji and similar tokens.
const contentsQuery = `
	SELECT contents
	FROM message
	WHERE contents IS NOT NULL AND contents NOT LIKE '<%>'
`

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// WordCount is one word and how often it occurs.
type WordCount struct {
	Word  string
	Count int
}

// Analyzer reads message contents from a store.
type Analyzer struct {
	db     Querier
	logger *zap.Logger
}

// New creates an analyzer reading from db.
func New(db Querier, logger *zap.Logger) *Analyzer {
	return &Analyzer{db: db, logger: logger}
}

// CountWords splits every eligible message on whitespace and counts the
// lower-cased words. The result is ordered by count, highest first, then by
// word.
func (a *Analyzer) CountWords(ctx context.Context) ([]WordCount, error) {
	rows, err := a.db.QueryContext(ctx, contentsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query message contents: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	messages := 0
	for rows.Next() {
		var contents string
		if err := rows.Scan(&contents); err != nil {
			return nil, fmt.Errorf("failed to scan message contents: %w", err)
		}
		for _, word := range strings.Fields(contents) {
			counts[strings.ToLower(word)]++
		}
		messages++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read message contents: %w", err)
	}

	result := make([]WordCount, 0, len(counts))
	for word, n := range counts {
		result = append(result, WordCount{Word: word, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Word < result[j].Word
	})

	a.logger.Debug("counted words",
		zap.Int("messages", messages),
		zap.Int("distinct_words", len(result)),
	)

	return result, nil
}

// Top returns at most n leading entries; n <= 0 returns all of them.
func Top(counts []WordCount, n int) []WordCount {
	if n <= 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}
