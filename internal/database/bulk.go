package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/parsascontentcorner/discordexport/internal/config"
)

// sqliteMaxVariables is SQLite's default limit on bound parameters per
// statement.
const sqliteMaxVariables = 32766

// BatchConfig tunes bulk inserts.
type BatchConfig struct {
	// BatchSize is the row count of one multi-row INSERT, and the progress
	// reporting interval of a COPY.
	BatchSize int
	// OnProgress, when set, is called after every batch.
	OnProgress func(table string, processed, total int)
}

// bulkInserter writes many rows of one table inside the load transaction.
type bulkInserter interface {
	Insert(ctx context.Context, table string, columns []string, rows [][]any) (int, error)
}

func newBulkInserter(dialect config.Dialect, tx DBTX, cfg BatchConfig) bulkInserter {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.Default().Loader.BatchSize
	}
	if dialect == config.DialectPostgres {
		return &copyInserter{tx: tx, cfg: cfg}
	}
	return &multiRowInserter{tx: tx, dialect: dialect, cfg: cfg}
}

// multiRowInserter sends chunks of rows as INSERT ... VALUES (...), (...).
type multiRowInserter struct {
	tx      DBTX
	dialect config.Dialect
	cfg     BatchConfig
}

func (m *multiRowInserter) Insert(ctx context.Context, table string, columns []string, rows [][]any) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	size := min(m.cfg.BatchSize, sqliteMaxVariables/len(columns))

	inserted := 0
	for start := 0; start < len(rows); start += size {
		chunk := rows[start:min(start+size, len(rows))]

		args := make([]any, 0, len(chunk)*len(columns))
		for _, row := range chunk {
			args = append(args, row...)
		}

		query := insertStatement(m.dialect, table, columns, len(chunk))
		if _, err := m.tx.ExecContext(ctx, query, args...); err != nil {
			return inserted, fmt.Errorf("failed to insert into %s at row %d: %w", table, start, err)
		}

		inserted += len(chunk)
		if m.cfg.OnProgress != nil {
			m.cfg.OnProgress(table, inserted, len(rows))
		}
	}

	return inserted, nil
}

// copyInserter streams rows through COPY ... FROM STDIN.
type copyInserter struct {
	tx  DBTX
	cfg BatchConfig
}

func (c *copyInserter) Insert(ctx context.Context, table string, columns []string, rows [][]any) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	stmt, err := c.tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return 0, fmt.Errorf("failed to start copy into %s: %w", table, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("failed to copy row %d into %s: %w", i, table, err)
		}
		if c.cfg.OnProgress != nil && (i+1)%c.cfg.BatchSize == 0 {
			c.cfg.OnProgress(table, i+1, len(rows))
		}
	}

	// The argument-less Exec flushes the buffered rows.
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, fmt.Errorf("failed to flush copy into %s: %w", table, err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("failed to finish copy into %s: %w", table, err)
	}

	if c.cfg.OnProgress != nil && len(rows)%c.cfg.BatchSize != 0 {
		c.cfg.OnProgress(table, len(rows), len(rows))
	}

	return len(rows), nil
}

// insertStatement renders an INSERT of rows value tuples with bound
// placeholders in the dialect's syntax.
func insertStatement(dialect config.Dialect, table string, columns []string, rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	n := 0
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range columns {
			if c > 0 {
				b.WriteString(", ")
			}
			n++
			if dialect == config.DialectPostgres {
				b.WriteByte('$')
				b.WriteString(strconv.Itoa(n))
			} else {
				b.WriteByte('?')
			}
		}
		b.WriteByte(')')
	}

	return b.String()
}
