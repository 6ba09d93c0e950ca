package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Tables lists every store table, parents before children.
var Tables = []string{
	"account",
	"relationship",
	"server",
	"channel",
	"message",
	"channel_recipient",
	"activity",
	"accepted_languages",
	"accepted_languages_weighted",
}

// schemaStep is one table's definition.
type schemaStep struct {
	version uint
	table   string
	up      string
	down    string
}

// loadSchema reads the embedded definitions of dialect in version order.
func loadSchema(dialect config.Dialect) ([]schemaStep, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s schema: %w", dialect, err)
	}
	defer src.Close()

	var steps []schemaStep
	version, err := src.First()
	for err == nil {
		step, readErr := readStep(src, version)
		if readErr != nil {
			return nil, readErr
		}
		steps = append(steps, step)
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to list %s schema: %w", dialect, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no %s schema definitions", dialect)
	}

	return steps, nil
}

func readStep(src source.Driver, version uint) (schemaStep, error) {
	up, table, err := src.ReadUp(version)
	if err != nil {
		return schemaStep{}, fmt.Errorf("failed to read schema version %d: %w", version, err)
	}
	upSQL, err := readAllClose(up)
	if err != nil {
		return schemaStep{}, fmt.Errorf("failed to read schema %s: %w", table, err)
	}

	down, _, err := src.ReadDown(version)
	if err != nil {
		return schemaStep{}, fmt.Errorf("failed to read drop for %s: %w", table, err)
	}
	downSQL, err := readAllClose(down)
	if err != nil {
		return schemaStep{}, fmt.Errorf("failed to read drop for %s: %w", table, err)
	}

	return schemaStep{version: version, table: table, up: upSQL, down: downSQL}, nil
}

func readAllClose(rc io.ReadCloser) (string, error) {
	defer rc.Close()
	data, err := io.ReadAll(rc)
	return string(data), err
}

// Reset drops every table children first and recreates them all, on tx. It
// leaves an empty store with the current table definitions whatever was
// there before.
func (db *DB) Reset(ctx context.Context, tx DBTX) error {
	steps, err := loadSchema(db.dialect)
	if err != nil {
		return err
	}

	for i := len(steps) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, steps[i].down); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", steps[i].table, err)
		}
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.up); err != nil {
			return fmt.Errorf("failed to create table %s: %w", step.table, err)
		}
	}

	db.logger.Debug("schema reset",
		zap.String("dialect", string(db.dialect)),
		zap.Int("tables", len(steps)),
	)

	return nil
}
