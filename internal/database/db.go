// Package database owns the destination store: connection management, the
// embedded table definitions and the transactional bulk loader.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/parsascontentcorner/discordexport/internal/config"
)

// driverNames maps a dialect to its database/sql driver.
var driverNames = map[config.Dialect]string{
	config.DialectSQLite:   "sqlite",
	config.DialectPostgres: "postgres",
}

// DB wraps the destination store connection
type DB struct {
	*sql.DB
	dialect config.Dialect
	logger  *zap.Logger
}

// Open connects to the destination store and verifies the connection.
func Open(ctx context.Context, dest config.Destination, logger *zap.Logger) (*DB, error) {
	driver, ok := driverNames[dest.Dialect]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported dialect %q", ErrStore, dest.Dialect)
	}

	sqlDB, err := sql.Open(driver, dest.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrStore, dest.Display, err)
	}

	// The load transaction holds the only connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: failed to ping %s: %w", ErrStore, dest.Display, err)
	}

	logger.Info("destination store connected",
		zap.String("dialect", string(dest.Dialect)),
		zap.String("destination", dest.Display),
	)

	return newDB(sqlDB, dest.Dialect, logger), nil
}

func newDB(sqlDB *sql.DB, dialect config.Dialect, logger *zap.Logger) *DB {
	return &DB{
		DB:      sqlDB,
		dialect: dialect,
		logger:  logger,
	}
}

// Dialect returns the SQL flavour of the store.
func (db *DB) Dialect() config.Dialect {
	return db.dialect
}

// Close closes the store connection
func (db *DB) Close() error {
	db.logger.Debug("closing destination store")
	return db.DB.Close()
}
