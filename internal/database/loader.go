package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/config"
	"github.com/parsascontentcorner/discordexport/internal/export"
	"github.com/parsascontentcorner/discordexport/internal/models"
)

var (
	accountColumns = []string{
		"id", "username", "discriminator", "email", "verified", "avatar_hash",
		"has_mobile", "needs_email_verification", "premium_until", "flags",
		"phone", "temp_banned_until", "ip", "boosting_started_at", "premium_started_at",
	}
	relationshipColumns = []string{
		"id", "account_id", "relation_type", "nickname", "username", "avatar",
		"avatar_decoration", "discriminator", "public_flags",
	}
	serverColumns           = []string{"id", "name"}
	channelColumns          = []string{"id", "type", "name", "server_id"}
	messageColumns          = []string{"id", "channel_id", "position", "timestamp", "contents", "attachments"}
	channelRecipientColumns = []string{"channel_id", "recipient"}
	activityColumns         = []string{
		"event_id", "event_type", "activity_type", "user_id", "domain",
		"client_send_timestamp", "client_track_timestamp", "timestamp", "other",
	}
	languageColumns = []string{"event_id", "language"}
)

// LoadStats counts the rows written per table.
type LoadStats map[string]int

// Total returns the number of rows written across all tables.
func (s LoadStats) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

func (s LoadStats) fields() []zap.Field {
	tables := make([]string, 0, len(s))
	for table := range s {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	fields := make([]zap.Field, 0, len(tables))
	for _, table := range tables {
		fields = append(fields, zap.Int(table, s[table]))
	}
	return fields
}

// Loader writes a parsed export into the destination store.
type Loader struct {
	db     *DB
	cfg    config.LoaderConfig
	logger *zap.Logger
}

// NewLoader creates a loader writing to db.
func NewLoader(db *DB, cfg config.LoaderConfig, logger *zap.Logger) *Loader {
	return &Loader{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}
}

// Save replaces the store contents with exp.
//
// The schema reset and every insert share one transaction: on success the
// store holds exactly exp, on failure it is left as it was and the returned
// error wraps ErrStore.
func (l *Loader) Save(ctx context.Context, exp *export.Export) (LoadStats, error) {
	start := time.Now()
	stats := LoadStats{}

	err := l.db.WithTx(ctx, func(ctx context.Context, tx DBTX) error {
		if err := l.db.Reset(ctx, tx); err != nil {
			return err
		}

		w := &loadTx{
			tx:      tx,
			dialect: l.db.dialect,
			bulk:    newBulkInserter(l.db.dialect, tx, l.batchConfig()),
			stats:   stats,
		}

		if err := w.saveAccount(ctx, &exp.Account); err != nil {
			return err
		}
		if err := w.saveServers(ctx, exp.Servers); err != nil {
			return err
		}
		for i := range exp.Channels {
			if err := w.saveChannel(ctx, &exp.Channels[i]); err != nil {
				return err
			}
		}
		for _, category := range models.AllActivityCategories() {
			if err := w.saveActivities(ctx, category, exp.Activities[category]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.logger.Error("failed to save export, store rolled back", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	l.logger.Info("export saved",
		append(stats.fields(),
			zap.Int("rows", stats.Total()),
			zap.Duration("elapsed", time.Since(start)),
		)...,
	)

	return stats, nil
}

func (l *Loader) batchConfig() BatchConfig {
	return BatchConfig{
		BatchSize: l.cfg.BatchSize,
		OnProgress: func(table string, processed, total int) {
			l.logger.Debug("batch progress",
				zap.String("table", table),
				zap.Int("processed", processed),
				zap.Int("total", total),
			)
		},
	}
}

// loadTx writes records on the load transaction.
type loadTx struct {
	tx      DBTX
	dialect config.Dialect
	bulk    bulkInserter
	stats   LoadStats
}

func (w *loadTx) insertRow(ctx context.Context, table string, columns []string, values ...any) error {
	query := insertStatement(w.dialect, table, columns, 1)
	if _, err := w.tx.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	w.stats[table]++
	return nil
}

func (w *loadTx) insertRows(ctx context.Context, table string, columns []string, rows [][]any) error {
	n, err := w.bulk.Insert(ctx, table, columns, rows)
	if err != nil {
		return err
	}
	w.stats[table] += n
	return nil
}

func (w *loadTx) saveAccount(ctx context.Context, a *models.Account) error {
	err := w.insertRow(ctx, "account", accountColumns,
		a.ID, a.Username, a.Discriminator, a.Email, a.Verified, a.AvatarHash,
		a.HasMobile, a.NeedsEmailVerification, nullable(a.PremiumUntil), a.Flags,
		nullable(a.Phone), nullable(a.TempBannedUntil), a.IP,
		nullable(a.ProfileMetadata.BoostingStartedAt), nullable(a.ProfileMetadata.PremiumStartedAt),
	)
	if err != nil {
		return err
	}

	for _, r := range a.Relationships {
		err := w.insertRow(ctx, "relationship", relationshipColumns,
			r.ID, a.ID, int64(r.Type), nullable(r.Nickname), r.User.Username,
			nullable(r.User.Avatar), nullable(r.User.AvatarDecoration),
			r.User.Discriminator, r.User.PublicFlags,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *loadTx) saveServers(ctx context.Context, servers []models.Server) error {
	rows := make([][]any, 0, len(servers))
	for _, s := range servers {
		rows = append(rows, []any{s.ID, s.Name})
	}
	return w.insertRows(ctx, "server", serverColumns, rows)
}

func (w *loadTx) saveChannel(ctx context.Context, c *models.Channel) error {
	var channelType any
	if c.Type != nil {
		channelType = int64(*c.Type)
	}
	if err := w.insertRow(ctx, "channel", channelColumns,
		c.ID, channelType, nullable(c.Name), nullable(c.ServerID()),
	); err != nil {
		return err
	}

	messages := make([][]any, 0, len(c.Messages))
	for i, m := range c.Messages {
		messages = append(messages, []any{
			m.ID, c.ID, i, m.Timestamp, nullable(m.Contents), nullable(m.Attachments),
		})
	}
	if err := w.insertRows(ctx, "message", messageColumns, messages); err != nil {
		return err
	}

	recipients := make([][]any, 0, len(c.Recipients))
	for _, r := range c.Recipients {
		recipients = append(recipients, []any{c.ID, r})
	}
	return w.insertRows(ctx, "channel_recipient", channelRecipientColumns, recipients)
}

func (w *loadTx) saveActivities(ctx context.Context, category models.ActivityCategory, activities []models.Activity) error {
	var (
		events    = make([][]any, 0, len(activities))
		languages [][]any
		weighted  [][]any
	)
	for i := range activities {
		a := &activities[i]

		other, err := a.OtherJSON()
		if err != nil {
			return fmt.Errorf("failed to encode activity %s: %w", a.EventID, err)
		}
		events = append(events, []any{
			a.EventID, a.EventType, category.String(), a.UserID, a.Domain,
			a.ClientSendTimestamp, a.ClientTrackTimestamp, a.Timestamp, other,
		})

		for _, lang := range a.AcceptedLanguages {
			languages = append(languages, []any{a.EventID, lang})
		}
		for _, lang := range a.AcceptedLanguagesWeighted {
			weighted = append(weighted, []any{a.EventID, lang})
		}
	}

	if err := w.insertRows(ctx, "activity", activityColumns, events); err != nil {
		return err
	}
	if err := w.insertRows(ctx, "accepted_languages", languageColumns, languages); err != nil {
		return err
	}
	return w.insertRows(ctx, "accepted_languages_weighted", languageColumns, weighted)
}

// nullable turns a nil string pointer into SQL NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
