// Package export reads a Discord data-export directory into memory.
//
// Layout understood by the readers:
//
//	<root>/account/user.json
//	<root>/servers/index.json
//	<root>/servers/<id>/guild.json
//	<root>/messages/index.json
//	<root>/messages/c<id>/channel.json
//	<root>/messages/c<id>/messages.csv
//	<root>/activity/<category>/<file>.json
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/models"
)

// Export is the complete in-memory snapshot of one export directory.
type Export struct {
	Account    models.Account
	Servers    []models.Server
	Channels   []models.Channel
	Activities map[models.ActivityCategory][]models.Activity
}

// MessageCount returns the number of messages across all channels.
func (e *Export) MessageCount() int {
	n := 0
	for i := range e.Channels {
		n += len(e.Channels[i].Messages)
	}
	return n
}

// ActivityCount returns the number of activities across all categories.
func (e *Export) ActivityCount() int {
	n := 0
	for _, activities := range e.Activities {
		n += len(activities)
	}
	return n
}

// Parser reads the entity kinds of one export root.
type Parser struct {
	root   string
	logger *zap.Logger
}

// NewParser creates a parser for the export rooted at root.
func NewParser(root string, logger *zap.Logger) *Parser {
	return &Parser{
		root:   root,
		logger: logger,
	}
}

// Parse reads account, servers, channels and all activity categories, in that
// order. The first failure aborts the parse; no partial export is returned.
func (p *Parser) Parse() (*Export, error) {
	start := time.Now()

	account, err := p.ReadAccount()
	if err != nil {
		return nil, fmt.Errorf("failed to read account: %w", err)
	}
	p.logger.Debug("read account",
		zap.String("account_id", account.ID),
		zap.Int("relationships", len(account.Relationships)),
	)

	servers, err := p.ReadServers()
	if err != nil {
		return nil, fmt.Errorf("failed to read servers: %w", err)
	}
	p.logger.Debug("read servers", zap.Int("servers", len(servers)))

	channels, err := p.ReadChannels()
	if err != nil {
		return nil, fmt.Errorf("failed to read channels: %w", err)
	}
	p.logger.Debug("read channels", zap.Int("channels", len(channels)))

	activities, err := p.ReadAllActivities()
	if err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}

	exp := &Export{
		Account:    *account,
		Servers:    servers,
		Channels:   channels,
		Activities: activities,
	}

	p.logger.Info("parsed export",
		zap.String("root", p.root),
		zap.Int("servers", len(exp.Servers)),
		zap.Int("channels", len(exp.Channels)),
		zap.Int("messages", exp.MessageCount()),
		zap.Int("activities", exp.ActivityCount()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return exp, nil
}

func (p *Parser) path(elem ...string) string {
	return filepath.Join(append([]string{p.root}, elem...)...)
}
