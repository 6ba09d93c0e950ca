package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/models"
)

// messages.csv header names
const (
	columnID          = "ID"
	columnTimestamp   = "Timestamp"
	columnContents    = "Contents"
	columnAttachments = "Attachments"
)

type channelInfo struct {
	ID         string              `json:"id"`
	Type       *models.ChannelType `json:"type"`
	Recipients []string            `json:"recipients"`
	Guild      json.RawMessage     `json:"guild"`
}

// ReadChannels decodes messages/index.json and, per entry, the channel's
// channel.json and messages.csv.
func (p *Parser) ReadChannels() ([]models.Channel, error) {
	indexPath := p.path("messages", "index.json")

	raw, err := readJSONFile(indexPath)
	if err != nil {
		return nil, err
	}
	var index map[string]*string
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, indexPath, err)
	}

	channels := make([]models.Channel, 0, len(index))
	for _, id := range sortedKeys(index) {
		channel, err := p.readChannel(id, index[id])
		if err != nil {
			return nil, err
		}
		channels = append(channels, *channel)
	}

	return channels, nil
}

func (p *Parser) readChannel(id string, name *string) (*models.Channel, error) {
	dir := "c" + id
	infoPath := p.path("messages", dir, "channel.json")

	raw, err := readJSONFile(infoPath)
	if err != nil {
		return nil, err
	}
	info, guild, err := decodeChannelInfo(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, infoPath, err)
	}

	if len(info.Recipients) > 0 && info.Type != nil && !info.Type.IsPrivate() {
		p.logger.Warn("guild channel carries recipients",
			zap.String("channel_id", info.ID),
			zap.Int("type", int(*info.Type)),
		)
	}

	messages, err := readMessages(p.path("messages", dir, "messages.csv"))
	if err != nil {
		return nil, err
	}

	return &models.Channel{
		ID:         info.ID,
		Type:       info.Type,
		Name:       name,
		Recipients: info.Recipients,
		Guild:      guild,
		Messages:   messages,
	}, nil
}

func decodeChannelInfo(raw json.RawMessage) (*channelInfo, *models.Server, error) {
	if _, err := objectWithKeys(raw, "channel", "id"); err != nil {
		return nil, nil, err
	}

	var info channelInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, nil, fmt.Errorf("channel: %w", err)
	}

	if len(info.Guild) == 0 || isNull(info.Guild) {
		return &info, nil, nil
	}
	guild, err := decodeServer(info.Guild, "channel guild")
	if err != nil {
		return nil, nil, err
	}
	return &info, guild, nil
}

// readMessages decodes messages.csv keeping row order. Any bad row fails the
// whole file.
func readMessages(path string) ([]models.Message, error) {
	f, err := openExportFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: header: %w", ErrTabularRow, path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	var messages []models.Message
	for row := 1; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %d: %w", ErrTabularRow, path, row, err)
		}

		message, err := decodeMessage(columns, record)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %d: %w", ErrTabularRow, path, row, err)
		}
		messages = append(messages, message)
	}

	return messages, nil
}

func decodeMessage(columns map[string]int, record []string) (models.Message, error) {
	id, err := requiredCell(columns, record, columnID)
	if err != nil {
		return models.Message{}, err
	}
	timestamp, err := requiredCell(columns, record, columnTimestamp)
	if err != nil {
		return models.Message{}, err
	}

	return models.Message{
		ID:          id,
		Timestamp:   timestamp,
		Contents:    optionalCell(columns, record, columnContents),
		Attachments: optionalCell(columns, record, columnAttachments),
	}, nil
}

func requiredCell(columns map[string]int, record []string, name string) (string, error) {
	i, ok := columns[name]
	if !ok {
		return "", fmt.Errorf("missing column %s", name)
	}
	if record[i] == "" {
		return "", fmt.Errorf("empty %s", name)
	}
	return record[i], nil
}

// optionalCell maps an absent column or an empty cell to nil.
func optionalCell(columns map[string]int, record []string, name string) *string {
	i, ok := columns[name]
	if !ok || record[i] == "" {
		return nil
	}
	value := record[i]
	return &value
}
