package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/models"
)

// ReadAllActivities reads every category in load order.
func (p *Parser) ReadAllActivities() (map[models.ActivityCategory][]models.Activity, error) {
	all := make(map[models.ActivityCategory][]models.Activity, len(models.AllActivityCategories()))
	for _, category := range models.AllActivityCategories() {
		activities, err := p.ReadActivities(category)
		if err != nil {
			return nil, err
		}
		all[category] = activities
		p.logger.Debug("read activities",
			zap.Stringer("category", category),
			zap.Int("activities", len(activities)),
		)
	}
	return all, nil
}

// ReadActivities decodes the line-delimited JSON file of one category.
//
// Exactly one file is expected in activity/<category>. When several are
// present the first in lexical order is read and the rest are logged and
// ignored. Dotfiles and subdirectories are never candidates.
func (p *Parser) ReadActivities(category models.ActivityCategory) ([]models.Activity, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown activity category: %d", int(category))
	}

	path, err := p.activityFile(category)
	if err != nil {
		return nil, err
	}

	f, err := openExportFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		activities []models.Activity
		reader     = bufio.NewReaderSize(f, 64*1024)
	)
	for line := 1; ; line++ {
		data, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read %s: %w", path, readErr)
		}

		if data = bytes.TrimSpace(data); len(data) > 0 {
			var activity models.Activity
			if err := json.Unmarshal(data, &activity); err != nil {
				return nil, fmt.Errorf("%w: %s: line %d: %w", ErrDecode, path, line, err)
			}
			activity.Category = category
			activities = append(activities, activity)
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	return activities, nil
}

func (p *Parser) activityFile(category models.ActivityCategory) (string, error) {
	dir := p.path("activity", category.String())

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %w", ErrMissingFile, dir, err)
		}
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, entry.Name())
	}

	if len(files) == 0 {
		return "", fmt.Errorf("%w: %s: no activity file", ErrMissingFile, dir)
	}
	if len(files) > 1 {
		p.logger.Warn("multiple activity files, reading the first",
			zap.Stringer("category", category),
			zap.String("read", files[0]),
			zap.Strings("ignored", files[1:]),
		)
	}

	return filepath.Join(dir, files[0]), nil
}
