// Package testutil builds export directories and destination stores for tests.
package testutil

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/parsascontentcorner/discordexport/internal/config"
	"github.com/parsascontentcorner/discordexport/internal/models"
)

// ExportTree is an export directory under a test's temp dir.
type ExportTree struct {
	Root string
	t    *testing.T
}

// ChannelFixture describes one messages/c<id> directory.
type ChannelFixture struct {
	ID string
	// Name is written to messages/index.json (nil writes JSON null).
	Name *string
	// Info is written as channel.json; nil writes {"id": ID, "type": 1}.
	Info map[string]any
	// CSV is written verbatim as messages.csv.
	CSV string
}

// NewExportTree creates an empty export root.
func NewExportTree(t *testing.T) *ExportTree {
	t.Helper()
	return &ExportTree{Root: t.TempDir(), t: t}
}

// WriteFile writes content at the root-relative path, creating parent dirs.
func (e *ExportTree) WriteFile(rel, content string) {
	e.t.Helper()

	path := filepath.Join(e.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteJSON marshals v to the root-relative path.
func (e *ExportTree) WriteJSON(rel string, v any) {
	e.t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		e.t.Fatalf("failed to marshal %s: %v", rel, err)
	}
	e.WriteFile(rel, string(data))
}

// Mkdir creates an empty root-relative directory.
func (e *ExportTree) Mkdir(rel string) {
	e.t.Helper()

	if err := os.MkdirAll(filepath.Join(e.Root, filepath.FromSlash(rel)), 0o755); err != nil {
		e.t.Fatalf("failed to create %s: %v", rel, err)
	}
}

// WriteAccount writes account/user.json.
func (e *ExportTree) WriteAccount(account map[string]any) {
	e.t.Helper()
	e.WriteJSON("account/user.json", account)
}

// WriteServers writes servers/index.json and one guild.json per server.
func (e *ExportTree) WriteServers(servers ...models.Server) {
	e.t.Helper()

	index := make(map[string]string, len(servers))
	for _, s := range servers {
		index[s.ID] = s.Name
		e.WriteJSON(fmt.Sprintf("servers/%s/guild.json", s.ID), s)
	}
	e.WriteJSON("servers/index.json", index)
}

// WriteChannels writes messages/index.json and every channel directory.
func (e *ExportTree) WriteChannels(channels ...ChannelFixture) {
	e.t.Helper()

	index := make(map[string]*string, len(channels))
	for _, c := range channels {
		index[c.ID] = c.Name

		info := c.Info
		if info == nil {
			info = map[string]any{"id": c.ID, "type": 1}
		}
		e.WriteJSON(fmt.Sprintf("messages/c%s/channel.json", c.ID), info)
		e.WriteFile(fmt.Sprintf("messages/c%s/messages.csv", c.ID), c.CSV)
	}
	e.WriteJSON("messages/index.json", index)
}

// WriteActivities writes one line-delimited JSON file for a category.
func (e *ExportTree) WriteActivities(category models.ActivityCategory, file string, lines ...string) {
	e.t.Helper()

	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	e.WriteFile(fmt.Sprintf("activity/%s/%s", category, file), buf.String())
}

// GenerateAccount returns a user.json document with n friend relationships.
func GenerateAccount(id string, n int) map[string]any {
	relationships := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		friendID := fmt.Sprintf("%s%03d", id, i)
		relationships = append(relationships, map[string]any{
			"id":       friendID,
			"type":     int(models.RelationTypeFriend),
			"nickname": nil,
			"user": map[string]any{
				"id":                friendID,
				"username":          "friend_" + friendID,
				"avatar":            nil,
				"avatar_decoration": nil,
				"discriminator":     "0001",
				"public_flags":      0,
			},
		})
	}

	return map[string]any{
		"id":                       id,
		"username":                 "testuser_" + id,
		"discriminator":            1234,
		"email":                    id + "@test.com",
		"verified":                 true,
		"avatar_hash":              "test_avatar_hash",
		"has_mobile":               false,
		"needs_email_verification": false,
		"premium_until":            nil,
		"flags":                    0,
		"phone":                    nil,
		"temp_banned_until":        nil,
		"ip":                       "127.0.0.1",
		"user_profile_metadata": map[string]any{
			"boosting_started_at": nil,
			"premium_started_at":  "2020-05-01T00:00:00+00:00",
		},
		"relationships": relationships,
	}
}

// GenerateActivity returns one activity line for userID; extra keys are
// merged in as unmodelled payload.
func GenerateActivity(eventID, userID string, extra map[string]any) string {
	doc := map[string]any{
		"event_type":                  "app_opened",
		"event_id":                    eventID,
		"user_id":                     userID,
		"domain":                      "discord.com",
		"accepted_languages":          []string{"en-us"},
		"accepted_languages_weighted": []string{"en-US", "en;q=0.9"},
		"client_send_timestamp":       `"2021-01-01T10:00:00.000Z"`,
		"client_track_timestamp":      `"2021-01-01T10:00:00.000Z"`,
		"timestamp":                   `"2021-01-01T10:00:01.000Z"`,
	}
	for k, v := range extra {
		doc[k] = v
	}

	data, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("failed to marshal activity: %v", err))
	}
	return string(data)
}

// MessagesCSV renders rows under the standard messages.csv header.
func MessagesCSV(rows ...[]string) string {
	return CSVWithHeader([]string{"ID", "Timestamp", "Contents", "Attachments"}, rows...)
}

// CSVWithHeader renders rows under an arbitrary header.
func CSVWithHeader(header []string, rows ...[]string) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()
	return buf.String()
}

// WriteSampleExport writes a small complete export: one account with two
// relationships, two servers, a DM and a guild channel, and one activity per
// category.
func WriteSampleExport(t *testing.T) *ExportTree {
	t.Helper()

	tree := NewExportTree(t)
	tree.WriteAccount(GenerateAccount("100", 2))
	tree.WriteServers(
		models.Server{ID: "900", Name: "O'Brien's Server"},
		models.Server{ID: "901", Name: "Gophers"},
	)

	general := "general"
	tree.WriteChannels(
		ChannelFixture{
			ID:   "10",
			Info: map[string]any{"id": "10", "type": 1, "recipients": []string{"100", "200"}},
			CSV: MessagesCSV(
				[]string{"1001", "2021-01-01 10:00:00.000000+00:00", "hello there", ""},
				[]string{"1002", "2021-01-01 10:01:00.000000+00:00", "", "https://cdn.example/a.png"},
			),
		},
		ChannelFixture{
			ID:   "20",
			Name: &general,
			Info: map[string]any{"id": "20", "type": 0, "guild": map[string]any{"id": "900", "name": "O'Brien's Server"}},
			CSV: MessagesCSV(
				[]string{"2001", "2021-01-02 09:00:00.000000+00:00", "It's a test", ""},
			),
		},
	)

	for i, category := range models.AllActivityCategories() {
		tree.WriteActivities(category, "events-2021-00000-of-00001.json",
			GenerateActivity(fmt.Sprintf("%s-%d", category, i), "100", map[string]any{"os": "linux"}),
		)
	}

	return tree
}

// GenerateTestConfig returns a valid configuration for tests.
func GenerateTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Logging.Level = "debug"
	cfg.Loader.BatchSize = 2
	return cfg
}

// GenerateRunID returns a fresh run id.
func GenerateRunID() string {
	return uuid.New().String()
}
