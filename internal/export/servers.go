package export

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/parsascontentcorner/discordexport/internal/models"
)

// ReadServers decodes servers/index.json and one guild.json per index entry.
// A single bad guild file fails the whole read.
func (p *Parser) ReadServers() ([]models.Server, error) {
	indexPath := p.path("servers", "index.json")

	raw, err := readJSONFile(indexPath)
	if err != nil {
		return nil, err
	}
	var index map[string]string
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, indexPath, err)
	}

	servers := make([]models.Server, 0, len(index))
	for _, id := range sortedKeys(index) {
		server, err := p.readServer(id)
		if err != nil {
			return nil, err
		}
		servers = append(servers, *server)
	}

	return servers, nil
}

func (p *Parser) readServer(id string) (*models.Server, error) {
	path := p.path("servers", id, "guild.json")

	raw, err := readJSONFile(path)
	if err != nil {
		return nil, err
	}
	server, err := decodeServer(raw, "guild")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return server, nil
}

func decodeServer(raw json.RawMessage, what string) (*models.Server, error) {
	if _, err := objectWithKeys(raw, what, "id", "name"); err != nil {
		return nil, err
	}
	var server models.Server
	if err := json.Unmarshal(raw, &server); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return &server, nil
}

// sortedKeys gives a stable iteration order over an index file.
func sortedKeys[V any](index map[string]V) []string {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
