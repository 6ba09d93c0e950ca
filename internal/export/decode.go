package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// openExportFile opens path, mapping a missing file to ErrMissingFile.
func openExportFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrMissingFile, path, err)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// readJSONFile reads a whole JSON document from path without decoding it.
func readJSONFile(path string) (json.RawMessage, error) {
	f, err := openExportFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return raw, nil
}

// objectWithKeys checks that raw is a JSON object carrying every key in
// required with a non-null value, and returns its members.
func objectWithKeys(raw json.RawMessage, what string, required ...string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%s: expected an object, got null", what)
	}
	for _, key := range required {
		value, ok := fields[key]
		if !ok || isNull(value) {
			return nil, fmt.Errorf("%s: missing required field %q", what, key)
		}
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
