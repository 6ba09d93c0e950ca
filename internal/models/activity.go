package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ActivityCategory is the tracking bucket an activity event was exported under.
type ActivityCategory int

// Activity categories, in the order they are read and loaded.
const (
	ActivityAnalytics ActivityCategory = iota + 1
	ActivityModeling
	ActivityReporting
	ActivityTns
)

var activityCategoryNames = map[ActivityCategory]string{
	ActivityAnalytics: "analytics",
	ActivityModeling:  "modeling",
	ActivityReporting: "reporting",
	ActivityTns:       "tns",
}

// AllActivityCategories returns every category in load order.
func AllActivityCategories() []ActivityCategory {
	return []ActivityCategory{ActivityAnalytics, ActivityModeling, ActivityReporting, ActivityTns}
}

// String returns the directory and store name of the category.
func (c ActivityCategory) String() string {
	if name, ok := activityCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ActivityCategory(%d)", int(c))
}

// IsValid reports whether c is one of the four known categories.
func (c ActivityCategory) IsValid() bool {
	_, ok := activityCategoryNames[c]
	return ok
}

// ParseActivityCategory maps a store/directory name back to its category.
func ParseActivityCategory(name string) (ActivityCategory, error) {
	for c, n := range activityCategoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown activity category: %q", name)
}

// Activity is one tracking event from an activity/<category>/*.json file.
type Activity struct {
	Category                  ActivityCategory `json:"-"`
	EventID                   string
	EventType                 string
	UserID                    string
	Domain                    string
	ClientSendTimestamp       string
	ClientTrackTimestamp      string
	Timestamp                 string
	AcceptedLanguages         []string
	AcceptedLanguagesWeighted []string
	// Other holds every key not listed above, values kept byte-for-byte.
	Other map[string]json.RawMessage
}

var errNotObject = errors.New("activity must be a JSON object")

// UnmarshalJSON decodes the modelled keys and keeps the remainder in Other.
func (a *Activity) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errNotObject
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"event_id", &a.EventID},
		{"event_type", &a.EventType},
		{"user_id", &a.UserID},
		{"domain", &a.Domain},
		{"client_send_timestamp", &a.ClientSendTimestamp},
		{"client_track_timestamp", &a.ClientTrackTimestamp},
		{"timestamp", &a.Timestamp},
	}
	for _, f := range strs {
		raw, err := takeRequired(fields, f.key)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return fmt.Errorf("field %q: %w", f.key, err)
		}
	}

	lists := []struct {
		key string
		dst *[]string
	}{
		{"accepted_languages", &a.AcceptedLanguages},
		{"accepted_languages_weighted", &a.AcceptedLanguagesWeighted},
	}
	for _, f := range lists {
		raw, ok := fields[f.key]
		if !ok {
			return fmt.Errorf("missing required field %q", f.key)
		}
		delete(fields, f.key)
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return fmt.Errorf("field %q: %w", f.key, err)
		}
	}

	a.Other = fields
	return nil
}

// OtherJSON serializes the unmodelled keys for storage as an opaque blob.
func (a *Activity) OtherJSON() ([]byte, error) {
	if len(a.Other) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(a.Other)
}

func takeRequired(fields map[string]json.RawMessage, key string) (json.RawMessage, error) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("missing required field %q", key)
	}
	delete(fields, key)
	return raw, nil
}
