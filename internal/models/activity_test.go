package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleActivity = `{
	"event_type": "app_opened",
	"event_id": "AQEAAB",
	"user_id": "111",
	"domain": "discord.com",
	"accepted_languages": ["en-us", "de"],
	"accepted_languages_weighted": ["en-US;q=0.9"],
	"client_send_timestamp": "\"2021-01-01T10:00:00.000Z\"",
	"client_track_timestamp": "\"2021-01-01T10:00:00.000Z\"",
	"timestamp": "\"2021-01-01T10:00:01.000Z\"",
	"foo": "bar",
	"nested": {"a": [1, 2, 3]}
}`

func TestActivityCategory_Names(t *testing.T) {
	tests := []struct {
		category ActivityCategory
		name     string
	}{
		{ActivityAnalytics, "analytics"},
		{ActivityModeling, "modeling"},
		{ActivityReporting, "reporting"},
		{ActivityTns, "tns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.category.String())
			assert.True(t, tt.category.IsValid())

			parsed, err := ParseActivityCategory(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.category, parsed)
		})
	}
}

func TestActivityCategory_Unknown(t *testing.T) {
	var zero ActivityCategory
	assert.False(t, zero.IsValid())
	assert.Equal(t, "ActivityCategory(0)", zero.String())

	_, err := ParseActivityCategory("Analytics")
	assert.Error(t, err)
}

func TestAllActivityCategories_Order(t *testing.T) {
	assert.Equal(t,
		[]ActivityCategory{ActivityAnalytics, ActivityModeling, ActivityReporting, ActivityTns},
		AllActivityCategories(),
	)
}

func TestActivity_UnmarshalKeepsUnknownFields(t *testing.T) {
	var a Activity
	require.NoError(t, json.Unmarshal([]byte(sampleActivity), &a))

	assert.Equal(t, "AQEAAB", a.EventID)
	assert.Equal(t, "app_opened", a.EventType)
	assert.Equal(t, "111", a.UserID)
	assert.Equal(t, "discord.com", a.Domain)
	assert.Equal(t, []string{"en-us", "de"}, a.AcceptedLanguages)
	assert.Equal(t, []string{"en-US;q=0.9"}, a.AcceptedLanguagesWeighted)
	assert.Equal(t, `"2021-01-01T10:00:01.000Z"`, a.Timestamp)

	require.Len(t, a.Other, 2)
	assert.JSONEq(t, `"bar"`, string(a.Other["foo"]))
	assert.JSONEq(t, `{"a": [1, 2, 3]}`, string(a.Other["nested"]))
}

func TestActivity_OtherJSONRoundTrip(t *testing.T) {
	var a Activity
	require.NoError(t, json.Unmarshal([]byte(sampleActivity), &a))

	blob, err := a.OtherJSON()
	require.NoError(t, err)

	var other map[string]any
	require.NoError(t, json.Unmarshal(blob, &other))
	assert.Equal(t, "bar", other["foo"])
	assert.NotContains(t, other, "event_id")
}

func TestActivity_OtherJSONEmpty(t *testing.T) {
	a := Activity{}

	blob, err := a.OtherJSON()

	require.NoError(t, err)
	assert.Equal(t, "{}", string(blob))
}

func TestActivity_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedErr string
	}{
		{"not an object", `[1, 2]`, "cannot unmarshal"},
		{"null", `null`, "must be a JSON object"},
		{"missing event id", `{"event_type": "x"}`, `missing required field "event_id"`},
		{
			name: "null domain",
			input: `{"event_id": "1", "event_type": "x", "user_id": "u", "domain": null,
				"client_send_timestamp": "a", "client_track_timestamp": "b", "timestamp": "c",
				"accepted_languages": [], "accepted_languages_weighted": []}`,
			expectedErr: `missing required field "domain"`,
		},
		{
			name: "wrong type",
			input: `{"event_id": 7, "event_type": "x", "user_id": "u", "domain": "d",
				"client_send_timestamp": "a", "client_track_timestamp": "b", "timestamp": "c",
				"accepted_languages": [], "accepted_languages_weighted": []}`,
			expectedErr: `field "event_id"`,
		},
		{
			name: "missing language list",
			input: `{"event_id": "1", "event_type": "x", "user_id": "u", "domain": "d",
				"client_send_timestamp": "a", "client_track_timestamp": "b", "timestamp": "c",
				"accepted_languages": []}`,
			expectedErr: `missing required field "accepted_languages_weighted"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Activity
			err := json.Unmarshal([]byte(tt.input), &a)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestActivity_NullLanguageListsAreEmpty(t *testing.T) {
	input := `{"event_id": "1", "event_type": "x", "user_id": "u", "domain": "d",
		"client_send_timestamp": "a", "client_track_timestamp": "b", "timestamp": "c",
		"accepted_languages": null, "accepted_languages_weighted": null}`

	var a Activity
	require.NoError(t, json.Unmarshal([]byte(input), &a))

	assert.Empty(t, a.AcceptedLanguages)
	assert.Empty(t, a.AcceptedLanguagesWeighted)
	assert.Empty(t, a.Other)
}
