package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationType_IsValid(t *testing.T) {
	tests := []struct {
		code  RelationType
		valid bool
	}{
		{RelationTypeNone, true},
		{RelationTypeFriend, true},
		{RelationTypeBlocked, true},
		{RelationTypePendingIncoming, true},
		{RelationTypePendingOutgoing, true},
		{RelationTypeImplicit, true},
		{-1, false},
		{6, false},
		{99, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.code.IsValid(), "code %d", tt.code)
	}
}

func TestAccount_JSONOptionalFields(t *testing.T) {
	input := `{
		"id": "111", "username": "alice", "discriminator": 1234, "email": "a@example.com",
		"verified": true, "avatar_hash": "abc", "has_mobile": false,
		"needs_email_verification": false, "premium_until": null, "flags": 32,
		"phone": "+100", "temp_banned_until": null, "ip": "127.0.0.1",
		"user_profile_metadata": {"boosting_started_at": "2020-01-01", "premium_started_at": null},
		"relationships": [
			{"id": "222", "type": 1, "nickname": null,
			 "user": {"id": "222", "username": "bob", "avatar": null, "discriminator": "0001", "public_flags": 0}}
		]
	}`

	var account Account
	require.NoError(t, json.Unmarshal([]byte(input), &account))

	assert.Nil(t, account.PremiumUntil)
	require.NotNil(t, account.Phone)
	assert.Equal(t, "+100", *account.Phone)
	require.NotNil(t, account.ProfileMetadata.BoostingStartedAt)
	assert.Nil(t, account.ProfileMetadata.PremiumStartedAt)

	require.Len(t, account.Relationships, 1)
	rel := account.Relationships[0]
	assert.Equal(t, RelationTypeFriend, rel.Type)
	assert.Nil(t, rel.Nickname)
	assert.Nil(t, rel.User.Avatar)
	assert.Nil(t, rel.User.AvatarDecoration)
	assert.Equal(t, "0001", rel.User.Discriminator)
}
