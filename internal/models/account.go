// Package models defines the records read from a Discord data export.
// Records are built once by the export readers and never mutated afterwards.
package models

// RelationType is Discord's relationship code.
type RelationType int

// Relationship type constants
const (
	RelationTypeNone            RelationType = 0
	RelationTypeFriend          RelationType = 1
	RelationTypeBlocked         RelationType = 2
	RelationTypePendingIncoming RelationType = 3
	RelationTypePendingOutgoing RelationType = 4
	RelationTypeImplicit        RelationType = 5
)

// IsValid reports whether t is one of the known relationship codes.
func (t RelationType) IsValid() bool {
	return t >= RelationTypeNone && t <= RelationTypeImplicit
}

// Account is the exporting user, read from account/user.json.
type Account struct {
	ID                     string          `json:"id"`
	Username               string          `json:"username"`
	Discriminator          int             `json:"discriminator"`
	Email                  string          `json:"email"`
	Verified               bool            `json:"verified"`
	AvatarHash             string          `json:"avatar_hash"`
	HasMobile              bool            `json:"has_mobile"`
	NeedsEmailVerification bool            `json:"needs_email_verification"`
	PremiumUntil           *string         `json:"premium_until"`
	Flags                  int64           `json:"flags"`
	Phone                  *string         `json:"phone"`
	TempBannedUntil        *string         `json:"temp_banned_until"`
	IP                     string          `json:"ip"`
	ProfileMetadata        ProfileMetadata `json:"user_profile_metadata"`
	Relationships          []Relationship  `json:"relationships"`
}

// ProfileMetadata holds the nitro/boost start dates of the account.
type ProfileMetadata struct {
	BoostingStartedAt *string `json:"boosting_started_at"`
	PremiumStartedAt  *string `json:"premium_started_at"`
}

// Relationship links the account to another user.
type Relationship struct {
	ID       string       `json:"id"`
	Type     RelationType `json:"type"`
	Nickname *string      `json:"nickname"`
	User     RelationUser `json:"user"`
}

// RelationUser is the snapshot of the other user taken at export time.
type RelationUser struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Avatar           *string `json:"avatar"`
	AvatarDecoration *string `json:"avatar_decoration"`
	Discriminator    string  `json:"discriminator"`
	PublicFlags      int64   `json:"public_flags"`
}
