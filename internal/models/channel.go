package models

// ChannelType represents Discord channel types
type ChannelType int

// Discord channel type constants
const (
	ChannelTypeGuildText          ChannelType = 0
	ChannelTypeDM                 ChannelType = 1
	ChannelTypeGuildVoice         ChannelType = 2
	ChannelTypeGroupDM            ChannelType = 3
	ChannelTypeGuildCategory      ChannelType = 4
	ChannelTypeGuildNews          ChannelType = 5
	ChannelTypeGuildStore         ChannelType = 6
	ChannelTypeGuildNewsThread    ChannelType = 10
	ChannelTypeGuildPublicThread  ChannelType = 11
	ChannelTypeGuildPrivateThread ChannelType = 12
	ChannelTypeGuildStageVoice    ChannelType = 13
	ChannelTypeGuildForum         ChannelType = 15
)

// IsPrivate reports whether the channel type lives outside any guild.
// Only private channels carry a recipient list in the export.
func (t ChannelType) IsPrivate() bool {
	return t == ChannelTypeDM || t == ChannelTypeGroupDM
}

// Server is a guild the account belongs to (or belonged to).
type Server struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Channel is one exported channel together with the messages the account sent in it.
type Channel struct {
	ID   string
	Type *ChannelType
	// Name comes from messages/index.json and is absent for most DMs.
	Name       *string
	Recipients []string
	Guild      *Server
	// Messages keep the row order of messages.csv.
	Messages []Message
}

// ServerID returns the owning guild id, or nil for channels outside a guild.
func (c *Channel) ServerID() *string {
	if c.Guild == nil {
		return nil
	}
	id := c.Guild.ID
	return &id
}

// Message is one row of a channel's messages.csv.
type Message struct {
	ID          string
	Timestamp   string
	Contents    *string
	Attachments *string
}
