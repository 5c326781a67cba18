package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// StickyMessage pins a recurring message to the bottom of a channel.
// LastMessageID is the provider-side id of the most recent repost, kept
// so the previous copy can be removed before the next one is sent.
type StickyMessage struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	CommunityID   snowflake.ID `gorm:"column:community_id;not null;index" json:"community_id"`
	ChannelID     snowflake.ID `gorm:"column:channel_id;not null;uniqueIndex" json:"channel_id"`
	Body          string       `gorm:"not null" json:"body"`
	LastMessageID string       `gorm:"column:last_message_id" json:"last_message_id,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (StickyMessage) TableName() string { return "sticky_messages" }
