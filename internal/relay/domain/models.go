package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// RelayRoute forwards messages posted in a channel to a translation
// target language.
type RelayRoute struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CommunityID snowflake.ID `gorm:"column:community_id;not null;index" json:"community_id"`
	ChannelID   snowflake.ID `gorm:"column:channel_id;not null;index" json:"channel_id"`
	TargetLang  string       `gorm:"column:target_lang;not null" json:"target_lang"`
	Enabled     bool         `gorm:"not null;default:true" json:"enabled"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (RelayRoute) TableName() string { return "relay_routes" }
