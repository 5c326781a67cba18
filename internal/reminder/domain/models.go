package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Reminder is a one-shot scheduled notification owned by a member and
// delivered to a channel.
type Reminder struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CommunityID snowflake.ID `gorm:"column:community_id;not null;index" json:"community_id"`
	MemberID    snowflake.ID `gorm:"column:member_id;not null;index" json:"member_id"`
	ChannelID   snowflake.ID `gorm:"column:channel_id;not null" json:"channel_id"`
	Body        string       `gorm:"not null" json:"body"`
	RemindAt    time.Time    `gorm:"column:remind_at;not null;index" json:"remind_at"`
	FiredAt     *time.Time   `gorm:"column:fired_at" json:"fired_at,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Reminder) TableName() string { return "reminders" }
