package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CandyLog records one candy grant. member_id is the receiving member;
// giver_id is set when another member gave the candy rather than the
// gacha.
type CandyLog struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CommunityID snowflake.ID `gorm:"column:community_id;not null;index" json:"community_id"`
	MemberID    snowflake.ID `gorm:"column:member_id;not null;index" json:"member_id"`
	GiverID     snowflake.ID `gorm:"column:giver_id;index" json:"giver_id,omitempty"`
	Amount      int          `gorm:"not null" json:"amount"`
	Reason      string       `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CandyLog) TableName() string { return "candy_logs" }
