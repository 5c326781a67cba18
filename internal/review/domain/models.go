package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type AssignmentStatus string

const (
	AssignmentOpen AssignmentStatus = "OPEN"
	AssignmentDone AssignmentStatus = "DONE"
)

// ReviewAssignment tracks a pull-request review handed to a member.
type ReviewAssignment struct {
	ID          snowflake.ID     `gorm:"primaryKey" json:"id"`
	CommunityID snowflake.ID     `gorm:"column:community_id;not null;index" json:"community_id"`
	MemberID    snowflake.ID     `gorm:"column:member_id;not null;index" json:"member_id"`
	PRURL       string           `gorm:"column:pr_url;not null" json:"pr_url"`
	Status      AssignmentStatus `gorm:"not null;default:OPEN" json:"status"`
	CreatedAt   time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	DoneAt      *time.Time       `gorm:"column:done_at" json:"done_at,omitempty"`
}

func (ReviewAssignment) TableName() string { return "review_assignments" }
