package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// The five mirrored entity kinds share the same lifecycle columns:
// client_id carries the external identity as a string (platform ids
// overflow float53), deleted_at is an explicit nullable marker rather
// than gorm's auto-scoped DeletedAt so that live-only and
// include-deleted queries are spelled out at each call site, and
// batch_status records whether cascade cleanup has run for a
// soft-deleted row.

type Community struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CategoryType CategoryType `gorm:"column:category_type;not null" json:"category_type"`
	ClientID     string       `gorm:"column:client_id;not null" json:"client_id"`
	BatchStatus  BatchStatus  `gorm:"column:batch_status;not null;default:PENDING" json:"batch_status"`
	DeletedAt    *time.Time   `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Community) TableName() string { return "communities" }

type Member struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CategoryType CategoryType `gorm:"column:category_type;not null" json:"category_type"`
	ClientID     string       `gorm:"column:client_id;not null" json:"client_id"`
	CommunityID  snowflake.ID `gorm:"column:community_id;not null;index" json:"community_id"`
	MemberType   MemberType   `gorm:"column:member_type;not null;default:human" json:"member_type"`
	BatchStatus  BatchStatus  `gorm:"column:batch_status;not null;default:PENDING" json:"batch_status"`
	DeletedAt    *time.Time   `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Member) TableName() string { return "members" }

type Channel struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CategoryType CategoryType `gorm:"column:category_type;not null" json:"category_type"`
	ClientID     string       `gorm:"column:client_id;not null" json:"client_id"`
	CommunityID  snowflake.ID `gorm:"column:community_id;not null;index" json:"community_id"`
	ChannelType  ChannelType  `gorm:"column:channel_type;not null;default:text" json:"channel_type"`
	BatchStatus  BatchStatus  `gorm:"column:batch_status;not null;default:PENDING" json:"batch_status"`
	DeletedAt    *time.Time   `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Channel) TableName() string { return "channels" }

type Role struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CategoryType CategoryType `gorm:"column:category_type;not null" json:"category_type"`
	ClientID     string       `gorm:"column:client_id;not null" json:"client_id"`
	CommunityID  snowflake.ID `gorm:"column:community_id;not null;index" json:"community_id"`
	BatchStatus  BatchStatus  `gorm:"column:batch_status;not null;default:PENDING" json:"batch_status"`
	DeletedAt    *time.Time   `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Role) TableName() string { return "roles" }

// Message keeps weak references to the member and channel that produced
// it. They are used for cascade lookups only, never for ownership.
type Message struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CategoryType CategoryType `gorm:"column:category_type;not null" json:"category_type"`
	ClientID     string       `gorm:"column:client_id;not null" json:"client_id"`
	CommunityID  snowflake.ID `gorm:"column:community_id;not null;index" json:"community_id"`
	MemberID     snowflake.ID `gorm:"column:member_id;index" json:"member_id"`
	ChannelID    snowflake.ID `gorm:"column:channel_id;index" json:"channel_id"`
	BatchStatus  BatchStatus  `gorm:"column:batch_status;not null;default:PENDING" json:"batch_status"`
	DeletedAt    *time.Time   `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Message) TableName() string { return "messages" }
