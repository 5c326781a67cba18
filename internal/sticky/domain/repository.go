package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert inserts or replaces the sticky for a channel; a channel has
	// at most one.
	Upsert(ctx context.Context, db *gorm.DB, sticky *StickyMessage) error

	FindByChannel(ctx context.Context, db *gorm.DB, channelID snowflake.ID) (*StickyMessage, error)

	// UpdateLastMessageID records the provider id of the latest repost.
	UpdateLastMessageID(ctx context.Context, db *gorm.DB, channelID snowflake.ID, messageID string) error

	DeleteByChannel(ctx context.Context, db *gorm.DB, channelID snowflake.ID) error
}
