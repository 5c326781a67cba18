package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, route *RelayRoute) error

	// ListByChannel returns the enabled routes for a channel.
	ListByChannel(ctx context.Context, db *gorm.DB, channelID snowflake.ID) ([]RelayRoute, error)

	SetEnabled(ctx context.Context, db *gorm.DB, id snowflake.ID, enabled bool) error

	DeleteByChannel(ctx context.Context, db *gorm.DB, channelID snowflake.ID) error
}
