package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rem *Reminder) error

	// ListDue returns unfired reminders whose remind_at is at or before
	// now, oldest first.
	ListDue(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]Reminder, error)

	// MarkFired stamps fired_at; a reminder is only ever fired once.
	MarkFired(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error

	ListByMember(ctx context.Context, db *gorm.DB, communityID, memberID snowflake.ID) ([]Reminder, error)

	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
