package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// FinalizationTarget is one soft-deleted row still awaiting cascade
// cleanup.
type FinalizationTarget struct {
	ID       snowflake.ID `gorm:"column:id"`
	ClientID string       `gorm:"column:client_id"`
}

// Finalizer is the slice of a store the cascade engine needs: list rows
// with deleted_at set and batch_status PENDING, and flip one of them to
// FINALIZED. Finalize operates on soft-deleted rows by construction; it
// must never match a live row.
type Finalizer interface {
	FinalizationTargets(ctx context.Context, db *gorm.DB) ([]FinalizationTarget, error)
	Finalize(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}

// CommunityRepository persists the tenant roots. Communities are never
// scoped by another community, so its lookups key on (category,
// client_id) alone.
type CommunityRepository interface {
	Finalizer

	Insert(ctx context.Context, db *gorm.DB, community *Community) error
	FindIDByClientID(ctx context.Context, db *gorm.DB, category CategoryType, clientID string) (snowflake.ID, error)
	FindClientID(ctx context.Context, db *gorm.DB, id snowflake.ID) (string, error)
	ListLiveClientIDs(ctx context.Context, db *gorm.DB, category CategoryType) ([]string, error)
	SoftDeleteByID(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error)
}

// ScopedRepository is the shared surface of the four community-scoped
// kinds. All soft deletes are idempotent: a second call over the same
// rows matches nothing and reports zero.
type ScopedRepository interface {
	Finalizer

	FindID(ctx context.Context, db *gorm.DB, category CategoryType, clientID string, communityID snowflake.ID) (snowflake.ID, error)
	FindClientID(ctx context.Context, db *gorm.DB, id snowflake.ID) (string, error)
	SoftDeleteByClientID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, clientID string, at time.Time) (bool, error)
	SoftDeleteByCommunityID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, at time.Time) (int64, error)
	// DeleteNotBelongingTo soft-deletes every live row under the tenant
	// whose client_id is absent from liveClientIDs. Callers must not
	// pass an empty list; an empty snapshot means "unknown", not
	// "everyone left".
	DeleteNotBelongingTo(ctx context.Context, db *gorm.DB, communityID snowflake.ID, liveClientIDs []string, at time.Time) (int64, error)
}

type MemberRepository interface {
	ScopedRepository

	Insert(ctx context.Context, db *gorm.DB, member *Member) error
	BulkInsert(ctx context.Context, db *gorm.DB, members []*Member) error
}

type ChannelRepository interface {
	ScopedRepository

	Insert(ctx context.Context, db *gorm.DB, channel *Channel) error
	BulkInsert(ctx context.Context, db *gorm.DB, channels []*Channel) error
}

type RoleRepository interface {
	ScopedRepository

	Insert(ctx context.Context, db *gorm.DB, role *Role) error
	BulkInsert(ctx context.Context, db *gorm.DB, roles []*Role) error
}

type MessageRepository interface {
	ScopedRepository

	Insert(ctx context.Context, db *gorm.DB, message *Message) error
	SoftDeleteByChannelID(ctx context.Context, db *gorm.DB, channelID snowflake.ID, at time.Time) (int64, error)
}
