package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sodacandy/candybot/internal/mirror/domain"
	"gorm.io/gorm"
)

type channelRepo struct {
	table table
	genID *snowflake.Node
}

func ProvideChannel(genID *snowflake.Node) domain.ChannelRepository {
	return &channelRepo{table: table{name: domain.Channel{}.TableName()}, genID: genID}
}

func (r *channelRepo) Insert(ctx context.Context, db *gorm.DB, channel *domain.Channel) error {
	r.fill(channel)
	return db.WithContext(ctx).Create(channel).Error
}

func (r *channelRepo) BulkInsert(ctx context.Context, db *gorm.DB, channels []*domain.Channel) error {
	if len(channels) == 0 {
		return nil
	}
	for _, c := range channels {
		r.fill(c)
	}
	return db.WithContext(ctx).CreateInBatches(channels, 100).Error
}

func (r *channelRepo) fill(c *domain.Channel) {
	if c.ID == 0 {
		c.ID = r.genID.Generate()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	if c.ChannelType == "" {
		c.ChannelType = domain.ChannelTypeText
	}
	if c.BatchStatus == "" {
		c.BatchStatus = domain.BatchStatusPending
	}
}

func (r *channelRepo) FindID(ctx context.Context, db *gorm.DB, category domain.CategoryType, clientID string, communityID snowflake.ID) (snowflake.ID, error) {
	return r.table.findID(ctx, db, category, clientID, communityID)
}

func (r *channelRepo) FindClientID(ctx context.Context, db *gorm.DB, id snowflake.ID) (string, error) {
	return r.table.findClientID(ctx, db, id)
}

func (r *channelRepo) SoftDeleteByClientID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, clientID string, at time.Time) (bool, error) {
	return r.table.softDeleteByClientID(ctx, db, communityID, clientID, at)
}

func (r *channelRepo) SoftDeleteByCommunityID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, at time.Time) (int64, error) {
	return r.table.softDeleteByCommunityID(ctx, db, communityID, at)
}

func (r *channelRepo) DeleteNotBelongingTo(ctx context.Context, db *gorm.DB, communityID snowflake.ID, liveClientIDs []string, at time.Time) (int64, error) {
	return r.table.deleteNotBelongingTo(ctx, db, communityID, liveClientIDs, at)
}

func (r *channelRepo) FinalizationTargets(ctx context.Context, db *gorm.DB) ([]domain.FinalizationTarget, error) {
	return r.table.finalizationTargets(ctx, db)
}

func (r *channelRepo) Finalize(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	return r.table.finalize(ctx, db, id, time.Now().UTC())
}
