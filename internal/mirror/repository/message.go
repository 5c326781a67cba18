package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sodacandy/candybot/internal/mirror/domain"
	"gorm.io/gorm"
)

type messageRepo struct {
	table table
	genID *snowflake.Node
}

func ProvideMessage(genID *snowflake.Node) domain.MessageRepository {
	return &messageRepo{table: table{name: domain.Message{}.TableName()}, genID: genID}
}

func (r *messageRepo) Insert(ctx context.Context, db *gorm.DB, message *domain.Message) error {
	if message.ID == 0 {
		message.ID = r.genID.Generate()
	}
	now := time.Now().UTC()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now
	}
	if message.UpdatedAt.IsZero() {
		message.UpdatedAt = now
	}
	if message.BatchStatus == "" {
		message.BatchStatus = domain.BatchStatusPending
	}
	return db.WithContext(ctx).Create(message).Error
}

func (r *messageRepo) FindID(ctx context.Context, db *gorm.DB, category domain.CategoryType, clientID string, communityID snowflake.ID) (snowflake.ID, error) {
	return r.table.findID(ctx, db, category, clientID, communityID)
}

func (r *messageRepo) FindClientID(ctx context.Context, db *gorm.DB, id snowflake.ID) (string, error) {
	return r.table.findClientID(ctx, db, id)
}

func (r *messageRepo) SoftDeleteByClientID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, clientID string, at time.Time) (bool, error) {
	return r.table.softDeleteByClientID(ctx, db, communityID, clientID, at)
}

func (r *messageRepo) SoftDeleteByCommunityID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, at time.Time) (int64, error) {
	return r.table.softDeleteByCommunityID(ctx, db, communityID, at)
}

func (r *messageRepo) SoftDeleteByChannelID(ctx context.Context, db *gorm.DB, channelID snowflake.ID, at time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE messages
		 SET deleted_at = ?, updated_at = ?
		 WHERE channel_id = ? AND deleted_at IS NULL`,
		at, at, channelID,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *messageRepo) DeleteNotBelongingTo(ctx context.Context, db *gorm.DB, communityID snowflake.ID, liveClientIDs []string, at time.Time) (int64, error) {
	return r.table.deleteNotBelongingTo(ctx, db, communityID, liveClientIDs, at)
}

func (r *messageRepo) FinalizationTargets(ctx context.Context, db *gorm.DB) ([]domain.FinalizationTarget, error) {
	return r.table.finalizationTargets(ctx, db)
}

func (r *messageRepo) Finalize(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	return r.table.finalize(ctx, db, id, time.Now().UTC())
}
