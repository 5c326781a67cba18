package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sodacandy/candybot/internal/sticky/domain"
)

type stickyRepository struct {
	genID *snowflake.Node
}

func ProvideStickyRepository(genID *snowflake.Node) domain.Repository {
	return &stickyRepository{genID: genID}
}

func (r *stickyRepository) Upsert(ctx context.Context, db *gorm.DB, sticky *domain.StickyMessage) error {
	now := time.Now().UTC()
	if sticky.ID == 0 {
		sticky.ID = r.genID.Generate()
	}
	if sticky.CreatedAt.IsZero() {
		sticky.CreatedAt = now
	}
	sticky.UpdatedAt = now
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(sticky).Error
}

func (r *stickyRepository) FindByChannel(ctx context.Context, db *gorm.DB, channelID snowflake.ID) (*domain.StickyMessage, error) {
	var sticky domain.StickyMessage
	err := db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		First(&sticky).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sticky, nil
}

func (r *stickyRepository) UpdateLastMessageID(ctx context.Context, db *gorm.DB, channelID snowflake.ID, messageID string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sticky_messages SET last_message_id = ?, updated_at = ? WHERE channel_id = ?`,
		messageID, time.Now().UTC(), channelID,
	).Error
}

func (r *stickyRepository) DeleteByChannel(ctx context.Context, db *gorm.DB, channelID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM sticky_messages WHERE channel_id = ?`, channelID,
	).Error
}
