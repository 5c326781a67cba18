package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sodacandy/candybot/internal/mirror/domain"
	"gorm.io/gorm"
)

type communityRepo struct {
	table table
	genID *snowflake.Node
}

func ProvideCommunity(genID *snowflake.Node) domain.CommunityRepository {
	return &communityRepo{table: table{name: domain.Community{}.TableName()}, genID: genID}
}

func (r *communityRepo) Insert(ctx context.Context, db *gorm.DB, community *domain.Community) error {
	if community.ID == 0 {
		community.ID = r.genID.Generate()
	}
	now := time.Now().UTC()
	if community.CreatedAt.IsZero() {
		community.CreatedAt = now
	}
	if community.UpdatedAt.IsZero() {
		community.UpdatedAt = now
	}
	if community.BatchStatus == "" {
		community.BatchStatus = domain.BatchStatusPending
	}
	return db.WithContext(ctx).Create(community).Error
}

func (r *communityRepo) FindIDByClientID(ctx context.Context, db *gorm.DB, category domain.CategoryType, clientID string) (snowflake.ID, error) {
	var row struct {
		ID snowflake.ID `gorm:"column:id"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM communities
		 WHERE category_type = ? AND client_id = ? AND deleted_at IS NULL`,
		category, clientID,
	).Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.ID == 0 {
		return 0, domain.ErrNotFound
	}
	return row.ID, nil
}

func (r *communityRepo) FindClientID(ctx context.Context, db *gorm.DB, id snowflake.ID) (string, error) {
	return r.table.findClientID(ctx, db, id)
}

func (r *communityRepo) ListLiveClientIDs(ctx context.Context, db *gorm.DB, category domain.CategoryType) ([]string, error) {
	var clientIDs []string
	err := db.WithContext(ctx).Raw(
		`SELECT client_id FROM communities
		 WHERE category_type = ? AND deleted_at IS NULL
		 ORDER BY id`,
		category,
	).Scan(&clientIDs).Error
	if err != nil {
		return nil, err
	}
	return clientIDs, nil
}

func (r *communityRepo) SoftDeleteByID(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE communities
		 SET deleted_at = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		at, at, id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *communityRepo) FinalizationTargets(ctx context.Context, db *gorm.DB) ([]domain.FinalizationTarget, error) {
	return r.table.finalizationTargets(ctx, db)
}

func (r *communityRepo) Finalize(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	return r.table.finalize(ctx, db, id, time.Now().UTC())
}
