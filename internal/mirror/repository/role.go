package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sodacandy/candybot/internal/mirror/domain"
	"gorm.io/gorm"
)

type roleRepo struct {
	table table
	genID *snowflake.Node
}

func ProvideRole(genID *snowflake.Node) domain.RoleRepository {
	return &roleRepo{table: table{name: domain.Role{}.TableName()}, genID: genID}
}

func (r *roleRepo) Insert(ctx context.Context, db *gorm.DB, role *domain.Role) error {
	r.fill(role)
	return db.WithContext(ctx).Create(role).Error
}

func (r *roleRepo) BulkInsert(ctx context.Context, db *gorm.DB, roles []*domain.Role) error {
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		r.fill(role)
	}
	return db.WithContext(ctx).CreateInBatches(roles, 100).Error
}

func (r *roleRepo) fill(role *domain.Role) {
	if role.ID == 0 {
		role.ID = r.genID.Generate()
	}
	now := time.Now().UTC()
	if role.CreatedAt.IsZero() {
		role.CreatedAt = now
	}
	if role.UpdatedAt.IsZero() {
		role.UpdatedAt = now
	}
	if role.BatchStatus == "" {
		role.BatchStatus = domain.BatchStatusPending
	}
}

func (r *roleRepo) FindID(ctx context.Context, db *gorm.DB, category domain.CategoryType, clientID string, communityID snowflake.ID) (snowflake.ID, error) {
	return r.table.findID(ctx, db, category, clientID, communityID)
}

func (r *roleRepo) FindClientID(ctx context.Context, db *gorm.DB, id snowflake.ID) (string, error) {
	return r.table.findClientID(ctx, db, id)
}

func (r *roleRepo) SoftDeleteByClientID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, clientID string, at time.Time) (bool, error) {
	return r.table.softDeleteByClientID(ctx, db, communityID, clientID, at)
}

func (r *roleRepo) SoftDeleteByCommunityID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, at time.Time) (int64, error) {
	return r.table.softDeleteByCommunityID(ctx, db, communityID, at)
}

func (r *roleRepo) DeleteNotBelongingTo(ctx context.Context, db *gorm.DB, communityID snowflake.ID, liveClientIDs []string, at time.Time) (int64, error) {
	return r.table.deleteNotBelongingTo(ctx, db, communityID, liveClientIDs, at)
}

func (r *roleRepo) FinalizationTargets(ctx context.Context, db *gorm.DB) ([]domain.FinalizationTarget, error) {
	return r.table.finalizationTargets(ctx, db)
}

func (r *roleRepo) Finalize(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	return r.table.finalize(ctx, db, id, time.Now().UTC())
}
