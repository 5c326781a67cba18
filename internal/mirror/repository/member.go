package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sodacandy/candybot/internal/mirror/domain"
	"gorm.io/gorm"
)

type memberRepo struct {
	table table
	genID *snowflake.Node
}

func ProvideMember(genID *snowflake.Node) domain.MemberRepository {
	return &memberRepo{table: table{name: domain.Member{}.TableName()}, genID: genID}
}

func (r *memberRepo) Insert(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	r.fill(member)
	return db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) BulkInsert(ctx context.Context, db *gorm.DB, members []*domain.Member) error {
	if len(members) == 0 {
		return nil
	}
	for _, m := range members {
		r.fill(m)
	}
	return db.WithContext(ctx).CreateInBatches(members, 100).Error
}

func (r *memberRepo) fill(m *domain.Member) {
	if m.ID == 0 {
		m.ID = r.genID.Generate()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	if m.MemberType == "" {
		m.MemberType = domain.MemberTypeHuman
	}
	if m.BatchStatus == "" {
		m.BatchStatus = domain.BatchStatusPending
	}
}

func (r *memberRepo) FindID(ctx context.Context, db *gorm.DB, category domain.CategoryType, clientID string, communityID snowflake.ID) (snowflake.ID, error) {
	return r.table.findID(ctx, db, category, clientID, communityID)
}

func (r *memberRepo) FindClientID(ctx context.Context, db *gorm.DB, id snowflake.ID) (string, error) {
	return r.table.findClientID(ctx, db, id)
}

func (r *memberRepo) SoftDeleteByClientID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, clientID string, at time.Time) (bool, error) {
	return r.table.softDeleteByClientID(ctx, db, communityID, clientID, at)
}

func (r *memberRepo) SoftDeleteByCommunityID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, at time.Time) (int64, error) {
	return r.table.softDeleteByCommunityID(ctx, db, communityID, at)
}

func (r *memberRepo) DeleteNotBelongingTo(ctx context.Context, db *gorm.DB, communityID snowflake.ID, liveClientIDs []string, at time.Time) (int64, error) {
	return r.table.deleteNotBelongingTo(ctx, db, communityID, liveClientIDs, at)
}

func (r *memberRepo) FinalizationTargets(ctx context.Context, db *gorm.DB) ([]domain.FinalizationTarget, error) {
	return r.table.finalizationTargets(ctx, db)
}

func (r *memberRepo) Finalize(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	return r.table.finalize(ctx, db, id, time.Now().UTC())
}
