package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sodacandy/candybot/internal/mirror/domain"
	"gorm.io/gorm"
)

// table implements the lifecycle SQL shared by every mirrored kind. The
// five tables carry identical lifecycle columns, so each repository is
// a thin typed wrapper over these helpers. Every statement spells out
// its deleted_at predicate: live-only operations filter on
// deleted_at IS NULL, finalization explicitly targets deleted rows.
type table struct {
	name string
}

func (t table) softDeleteByClientID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, clientID string, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE `+t.name+`
		 SET deleted_at = ?, updated_at = ?
		 WHERE community_id = ? AND client_id = ? AND deleted_at IS NULL`,
		at, at, communityID, clientID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (t table) softDeleteByCommunityID(ctx context.Context, db *gorm.DB, communityID snowflake.ID, at time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE `+t.name+`
		 SET deleted_at = ?, updated_at = ?
		 WHERE community_id = ? AND deleted_at IS NULL`,
		at, at, communityID,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (t table) deleteNotBelongingTo(ctx context.Context, db *gorm.DB, communityID snowflake.ID, liveClientIDs []string, at time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE `+t.name+`
		 SET deleted_at = ?, updated_at = ?
		 WHERE community_id = ? AND deleted_at IS NULL AND client_id NOT IN (?)`,
		at, at, communityID, liveClientIDs,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (t table) findID(ctx context.Context, db *gorm.DB, category domain.CategoryType, clientID string, communityID snowflake.ID) (snowflake.ID, error) {
	var row struct {
		ID snowflake.ID `gorm:"column:id"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM `+t.name+`
		 WHERE category_type = ? AND client_id = ? AND community_id = ? AND deleted_at IS NULL`,
		category, clientID, communityID,
	).Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.ID == 0 {
		return 0, domain.ErrNotFound
	}
	return row.ID, nil
}

func (t table) findClientID(ctx context.Context, db *gorm.DB, id snowflake.ID) (string, error) {
	var row struct {
		ClientID string `gorm:"column:client_id"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT client_id FROM `+t.name+` WHERE id = ?`,
		id,
	).Scan(&row).Error
	if err != nil {
		return "", err
	}
	if row.ClientID == "" {
		return "", domain.ErrNotFound
	}
	return row.ClientID, nil
}

func (t table) finalizationTargets(ctx context.Context, db *gorm.DB) ([]domain.FinalizationTarget, error) {
	var targets []domain.FinalizationTarget
	err := db.WithContext(ctx).Raw(
		`SELECT id, client_id FROM ` + t.name + `
		 WHERE deleted_at IS NOT NULL AND batch_status = 'PENDING'
		 ORDER BY id`,
	).Scan(&targets).Error
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// finalize flips batch_status for one soft-deleted row. The predicate
// keeps the transition monotonic: an already-finalized or still-live
// row matches nothing.
func (t table) finalize(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE `+t.name+`
		 SET batch_status = 'FINALIZED', updated_at = ?
		 WHERE id = ? AND batch_status = 'PENDING' AND deleted_at IS NOT NULL`,
		at, id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
