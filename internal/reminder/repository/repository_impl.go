package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/internal/reminder/domain"
)

type reminderRepository struct {
	genID *snowflake.Node
}

func ProvideReminderRepository(genID *snowflake.Node) domain.Repository {
	return &reminderRepository{genID: genID}
}

func (r *reminderRepository) Insert(ctx context.Context, db *gorm.DB, rem *domain.Reminder) error {
	if rem.ID == 0 {
		rem.ID = r.genID.Generate()
	}
	if rem.CreatedAt.IsZero() {
		rem.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(rem).Error
}

func (r *reminderRepository) ListDue(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]domain.Reminder, error) {
	if limit <= 0 {
		limit = 100
	}
	var rems []domain.Reminder
	err := db.WithContext(ctx).
		Where("remind_at <= ? AND fired_at IS NULL", now).
		Order("remind_at ASC").
		Limit(limit).
		Find(&rems).Error
	return rems, err
}

func (r *reminderRepository) MarkFired(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE reminders SET fired_at = ? WHERE id = ? AND fired_at IS NULL`,
		at, id,
	).Error
}

func (r *reminderRepository) ListByMember(ctx context.Context, db *gorm.DB, communityID, memberID snowflake.ID) ([]domain.Reminder, error) {
	var rems []domain.Reminder
	err := db.WithContext(ctx).
		Where("community_id = ? AND member_id = ? AND fired_at IS NULL", communityID, memberID).
		Order("remind_at ASC").
		Find(&rems).Error
	return rems, err
}

func (r *reminderRepository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM reminders WHERE id = ?`, id).Error
}
