package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/internal/relay/domain"
)

type relayRepository struct {
	genID *snowflake.Node
}

func ProvideRelayRepository(genID *snowflake.Node) domain.Repository {
	return &relayRepository{genID: genID}
}

func (r *relayRepository) Insert(ctx context.Context, db *gorm.DB, route *domain.RelayRoute) error {
	if route.ID == 0 {
		route.ID = r.genID.Generate()
	}
	if route.CreatedAt.IsZero() {
		route.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(route).Error
}

func (r *relayRepository) ListByChannel(ctx context.Context, db *gorm.DB, channelID snowflake.ID) ([]domain.RelayRoute, error) {
	var routes []domain.RelayRoute
	err := db.WithContext(ctx).
		Where("channel_id = ? AND enabled = ?", channelID, true).
		Find(&routes).Error
	return routes, err
}

func (r *relayRepository) SetEnabled(ctx context.Context, db *gorm.DB, id snowflake.ID, enabled bool) error {
	return db.WithContext(ctx).Exec(
		`UPDATE relay_routes SET enabled = ? WHERE id = ?`, enabled, id,
	).Error
}

func (r *relayRepository) DeleteByChannel(ctx context.Context, db *gorm.DB, channelID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM relay_routes WHERE channel_id = ?`, channelID,
	).Error
}
