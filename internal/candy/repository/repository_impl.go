package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/internal/candy/domain"
	"github.com/sodacandy/candybot/pkg/db/pagination"
)

type candyRepository struct {
	genID *snowflake.Node
}

func ProvideCandyRepository(genID *snowflake.Node) domain.Repository {
	return &candyRepository{genID: genID}
}

func (r *candyRepository) Insert(ctx context.Context, db *gorm.DB, log *domain.CandyLog) error {
	if log.ID == 0 {
		log.ID = r.genID.Generate()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(log).Error
}

func (r *candyRepository) SumByMember(ctx context.Context, db *gorm.DB, communityID, memberID snowflake.ID) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM candy_logs WHERE community_id = ? AND member_id = ?`,
		communityID, memberID,
	).Scan(&total).Error
	return total, err
}

func (r *candyRepository) ListRecent(ctx context.Context, db *gorm.DB, communityID snowflake.ID, page pagination.Pagination) ([]domain.CandyLog, pagination.PageInfo, error) {
	size := page.PageSize
	if size <= 0 {
		size = 20
	}

	query := db.WithContext(ctx).Where("community_id = ?", communityID)
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, pagination.PageInfo{}, err
		}
		// Snowflake ids are time-ordered, so the id alone is the cursor.
		lastID, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, pagination.PageInfo{}, err
		}
		query = query.Where("id < ?", lastID)
	}

	var logs []domain.CandyLog
	if err := query.Order("id DESC").Limit(size + 1).Find(&logs).Error; err != nil {
		return nil, pagination.PageInfo{}, err
	}

	info := pagination.PageInfo{}
	if len(logs) > size {
		logs = logs[:size]
		info.HasMore = true
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID: strconv.FormatInt(int64(logs[len(logs)-1].ID), 10),
		})
		if err != nil {
			return nil, pagination.PageInfo{}, err
		}
		info.NextPageToken = token
	}
	return logs, info, nil
}
