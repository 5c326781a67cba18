package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/pkg/db/pagination"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, log *CandyLog) error

	// SumByMember totals the candy a member holds within one community.
	SumByMember(ctx context.Context, db *gorm.DB, communityID, memberID snowflake.ID) (int64, error)

	// ListRecent returns a community's grant history newest first,
	// cursor-paginated over the snowflake id.
	ListRecent(ctx context.Context, db *gorm.DB, communityID snowflake.ID, page pagination.Pagination) ([]CandyLog, pagination.PageInfo, error)
}
