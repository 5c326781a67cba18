package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, a *ReviewAssignment) error

	// ListOpenByMember returns a member's outstanding reviews, oldest
	// first.
	ListOpenByMember(ctx context.Context, db *gorm.DB, communityID, memberID snowflake.ID) ([]ReviewAssignment, error)

	// CountOpen is used for round-robin assignment: the member with the
	// fewest open reviews gets the next one.
	CountOpen(ctx context.Context, db *gorm.DB, communityID, memberID snowflake.ID) (int64, error)

	// PickNext returns the candidate with the fewest open assignments.
	// Ties go to the earliest candidate in the slice. ErrNoCandidates
	// when the slice is empty.
	PickNext(ctx context.Context, db *gorm.DB, communityID snowflake.ID, candidates []snowflake.ID) (snowflake.ID, error)

	MarkDone(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
}
