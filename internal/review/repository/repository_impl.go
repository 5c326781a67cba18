package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/internal/review/domain"
)

type reviewRepository struct {
	genID *snowflake.Node
}

func ProvideReviewRepository(genID *snowflake.Node) domain.Repository {
	return &reviewRepository{genID: genID}
}

func (r *reviewRepository) Insert(ctx context.Context, db *gorm.DB, a *domain.ReviewAssignment) error {
	if a.ID == 0 {
		a.ID = r.genID.Generate()
	}
	if a.Status == "" {
		a.Status = domain.AssignmentOpen
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(a).Error
}

func (r *reviewRepository) ListOpenByMember(ctx context.Context, db *gorm.DB, communityID, memberID snowflake.ID) ([]domain.ReviewAssignment, error) {
	var out []domain.ReviewAssignment
	err := db.WithContext(ctx).
		Where("community_id = ? AND member_id = ? AND status = ?", communityID, memberID, domain.AssignmentOpen).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *reviewRepository) CountOpen(ctx context.Context, db *gorm.DB, communityID, memberID snowflake.ID) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM review_assignments WHERE community_id = ? AND member_id = ? AND status = ?`,
		communityID, memberID, domain.AssignmentOpen,
	).Scan(&n).Error
	return n, err
}

func (r *reviewRepository) PickNext(ctx context.Context, db *gorm.DB, communityID snowflake.ID, candidates []snowflake.ID) (snowflake.ID, error) {
	if len(candidates) == 0 {
		return 0, domain.ErrNoCandidates
	}
	var rows []struct {
		MemberID snowflake.ID `gorm:"column:member_id"`
		N        int64        `gorm:"column:n"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT member_id, COUNT(*) AS n FROM review_assignments
		 WHERE community_id = ? AND member_id IN ? AND status = ?
		 GROUP BY member_id`,
		communityID, candidates, domain.AssignmentOpen,
	).Scan(&rows).Error
	if err != nil {
		return 0, err
	}
	open := make(map[snowflake.ID]int64, len(rows))
	for _, row := range rows {
		open[row.MemberID] = row.N
	}
	best := candidates[0]
	for _, id := range candidates[1:] {
		if open[id] < open[best] {
			best = id
		}
	}
	return best, nil
}

func (r *reviewRepository) MarkDone(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE review_assignments SET status = ?, done_at = ? WHERE id = ? AND status = ?`,
		domain.AssignmentDone, at, id, domain.AssignmentOpen,
	).Error
}
