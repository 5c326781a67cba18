package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/internal/review/domain"
)

func newRepo(t *testing.T) (domain.Repository, *gorm.DB, *snowflake.Node) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS review_assignments (
		id BIGINT PRIMARY KEY,
		community_id BIGINT NOT NULL,
		member_id BIGINT NOT NULL,
		pr_url TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'OPEN',
		created_at TIMESTAMP NOT NULL,
		done_at TIMESTAMP
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return ProvideReviewRepository(node), db, node
}

func assign(t *testing.T, repo domain.Repository, db *gorm.DB, communityID, memberID snowflake.ID, url string) *domain.ReviewAssignment {
	t.Helper()
	a := &domain.ReviewAssignment{CommunityID: communityID, MemberID: memberID, PRURL: url}
	require.NoError(t, repo.Insert(context.Background(), db, a))
	return a
}

func TestReviewAssignments(t *testing.T) {
	repo, db, node := newRepo(t)
	ctx := context.Background()
	communityID := node.Generate()
	alice := node.Generate()
	bob := node.Generate()

	a1 := assign(t, repo, db, communityID, alice, "https://example.com/pr/1")
	assign(t, repo, db, communityID, alice, "https://example.com/pr/2")
	assign(t, repo, db, communityID, bob, "https://example.com/pr/3")

	t.Run("ListOpenByMember", func(t *testing.T) {
		open, err := repo.ListOpenByMember(ctx, db, communityID, alice)
		require.NoError(t, err)
		require.Len(t, open, 2)
		assert.Equal(t, a1.ID, open[0].ID)
	})

	t.Run("MarkDone", func(t *testing.T) {
		require.NoError(t, repo.MarkDone(ctx, db, a1.ID, time.Now().UTC()))

		n, err := repo.CountOpen(ctx, db, communityID, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		// Second MarkDone on the same row matches nothing.
		require.NoError(t, repo.MarkDone(ctx, db, a1.ID, time.Now().UTC()))
	})
}

func TestPickNext(t *testing.T) {
	repo, db, node := newRepo(t)
	ctx := context.Background()
	communityID := node.Generate()
	alice := node.Generate()
	bob := node.Generate()
	carol := node.Generate()

	assign(t, repo, db, communityID, alice, "https://example.com/pr/1")
	assign(t, repo, db, communityID, alice, "https://example.com/pr/2")
	assign(t, repo, db, communityID, bob, "https://example.com/pr/3")

	t.Run("FewestOpenWins", func(t *testing.T) {
		next, err := repo.PickNext(ctx, db, communityID, []snowflake.ID{alice, bob, carol})
		require.NoError(t, err)
		assert.Equal(t, carol, next)
	})

	t.Run("TieBreaksOnOrder", func(t *testing.T) {
		assign(t, repo, db, communityID, carol, "https://example.com/pr/4")
		next, err := repo.PickNext(ctx, db, communityID, []snowflake.ID{bob, carol})
		require.NoError(t, err)
		assert.Equal(t, bob, next)
	})

	t.Run("NoCandidates", func(t *testing.T) {
		_, err := repo.PickNext(ctx, db, communityID, nil)
		assert.ErrorIs(t, err, domain.ErrNoCandidates)
	})
}
