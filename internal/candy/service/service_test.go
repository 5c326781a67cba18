package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/internal/candy/domain"
	"github.com/sodacandy/candybot/internal/candy/repository"
	"github.com/sodacandy/candybot/internal/clock"
	"github.com/sodacandy/candybot/pkg/db/pagination"
)

func newService(t *testing.T) (Service, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS candy_logs (
		id BIGINT PRIMARY KEY,
		community_id BIGINT NOT NULL,
		member_id BIGINT NOT NULL,
		giver_id BIGINT NOT NULL DEFAULT 0,
		amount INTEGER NOT NULL,
		reason TEXT,
		created_at TIMESTAMP NOT NULL
	)`).Error)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParams{
		DB:    db,
		Cache: cache,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.ProvideCandyRepository(node),
	})
	return svc, db, mr
}

func TestDrawCooldown(t *testing.T) {
	svc, db, mr := newService(t)
	ctx := context.Background()

	node, _ := snowflake.NewNode(2)
	communityID := node.Generate()
	memberID := node.Generate()

	log, err := svc.Draw(ctx, communityID, memberID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, log.Amount, 1)
	assert.LessOrEqual(t, log.Amount, 5)

	// Second draw inside the window is rejected.
	_, err = svc.Draw(ctx, communityID, memberID)
	assert.ErrorIs(t, err, domain.ErrCooldown)

	// A different member has an independent cooldown.
	_, err = svc.Draw(ctx, communityID, node.Generate())
	assert.NoError(t, err)

	// After the window is over the draw succeeds again.
	mr.FastForward(9 * time.Hour)
	_, err = svc.Draw(ctx, communityID, memberID)
	assert.NoError(t, err)

	var total int64
	require.NoError(t, db.Raw(
		`SELECT COUNT(*) FROM candy_logs WHERE member_id = ?`, memberID,
	).Scan(&total).Error)
	assert.Equal(t, int64(2), total)
}

func TestGive(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	node, _ := snowflake.NewNode(2)
	communityID := node.Generate()
	giverID := node.Generate()
	receiverID := node.Generate()

	t.Run("SelfGiveRejected", func(t *testing.T) {
		_, err := svc.Give(ctx, communityID, giverID, giverID, "nice try")
		assert.ErrorIs(t, err, domain.ErrSelfGive)
	})

	log, err := svc.Give(ctx, communityID, giverID, receiverID, "helped with review")
	require.NoError(t, err)
	assert.Equal(t, receiverID, log.MemberID)
	assert.Equal(t, giverID, log.GiverID)
	assert.Equal(t, 1, log.Amount)

	_, err = svc.Give(ctx, communityID, giverID, receiverID, "again")
	assert.ErrorIs(t, err, domain.ErrCooldown)

	balance, err := svc.Balance(ctx, communityID, receiverID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance)
}

func TestHistoryPagination(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	node, _ := snowflake.NewNode(2)
	communityID := node.Generate()
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Exec(
			`INSERT INTO candy_logs (id, community_id, member_id, giver_id, amount, reason, created_at) VALUES (?, ?, ?, 0, 1, 'draw', ?)`,
			node.Generate(), communityID, node.Generate(), time.Now().UTC()).Error)
	}

	first, info, err := svc.History(ctx, communityID, pagination.Pagination{PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.True(t, info.HasMore)
	require.NotEmpty(t, info.NextPageToken)

	rest, info, err := svc.History(ctx, communityID, pagination.Pagination{PageSize: 3, PageToken: info.NextPageToken})
	require.NoError(t, err)
	assert.Len(t, rest, 2)
	assert.False(t, info.HasMore)

	// Newest first, no overlap between pages.
	assert.Greater(t, int64(first[0].ID), int64(first[2].ID))
	assert.Greater(t, int64(first[2].ID), int64(rest[0].ID))
}

func TestDrawReleasesCooldownOnInsertFailure(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	node, _ := snowflake.NewNode(2)
	communityID := node.Generate()
	memberID := node.Generate()

	require.NoError(t, db.Exec(`ALTER TABLE candy_logs RENAME TO candy_logs_broken`).Error)
	_, err := svc.Draw(ctx, communityID, memberID)
	require.Error(t, err)
	require.NoError(t, db.Exec(`ALTER TABLE candy_logs_broken RENAME TO candy_logs`).Error)

	// The failed draw did not consume the cooldown.
	_, err = svc.Draw(ctx, communityID, memberID)
	assert.NoError(t, err)
}
