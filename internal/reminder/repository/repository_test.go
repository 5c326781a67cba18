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

	"github.com/sodacandy/candybot/internal/clock"
	"github.com/sodacandy/candybot/internal/reminder/domain"
)

func newRepo(t *testing.T) (domain.Repository, *gorm.DB, *snowflake.Node) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS reminders (
		id BIGINT PRIMARY KEY,
		community_id BIGINT NOT NULL,
		member_id BIGINT NOT NULL,
		channel_id BIGINT NOT NULL,
		body TEXT NOT NULL,
		remind_at TIMESTAMP NOT NULL,
		fired_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return ProvideReminderRepository(node), db, node
}

func TestListDue(t *testing.T) {
	repo, db, node := newRepo(t)
	ctx := context.Background()
	fc := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	communityID := node.Generate()
	memberID := node.Generate()
	channelID := node.Generate()

	seed := func(body string, at time.Time) *domain.Reminder {
		rem := &domain.Reminder{
			CommunityID: communityID,
			MemberID:    memberID,
			ChannelID:   channelID,
			Body:        body,
			RemindAt:    at,
		}
		require.NoError(t, repo.Insert(ctx, db, rem))
		return rem
	}

	past := seed("standup", fc.Now().Add(-time.Hour))
	atNow := seed("lunch", fc.Now())
	future := seed("deploy", fc.Now().Add(time.Hour))

	due, err := repo.ListDue(ctx, db, fc.Now(), 0)
	require.NoError(t, err)
	require.Len(t, due, 2)
	// Oldest first.
	assert.Equal(t, past.ID, due[0].ID)
	assert.Equal(t, atNow.ID, due[1].ID)

	t.Run("FiredOnlyOnce", func(t *testing.T) {
		require.NoError(t, repo.MarkFired(ctx, db, past.ID, fc.Now()))

		due, err := repo.ListDue(ctx, db, fc.Now(), 0)
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, atNow.ID, due[0].ID)

		// Second MarkFired matches nothing and keeps the original stamp.
		require.NoError(t, repo.MarkFired(ctx, db, past.ID, fc.Now().Add(time.Hour)))
		var fired time.Time
		require.NoError(t, db.Raw(`SELECT fired_at FROM reminders WHERE id = ?`, past.ID).Scan(&fired).Error)
		assert.True(t, fired.Equal(fc.Now()))
	})

	t.Run("FutureBecomesDue", func(t *testing.T) {
		fc.Advance(2 * time.Hour)
		due, err := repo.ListDue(ctx, db, fc.Now(), 0)
		require.NoError(t, err)
		ids := []snowflake.ID{due[0].ID, due[1].ID}
		assert.Contains(t, ids, future.ID)
	})

	t.Run("ListByMember", func(t *testing.T) {
		rems, err := repo.ListByMember(ctx, db, communityID, memberID)
		require.NoError(t, err)
		assert.Len(t, rems, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, db, future.ID))
		rems, err := repo.ListByMember(ctx, db, communityID, memberID)
		require.NoError(t, err)
		assert.Len(t, rems, 1)
	})
}
