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

	"github.com/sodacandy/candybot/internal/mirror/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, name := range []string{"communities", "members", "channels", "roles", "messages"} {
		extra := ""
		switch name {
		case "members":
			extra = `community_id BIGINT NOT NULL DEFAULT 0, member_type TEXT NOT NULL DEFAULT 'human',`
		case "channels":
			extra = `community_id BIGINT NOT NULL DEFAULT 0, channel_type TEXT NOT NULL DEFAULT 'text',`
		case "roles":
			extra = `community_id BIGINT NOT NULL DEFAULT 0,`
		case "messages":
			extra = `community_id BIGINT NOT NULL DEFAULT 0, member_id BIGINT, channel_id BIGINT,`
		}
		err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + name + ` (
			id BIGINT PRIMARY KEY,
			category_type TEXT NOT NULL,
			client_id TEXT NOT NULL,
			` + extra + `
			batch_status TEXT NOT NULL DEFAULT 'PENDING',
			deleted_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`).Error
		require.NoError(t, err)
	}
	return db
}

func testNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func TestCommunityRepository(t *testing.T) {
	db := openTestDB(t)
	node := testNode(t)
	repo := ProvideCommunity(node)
	ctx := context.Background()

	community := &domain.Community{
		CategoryType: domain.CategoryDiscord,
		ClientID:     "guild-1",
	}
	require.NoError(t, repo.Insert(ctx, db, community))
	assert.NotZero(t, community.ID)
	assert.Equal(t, domain.BatchStatusPending, community.BatchStatus)

	t.Run("FindIDByClientID", func(t *testing.T) {
		id, err := repo.FindIDByClientID(ctx, db, domain.CategoryDiscord, "guild-1")
		assert.NoError(t, err)
		assert.Equal(t, community.ID, id)

		_, err = repo.FindIDByClientID(ctx, db, domain.CategoryDiscord, "guild-missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("FindClientID", func(t *testing.T) {
		clientID, err := repo.FindClientID(ctx, db, community.ID)
		assert.NoError(t, err)
		assert.Equal(t, "guild-1", clientID)
	})

	t.Run("SoftDeleteIdempotent", func(t *testing.T) {
		now := time.Now().UTC()
		deleted, err := repo.SoftDeleteByID(ctx, db, community.ID, now)
		assert.NoError(t, err)
		assert.True(t, deleted)

		// Second delete matches nothing.
		deleted, err = repo.SoftDeleteByID(ctx, db, community.ID, now)
		assert.NoError(t, err)
		assert.False(t, deleted)

		// Live lookup no longer sees the row.
		_, err = repo.FindIDByClientID(ctx, db, domain.CategoryDiscord, "guild-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		// Id-based lookup still resolves the soft-deleted row.
		clientID, err := repo.FindClientID(ctx, db, community.ID)
		assert.NoError(t, err)
		assert.Equal(t, "guild-1", clientID)
	})

	t.Run("ReInsertAfterSoftDelete", func(t *testing.T) {
		again := &domain.Community{
			CategoryType: domain.CategoryDiscord,
			ClientID:     "guild-1",
		}
		require.NoError(t, repo.Insert(ctx, db, again))
		assert.NotEqual(t, community.ID, again.ID)

		id, err := repo.FindIDByClientID(ctx, db, domain.CategoryDiscord, "guild-1")
		assert.NoError(t, err)
		assert.Equal(t, again.ID, id)
	})

	t.Run("ListLiveClientIDs", func(t *testing.T) {
		other := &domain.Community{CategoryType: domain.CategoryDiscord, ClientID: "guild-2"}
		require.NoError(t, repo.Insert(ctx, db, other))

		ids, err := repo.ListLiveClientIDs(ctx, db, domain.CategoryDiscord)
		assert.NoError(t, err)
		assert.ElementsMatch(t, []string{"guild-1", "guild-2"}, ids)
	})
}

func TestCommunityFinalization(t *testing.T) {
	db := openTestDB(t)
	node := testNode(t)
	repo := ProvideCommunity(node)
	ctx := context.Background()

	live := &domain.Community{CategoryType: domain.CategoryDiscord, ClientID: "live"}
	gone := &domain.Community{CategoryType: domain.CategoryDiscord, ClientID: "gone"}
	require.NoError(t, repo.Insert(ctx, db, live))
	require.NoError(t, repo.Insert(ctx, db, gone))

	_, err := repo.SoftDeleteByID(ctx, db, gone.ID, time.Now().UTC())
	require.NoError(t, err)

	t.Run("TargetsOnlyDeletedPending", func(t *testing.T) {
		targets, err := repo.FinalizationTargets(ctx, db)
		assert.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, gone.ID, targets[0].ID)
		assert.Equal(t, "gone", targets[0].ClientID)
	})

	t.Run("LiveRowNeverFinalizes", func(t *testing.T) {
		ok, err := repo.Finalize(ctx, db, live.ID)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("FinalizeMonotonic", func(t *testing.T) {
		ok, err := repo.Finalize(ctx, db, gone.ID)
		assert.NoError(t, err)
		assert.True(t, ok)

		// Already finalized: no further transition.
		ok, err = repo.Finalize(ctx, db, gone.ID)
		assert.NoError(t, err)
		assert.False(t, ok)

		targets, err := repo.FinalizationTargets(ctx, db)
		assert.NoError(t, err)
		assert.Empty(t, targets)
	})
}

func TestMemberRepository(t *testing.T) {
	db := openTestDB(t)
	node := testNode(t)
	repo := ProvideMember(node)
	ctx := context.Background()
	communityID := node.Generate()

	seed := func(clientID string) *domain.Member {
		m := &domain.Member{
			CategoryType: domain.CategoryDiscord,
			ClientID:     clientID,
			CommunityID:  communityID,
		}
		require.NoError(t, repo.Insert(ctx, db, m))
		return m
	}

	a, b, c := seed("user-a"), seed("user-b"), seed("user-c")

	t.Run("FindID", func(t *testing.T) {
		id, err := repo.FindID(ctx, db, domain.CategoryDiscord, "user-b", communityID)
		assert.NoError(t, err)
		assert.Equal(t, b.ID, id)

		// Wrong community scope.
		_, err = repo.FindID(ctx, db, domain.CategoryDiscord, "user-b", node.Generate())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DeleteNotBelongingTo", func(t *testing.T) {
		// Authoritative snapshot says {b, c, d}: a departed, d is not
		// mirrored yet and stays untouched.
		affected, err := repo.DeleteNotBelongingTo(ctx, db, communityID, []string{"user-b", "user-c", "user-d"}, time.Now().UTC())
		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		_, err = repo.FindID(ctx, db, domain.CategoryDiscord, "user-a", communityID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		id, err := repo.FindID(ctx, db, domain.CategoryDiscord, "user-c", communityID)
		assert.NoError(t, err)
		assert.Equal(t, c.ID, id)
	})

	t.Run("SoftDeleteByCommunityID", func(t *testing.T) {
		affected, err := repo.SoftDeleteByCommunityID(ctx, db, communityID, time.Now().UTC())
		assert.NoError(t, err)
		assert.Equal(t, int64(2), affected)

		targets, err := repo.FinalizationTargets(ctx, db)
		assert.NoError(t, err)
		assert.Len(t, targets, 3)
	})

	_ = a
}

func TestMemberBulkInsert(t *testing.T) {
	db := openTestDB(t)
	node := testNode(t)
	repo := ProvideMember(node)
	ctx := context.Background()
	communityID := node.Generate()

	members := make([]*domain.Member, 0, 250)
	for i := 0; i < 250; i++ {
		members = append(members, &domain.Member{
			CategoryType: domain.CategoryDiscord,
			ClientID:     fmt.Sprintf("user-%d", i),
			CommunityID:  communityID,
		})
	}
	require.NoError(t, repo.BulkInsert(ctx, db, members))

	var count int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM members WHERE community_id = ?`, communityID).Scan(&count).Error)
	assert.Equal(t, int64(250), count)

	// Empty batch is a no-op.
	assert.NoError(t, repo.BulkInsert(ctx, db, nil))
}

func TestMessageRepository(t *testing.T) {
	db := openTestDB(t)
	node := testNode(t)
	repo := ProvideMessage(node)
	ctx := context.Background()
	communityID := node.Generate()
	channelID := node.Generate()
	otherChannelID := node.Generate()

	seed := func(clientID string, chID snowflake.ID) {
		require.NoError(t, repo.Insert(ctx, db, &domain.Message{
			CategoryType: domain.CategoryDiscord,
			ClientID:     clientID,
			CommunityID:  communityID,
			ChannelID:    chID,
		}))
	}
	seed("msg-1", channelID)
	seed("msg-2", channelID)
	seed("msg-3", otherChannelID)

	affected, err := repo.SoftDeleteByChannelID(ctx, db, channelID, time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	// Messages in other channels stay live.
	id, err := repo.FindID(ctx, db, domain.CategoryDiscord, "msg-3", communityID)
	assert.NoError(t, err)
	assert.NotZero(t, id)
}
