package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sodacandy/candybot/internal/sticky/domain"
)

func newRepo(t *testing.T) (domain.Repository, *gorm.DB, *snowflake.Node) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS sticky_messages (
		id BIGINT PRIMARY KEY,
		community_id BIGINT NOT NULL,
		channel_id BIGINT NOT NULL UNIQUE,
		body TEXT NOT NULL,
		last_message_id TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return ProvideStickyRepository(node), db, node
}

func TestStickyUpsert(t *testing.T) {
	repo, db, node := newRepo(t)
	ctx := context.Background()
	communityID := node.Generate()
	channelID := node.Generate()

	first := &domain.StickyMessage{
		CommunityID: communityID,
		ChannelID:   channelID,
		Body:        "read the pinned rules",
	}
	require.NoError(t, repo.Upsert(ctx, db, first))

	// Re-upserting the same channel replaces the body, not the row.
	second := &domain.StickyMessage{
		CommunityID: communityID,
		ChannelID:   channelID,
		Body:        "rules moved to #info",
	}
	require.NoError(t, repo.Upsert(ctx, db, second))

	got, err := repo.FindByChannel(ctx, db, channelID)
	require.NoError(t, err)
	assert.Equal(t, "rules moved to #info", got.Body)

	var n int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM sticky_messages`).Scan(&n).Error)
	assert.Equal(t, int64(1), n)

	t.Run("LastMessageID", func(t *testing.T) {
		require.NoError(t, repo.UpdateLastMessageID(ctx, db, channelID, "platform-msg-42"))
		got, err := repo.FindByChannel(ctx, db, channelID)
		require.NoError(t, err)
		assert.Equal(t, "platform-msg-42", got.LastMessageID)
	})

	t.Run("DeleteByChannel", func(t *testing.T) {
		require.NoError(t, repo.DeleteByChannel(ctx, db, channelID))
		_, err := repo.FindByChannel(ctx, db, channelID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
