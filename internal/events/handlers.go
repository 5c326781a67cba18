package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"

	"github.com/sodacandy/candybot/internal/clock"
	"github.com/sodacandy/candybot/internal/config"
	"github.com/sodacandy/candybot/internal/mirror/domain"
	pkgdb "github.com/sodacandy/candybot/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handlers are the real-time, single-entity reactions to platform
// lifecycle events. Each method is one short-lived store operation;
// none of them holds cross-entity locks, and the dispatcher guarantees
// a failure never reaches the platform event loop.
type Handlers struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	category    domain.CategoryType
	botClientID string

	communities domain.CommunityRepository
	members     domain.MemberRepository
	channels    domain.ChannelRepository
	roles       domain.RoleRepository
	messages    domain.MessageRepository
}

type HandlersParams struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Config      config.Config
	Communities domain.CommunityRepository
	Members     domain.MemberRepository
	Channels    domain.ChannelRepository
	Roles       domain.RoleRepository
	Messages    domain.MessageRepository
}

func NewHandlers(p HandlersParams) *Handlers {
	return &Handlers{
		db:          p.DB,
		log:         p.Log.Named("events"),
		clock:       p.Clock,
		category:    domain.CategoryDiscord,
		botClientID: p.Config.BotClientID,
		communities: p.Communities,
		members:     p.Members,
		channels:    p.Channels,
		roles:       p.Roles,
		messages:    p.Messages,
	}
}

// TenantAdd mirrors a newly joined community together with its initial
// member and channel snapshot.
func (h *Handlers) TenantAdd(ctx context.Context, ev TenantAddEvent) error {
	community := &domain.Community{
		CategoryType: h.category,
		ClientID:     ev.TenantClientID,
	}
	err := h.communities.Insert(ctx, h.db, community)
	var communityID snowflake.ID
	switch {
	case err == nil:
		communityID = community.ID
	case pkgdb.IsDuplicateKeyErr(err):
		// Re-invited while still mirrored: keep the existing row.
		h.log.Debug("community already mirrored", zap.String("tenant", ev.TenantClientID))
		communityID, err = h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
		if err != nil {
			return fmt.Errorf("resolve existing community %s: %w", ev.TenantClientID, err)
		}
	default:
		return fmt.Errorf("insert community %s: %w", ev.TenantClientID, err)
	}

	members := make([]*domain.Member, 0, len(ev.Members))
	for _, seed := range ev.Members {
		memberType := domain.MemberTypeHuman
		if seed.IsBot {
			memberType = domain.MemberTypeBot
		}
		members = append(members, &domain.Member{
			CategoryType: h.category,
			ClientID:     seed.ClientID,
			CommunityID:  communityID,
			MemberType:   memberType,
		})
	}
	if err := h.members.BulkInsert(ctx, h.db, members); err != nil && !pkgdb.IsDuplicateKeyErr(err) {
		return fmt.Errorf("bulk insert members of %s: %w", ev.TenantClientID, err)
	}

	channels := make([]*domain.Channel, 0, len(ev.Channels))
	for _, seed := range ev.Channels {
		channels = append(channels, &domain.Channel{
			CategoryType: h.category,
			ClientID:     seed.ClientID,
			CommunityID:  communityID,
			ChannelType:  seed.Type,
		})
	}
	if err := h.channels.BulkInsert(ctx, h.db, channels); err != nil && !pkgdb.IsDuplicateKeyErr(err) {
		return fmt.Errorf("bulk insert channels of %s: %w", ev.TenantClientID, err)
	}

	h.log.Info("tenant mirrored",
		zap.String("tenant", ev.TenantClientID),
		zap.Int("members", len(members)),
		zap.Int("channels", len(channels)),
	)
	return nil
}

// TenantRemove soft-deletes a community and everything under it.
func (h *Handlers) TenantRemove(ctx context.Context, ev TenantRemoveEvent) error {
	communityID, err := h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
	if errors.Is(err, domain.ErrNotFound) {
		h.log.Debug("tenant not mirrored", zap.String("tenant", ev.TenantClientID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve community %s: %w", ev.TenantClientID, err)
	}

	now := h.clock.Now()
	if _, err := h.communities.SoftDeleteByID(ctx, h.db, communityID, now); err != nil {
		return fmt.Errorf("soft-delete community %s: %w", ev.TenantClientID, err)
	}
	if _, err := h.members.SoftDeleteByCommunityID(ctx, h.db, communityID, now); err != nil {
		return fmt.Errorf("soft-delete members of %s: %w", ev.TenantClientID, err)
	}
	if _, err := h.channels.SoftDeleteByCommunityID(ctx, h.db, communityID, now); err != nil {
		return fmt.Errorf("soft-delete channels of %s: %w", ev.TenantClientID, err)
	}
	h.log.Info("tenant unmirrored", zap.String("tenant", ev.TenantClientID))
	return nil
}

func (h *Handlers) MemberAdd(ctx context.Context, ev MemberAddEvent) error {
	communityID, err := h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
	if err != nil {
		return fmt.Errorf("resolve community %s: %w", ev.TenantClientID, err)
	}

	memberType := domain.MemberTypeHuman
	if ev.IsBot {
		memberType = domain.MemberTypeBot
	}
	err = h.members.Insert(ctx, h.db, &domain.Member{
		CategoryType: h.category,
		ClientID:     ev.MemberClientID,
		CommunityID:  communityID,
		MemberType:   memberType,
	})
	if pkgdb.IsDuplicateKeyErr(err) {
		h.log.Debug("member already mirrored", zap.String("member", ev.MemberClientID))
		return nil
	}
	return err
}

func (h *Handlers) MemberRemove(ctx context.Context, ev MemberRemoveEvent) error {
	communityID, err := h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
	if err != nil {
		return fmt.Errorf("resolve community %s: %w", ev.TenantClientID, err)
	}
	_, err = h.members.SoftDeleteByClientID(ctx, h.db, communityID, ev.MemberClientID, h.clock.Now())
	return err
}

func (h *Handlers) ChannelAdd(ctx context.Context, ev ChannelAddEvent) error {
	communityID, err := h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
	if err != nil {
		return fmt.Errorf("resolve community %s: %w", ev.TenantClientID, err)
	}

	err = h.channels.Insert(ctx, h.db, &domain.Channel{
		CategoryType: h.category,
		ClientID:     ev.ChannelClientID,
		CommunityID:  communityID,
		ChannelType:  ev.Type,
	})
	if pkgdb.IsDuplicateKeyErr(err) {
		h.log.Debug("channel already mirrored", zap.String("channel", ev.ChannelClientID))
		return nil
	}
	return err
}

// ChannelRemove soft-deletes a channel and the messages that were
// scoped to it. The internal channel id is resolved before the delete:
// once the row is soft-deleted the live lookup no longer finds it.
func (h *Handlers) ChannelRemove(ctx context.Context, ev ChannelRemoveEvent) error {
	communityID, err := h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
	if err != nil {
		return fmt.Errorf("resolve community %s: %w", ev.TenantClientID, err)
	}

	channelID, err := h.channels.FindID(ctx, h.db, h.category, ev.ChannelClientID, communityID)
	if errors.Is(err, domain.ErrNotFound) {
		h.log.Debug("channel not mirrored", zap.String("channel", ev.ChannelClientID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve channel %s: %w", ev.ChannelClientID, err)
	}

	now := h.clock.Now()
	if _, err := h.channels.SoftDeleteByClientID(ctx, h.db, communityID, ev.ChannelClientID, now); err != nil {
		return fmt.Errorf("soft-delete channel %s: %w", ev.ChannelClientID, err)
	}
	if _, err := h.messages.SoftDeleteByChannelID(ctx, h.db, channelID, now); err != nil {
		return fmt.Errorf("soft-delete messages of channel %s: %w", ev.ChannelClientID, err)
	}
	return nil
}

func (h *Handlers) RoleAdd(ctx context.Context, ev RoleAddEvent) error {
	communityID, err := h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
	if err != nil {
		return fmt.Errorf("resolve community %s: %w", ev.TenantClientID, err)
	}

	err = h.roles.Insert(ctx, h.db, &domain.Role{
		CategoryType: h.category,
		ClientID:     ev.RoleClientID,
		CommunityID:  communityID,
	})
	if pkgdb.IsDuplicateKeyErr(err) {
		h.log.Debug("role already mirrored", zap.String("role", ev.RoleClientID))
		return nil
	}
	return err
}

func (h *Handlers) RoleRemove(ctx context.Context, ev RoleRemoveEvent) error {
	communityID, err := h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
	if err != nil {
		return fmt.Errorf("resolve community %s: %w", ev.TenantClientID, err)
	}
	_, err = h.roles.SoftDeleteByClientID(ctx, h.db, communityID, ev.RoleClientID, h.clock.Now())
	return err
}

// MessageAdd mirrors a message the bot observed. The bot's own control
// messages are not mirrored.
func (h *Handlers) MessageAdd(ctx context.Context, ev MessageAddEvent) error {
	if h.isSelf(ev.AuthorClientID) {
		return nil
	}

	communityID, err := h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
	if err != nil {
		return fmt.Errorf("resolve community %s: %w", ev.TenantClientID, err)
	}

	memberID, err := h.members.FindID(ctx, h.db, h.category, ev.AuthorClientID, communityID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("resolve author %s: %w", ev.AuthorClientID, err)
	}
	channelID, err := h.channels.FindID(ctx, h.db, h.category, ev.ChannelClientID, communityID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("resolve channel %s: %w", ev.ChannelClientID, err)
	}

	err = h.messages.Insert(ctx, h.db, &domain.Message{
		CategoryType: h.category,
		ClientID:     ev.MessageClientID,
		CommunityID:  communityID,
		MemberID:     memberID,
		ChannelID:    channelID,
	})
	if pkgdb.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

// MessageRemove soft-deletes one mirrored message unless the bot
// itself authored it.
func (h *Handlers) MessageRemove(ctx context.Context, ev MessageRemoveEvent) error {
	if h.isSelf(ev.AuthorClientID) {
		return nil
	}

	communityID, err := h.communities.FindIDByClientID(ctx, h.db, h.category, ev.TenantClientID)
	if err != nil {
		return fmt.Errorf("resolve community %s: %w", ev.TenantClientID, err)
	}
	_, err = h.messages.SoftDeleteByClientID(ctx, h.db, communityID, ev.MessageClientID, h.clock.Now())
	return err
}

func (h *Handlers) isSelf(authorClientID string) bool {
	return h.botClientID != "" && authorClientID == h.botClientID
}
