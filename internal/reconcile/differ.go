package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/sodacandy/candybot/internal/clock"
	"github.com/sodacandy/candybot/internal/mirror/domain"
	obsmetrics "github.com/sodacandy/candybot/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Differ compares stored mirror rows against authoritative platform
// snapshots and soft-deletes whatever the platform no longer reports.
// It never creates rows: additions are the lifecycle handlers' job.
type Differ struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	category    domain.CategoryType
	snapshot    Snapshot
	communities domain.CommunityRepository
	members     domain.MemberRepository
	channels    domain.ChannelRepository
}

type DifferParams struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Snapshot    Snapshot
	Communities domain.CommunityRepository
	Members     domain.MemberRepository
	Channels    domain.ChannelRepository
}

func NewDiffer(p DifferParams) (*Differ, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.Snapshot == nil ||
		p.Communities == nil || p.Members == nil || p.Channels == nil {
		return nil, ErrInvalidConfig
	}
	return &Differ{
		db:          p.DB,
		log:         p.Log.Named("differ"),
		clock:       p.Clock,
		category:    domain.CategoryDiscord,
		snapshot:    p.Snapshot,
		communities: p.Communities,
		members:     p.Members,
		channels:    p.Channels,
	}, nil
}

// ReconcileTenant diffs one tenant's members and channels against the
// authoritative snapshot. An empty snapshot list is treated as unknown,
// not as "everyone left": a transient empty fetch must never mass-delete
// a tenant.
func (d *Differ) ReconcileTenant(ctx context.Context, tenantClientID string) error {
	communityID, err := d.communities.FindIDByClientID(ctx, d.db, d.category, tenantClientID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrTenantNotFound, tenantClientID)
	}
	if err != nil {
		return fmt.Errorf("resolve tenant %s: %w", tenantClientID, err)
	}

	now := d.clock.Now()

	memberIDs, err := d.snapshot.ListMembers(ctx, tenantClientID)
	if err != nil {
		return fmt.Errorf("%w: members of %s: %v", ErrSnapshotUnavailable, tenantClientID, err)
	}
	if len(memberIDs) > 0 {
		removed, err := d.members.DeleteNotBelongingTo(ctx, d.db, communityID, memberIDs, now)
		if err != nil {
			return fmt.Errorf("diff members of %s: %w", tenantClientID, err)
		}
		if removed > 0 {
			obsmetrics.Reconcile().AddSoftDeletes(string(domain.KindMember), int(removed))
			d.log.Info("members reconciled away",
				zap.String("tenant", tenantClientID),
				zap.Int64("removed", removed),
			)
		}
	}

	channelIDs, err := d.snapshot.ListChannels(ctx, tenantClientID)
	if err != nil {
		return fmt.Errorf("%w: channels of %s: %v", ErrSnapshotUnavailable, tenantClientID, err)
	}
	if len(channelIDs) > 0 {
		removed, err := d.channels.DeleteNotBelongingTo(ctx, d.db, communityID, channelIDs, now)
		if err != nil {
			return fmt.Errorf("diff channels of %s: %w", tenantClientID, err)
		}
		if removed > 0 {
			obsmetrics.Reconcile().AddSoftDeletes(string(domain.KindChannel), int(removed))
			d.log.Info("channels reconciled away",
				zap.String("tenant", tenantClientID),
				zap.Int64("removed", removed),
			)
		}
	}

	return nil
}

// ReconcileRemovedTenants soft-deletes every internally-known tenant
// that is absent from the authoritative live-tenant list, together with
// its members and channels. One tenant's failure does not stop the
// rest.
func (d *Differ) ReconcileRemovedTenants(ctx context.Context, liveTenantClientIDs []string) error {
	known, err := d.communities.ListLiveClientIDs(ctx, d.db, d.category)
	if err != nil {
		return fmt.Errorf("list known tenants: %w", err)
	}

	live := make(map[string]bool, len(liveTenantClientIDs))
	for _, id := range liveTenantClientIDs {
		live[id] = true
	}

	var errs error
	for _, clientID := range known {
		if live[clientID] {
			continue
		}
		if err := d.RemoveTenant(ctx, clientID); err != nil {
			d.log.Warn("tenant removal failed",
				zap.String("tenant", clientID),
				zap.Error(err),
			)
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// RemoveTenant soft-deletes a community and everything under it, in
// that order.
func (d *Differ) RemoveTenant(ctx context.Context, tenantClientID string) error {
	communityID, err := d.communities.FindIDByClientID(ctx, d.db, d.category, tenantClientID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve tenant %s: %w", tenantClientID, err)
	}

	now := d.clock.Now()
	deleted, err := d.communities.SoftDeleteByID(ctx, d.db, communityID, now)
	if err != nil {
		return fmt.Errorf("soft-delete community %s: %w", tenantClientID, err)
	}
	if deleted {
		obsmetrics.Reconcile().AddSoftDeletes(string(domain.KindCommunity), 1)
	}

	removedMembers, err := d.members.SoftDeleteByCommunityID(ctx, d.db, communityID, now)
	if err != nil {
		return fmt.Errorf("soft-delete members of %s: %w", tenantClientID, err)
	}
	obsmetrics.Reconcile().AddSoftDeletes(string(domain.KindMember), int(removedMembers))

	removedChannels, err := d.channels.SoftDeleteByCommunityID(ctx, d.db, communityID, now)
	if err != nil {
		return fmt.Errorf("soft-delete channels of %s: %w", tenantClientID, err)
	}
	obsmetrics.Reconcile().AddSoftDeletes(string(domain.KindChannel), int(removedChannels))

	d.log.Info("tenant removed",
		zap.String("tenant", tenantClientID),
		zap.Int64("members", removedMembers),
		zap.Int64("channels", removedChannels),
	)
	return nil
}
