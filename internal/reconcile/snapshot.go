package reconcile

import "context"

// Snapshot exposes the authoritative current state of the platform for
// the tenants the bot is a member of. Implementations wrap the chat
// platform client; every call may fail independently and failures are
// always tenant-scoped.
type Snapshot interface {
	// ListLiveTenants returns the external ids of every tenant the bot
	// currently belongs to.
	ListLiveTenants(ctx context.Context) ([]string, error)

	// ListMembers returns the external ids of the tenant's current
	// members. An empty result is reported as-is; callers decide
	// whether to trust it.
	ListMembers(ctx context.Context, tenantClientID string) ([]string, error)

	// ListChannels returns the external ids of the tenant's current
	// channels.
	ListChannels(ctx context.Context, tenantClientID string) ([]string, error)
}
