package events

import (
	"context"
	"errors"

	"github.com/sodacandy/candybot/internal/mirror/domain"
	"go.uber.org/zap"
)

// Dispatcher is the boundary between the platform event loop and the
// handlers. Every dispatch is isolated: errors and panics are logged
// and swallowed so one failing handler can never cancel a sibling or
// take down the event loop.
type Dispatcher struct {
	log      *zap.Logger
	handlers *Handlers
}

func NewDispatcher(log *zap.Logger, handlers *Handlers) *Dispatcher {
	return &Dispatcher{log: log.Named("dispatch"), handlers: handlers}
}

func (d *Dispatcher) TenantAdd(ctx context.Context, ev TenantAddEvent) {
	d.safely(ctx, "tenant_add", func(ctx context.Context) error {
		return d.handlers.TenantAdd(ctx, ev)
	})
}

func (d *Dispatcher) TenantRemove(ctx context.Context, ev TenantRemoveEvent) {
	d.safely(ctx, "tenant_remove", func(ctx context.Context) error {
		return d.handlers.TenantRemove(ctx, ev)
	})
}

func (d *Dispatcher) MemberAdd(ctx context.Context, ev MemberAddEvent) {
	d.safely(ctx, "member_add", func(ctx context.Context) error {
		return d.handlers.MemberAdd(ctx, ev)
	})
}

func (d *Dispatcher) MemberRemove(ctx context.Context, ev MemberRemoveEvent) {
	d.safely(ctx, "member_remove", func(ctx context.Context) error {
		return d.handlers.MemberRemove(ctx, ev)
	})
}

func (d *Dispatcher) ChannelAdd(ctx context.Context, ev ChannelAddEvent) {
	d.safely(ctx, "channel_add", func(ctx context.Context) error {
		return d.handlers.ChannelAdd(ctx, ev)
	})
}

func (d *Dispatcher) ChannelRemove(ctx context.Context, ev ChannelRemoveEvent) {
	d.safely(ctx, "channel_remove", func(ctx context.Context) error {
		return d.handlers.ChannelRemove(ctx, ev)
	})
}

func (d *Dispatcher) RoleAdd(ctx context.Context, ev RoleAddEvent) {
	d.safely(ctx, "role_add", func(ctx context.Context) error {
		return d.handlers.RoleAdd(ctx, ev)
	})
}

func (d *Dispatcher) RoleRemove(ctx context.Context, ev RoleRemoveEvent) {
	d.safely(ctx, "role_remove", func(ctx context.Context) error {
		return d.handlers.RoleRemove(ctx, ev)
	})
}

func (d *Dispatcher) MessageAdd(ctx context.Context, ev MessageAddEvent) {
	d.safely(ctx, "message_add", func(ctx context.Context) error {
		return d.handlers.MessageAdd(ctx, ev)
	})
}

func (d *Dispatcher) MessageRemove(ctx context.Context, ev MessageRemoveEvent) {
	d.safely(ctx, "message_remove", func(ctx context.Context) error {
		return d.handlers.MessageRemove(ctx, ev)
	})
}

func (d *Dispatcher) safely(ctx context.Context, event string, fn func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("event handler panicked",
				zap.String("event", event),
				zap.Any("panic", r),
			)
		}
	}()

	if err := fn(ctx); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			d.log.Debug("event skipped, entity not mirrored", zap.String("event", event), zap.Error(err))
			return
		}
		d.log.Warn("event handler failed", zap.String("event", event), zap.Error(err))
	}
}
