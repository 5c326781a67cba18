package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sodacandy/candybot/internal/mirror/domain"
	obsmetrics "github.com/sodacandy/candybot/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TableRef names one dependent table column pair: rows in Table whose
// Column equals a finalized entity's id are physically deleted.
type TableRef struct {
	Table  string
	Column string
}

// kindColumns maps each mirrored kind to the column names that
// conventionally reference it across the schema. giver_id is the one
// historical exception: candy gifts record the giving member under a
// second column, so member cleanup must sweep it by name.
var kindColumns = map[domain.Kind][]string{
	domain.KindCommunity: {"community_id"},
	domain.KindMember:    {"member_id", "giver_id"},
	domain.KindChannel:   {"channel_id"},
}

// Registry is the explicit dependent-table index built once at startup.
// There is no runtime schema introspection: every table that can hold
// rows referencing a mirrored entity registers its model here, and the
// registry records which of the conventional reference columns each
// table declares.
type Registry struct {
	refs map[domain.Kind][]TableRef
}

// RegistryParams collects every registered dependent model.
type RegistryParams struct {
	fx.In

	Models []any `group:"cascade_models"`
}

func NewRegistry(p RegistryParams) (*Registry, error) {
	refs := make(map[domain.Kind][]TableRef)
	cache := &sync.Map{}
	namer := schema.NamingStrategy{}

	for _, model := range p.Models {
		parsed, err := schema.Parse(model, cache, namer)
		if err != nil {
			return nil, fmt.Errorf("cascade registry: parse %T: %w", model, err)
		}
		columns := make(map[string]bool, len(parsed.Fields))
		for _, field := range parsed.Fields {
			if field.DBName != "" {
				columns[field.DBName] = true
			}
		}
		for kind, names := range kindColumns {
			for _, name := range names {
				if columns[name] {
					refs[kind] = append(refs[kind], TableRef{Table: parsed.Table, Column: name})
				}
			}
		}
	}

	return &Registry{refs: refs}, nil
}

// Refs returns the dependent tables for one kind. A kind with no
// dependents is valid: finalization then only flips the batch status.
func (r *Registry) Refs(kind domain.Kind) []TableRef {
	return r.refs[kind]
}

// Engine performs cascade cleanup for soft-deleted entities and
// finalizes them. Each table delete is its own unit, deliberately not
// wrapped in one transaction: deletes are idempotent, so a failure
// partway through leaves completed work in place and the next run only
// re-attempts the remainder.
type Engine struct {
	db         *gorm.DB
	log        *zap.Logger
	registry   *Registry
	finalizers map[domain.Kind]domain.Finalizer
}

type EngineParams struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Registry    *Registry
	Communities domain.CommunityRepository
	Members     domain.MemberRepository
	Channels    domain.ChannelRepository
	Roles       domain.RoleRepository
	Messages    domain.MessageRepository
}

func NewEngine(p EngineParams) *Engine {
	return &Engine{
		db:       p.DB,
		log:      p.Log.Named("cascade"),
		registry: p.Registry,
		finalizers: map[domain.Kind]domain.Finalizer{
			domain.KindCommunity: p.Communities,
			domain.KindMember:    p.Members,
			domain.KindChannel:   p.Channels,
			domain.KindRole:      p.Roles,
			domain.KindMessage:   p.Messages,
		},
	}
}

// FinalizeTarget deletes every dependent row referencing the target and
// then marks it finalized. If any table delete fails the finalization
// is aborted and the target stays PENDING for the next run.
func (e *Engine) FinalizeTarget(ctx context.Context, kind domain.Kind, target domain.FinalizationTarget) error {
	finalizer, ok := e.finalizers[kind]
	if !ok {
		return fmt.Errorf("cascade: unknown entity kind %q", kind)
	}

	for _, ref := range e.registry.Refs(kind) {
		res := e.db.WithContext(ctx).Exec(
			`DELETE FROM `+ref.Table+` WHERE `+ref.Column+` = ?`, target.ID,
		)
		if res.Error != nil {
			obsmetrics.Reconcile().IncCascadeFailure(string(kind))
			return fmt.Errorf("%w: %s.%s for %s id %d: %v",
				ErrCascadeAborted, ref.Table, ref.Column, kind, target.ID, res.Error)
		}
		if res.RowsAffected > 0 {
			e.log.Debug("cascade deleted dependents",
				zap.String("kind", string(kind)),
				zap.String("table", ref.Table),
				zap.Int64("rows", res.RowsAffected),
				zap.Int64("id", int64(target.ID)),
			)
		}
	}

	finalized, err := finalizer.Finalize(ctx, e.db, target.ID)
	if err != nil {
		return fmt.Errorf("cascade: finalize %s id %d: %w", kind, target.ID, err)
	}
	if finalized {
		obsmetrics.Reconcile().IncFinalization(string(kind))
	}
	return nil
}

// FinalizeKind processes every pending finalization target of one kind.
// A failed target is logged and skipped; the remaining targets still
// run.
func (e *Engine) FinalizeKind(ctx context.Context, kind domain.Kind) (int, error) {
	finalizer, ok := e.finalizers[kind]
	if !ok {
		return 0, fmt.Errorf("cascade: unknown entity kind %q", kind)
	}

	targets, err := finalizer.FinalizationTargets(ctx, e.db)
	if err != nil {
		return 0, fmt.Errorf("cascade: list %s targets: %w", kind, err)
	}

	var errs error
	finalized := 0
	for _, target := range targets {
		if err := e.FinalizeTarget(ctx, kind, target); err != nil {
			e.log.Warn("finalization failed",
				zap.String("kind", string(kind)),
				zap.Int64("id", int64(target.ID)),
				zap.String("client_id", target.ClientID),
				zap.Error(err),
			)
			errs = errors.Join(errs, err)
			continue
		}
		finalized++
	}
	return finalized, errs
}
