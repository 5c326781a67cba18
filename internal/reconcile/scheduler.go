package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	appconfig "github.com/sodacandy/candybot/internal/config"
	"github.com/sodacandy/candybot/internal/clock"
	"github.com/sodacandy/candybot/internal/mirror/domain"
	obsmetrics "github.com/sodacandy/candybot/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// finalizeOrder processes ownership roots last: the community cascade
// physically deletes member and channel rows, so those kinds must get
// their own finalization pass first.
var finalizeOrder = []domain.Kind{
	domain.KindMessage,
	domain.KindChannel,
	domain.KindRole,
	domain.KindMember,
	domain.KindCommunity,
}

// Scheduler is the periodic reconciliation orchestrator. One run diffs
// every tenant against the platform snapshot, sweeps removed tenants,
// and drives cascade finalization. Runs never overlap; a tick that
// arrives while a run is still executing is skipped.
type Scheduler struct {
	log       *zap.Logger
	clock     clock.Clock
	cfg       Config
	cfgHolder *appconfig.ReconcileConfigHolder
	snapshot  Snapshot
	differ    *Differ
	engine    *Engine

	running atomic.Bool
}

type SchedulerParams struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Snapshot  Snapshot
	Differ    *Differ
	Engine    *Engine
	CfgHolder *appconfig.ReconcileConfigHolder `optional:"true"`
	Config    Config                           `optional:"true"`
}

func NewScheduler(p SchedulerParams) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Snapshot == nil || p.Differ == nil || p.Engine == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:       p.Log.Named("reconcile").With(zap.String("component", "reconcile")),
		clock:     p.Clock,
		cfg:       p.Config.withDefaults(),
		cfgHolder: p.CfgHolder,
		snapshot:  p.Snapshot,
		differ:    p.Differ,
		engine:    p.Engine,
	}, nil
}

func (s *Scheduler) currentConfig() Config {
	if s.cfgHolder != nil {
		return fromHolder(s.cfgHolder)
	}
	return s.cfg
}

// RunOnce executes a single reconciliation pass. It returns
// ErrRunInProgress when a previous run is still executing.
func (s *Scheduler) RunOnce(parent context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		obsmetrics.Reconcile().IncRunSkipped()
		s.log.Warn("previous reconciliation run still executing, skipping")
		return ErrRunInProgress
	}
	defer s.running.Store(false)

	cfg := s.currentConfig()
	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))
	log.Info("reconciliation run starting")

	tenants, err := s.snapshot.ListLiveTenants(parent)
	if err != nil {
		obsmetrics.Reconcile().IncSnapshotError()
		log.Warn("live tenant list unavailable, aborting run", zap.Error(err))
		return fmt.Errorf("%w: live tenants: %v", ErrSnapshotUnavailable, err)
	}

	jobs := []struct {
		Name    string
		Enabled bool
		Run     func(context.Context) error
	}{
		{"tenant_diff", s.isJobEnabled(cfg, "tenant_diff"), func(ctx context.Context) error {
			return s.diffTenants(ctx, log, cfg, tenants)
		}},
		{"tenant_removal", s.isJobEnabled(cfg, "tenant_removal"), func(ctx context.Context) error {
			return s.differ.ReconcileRemovedTenants(ctx, tenants)
		}},
		{"finalize", s.isJobEnabled(cfg, "finalize"), func(ctx context.Context) error {
			return s.finalizeAll(ctx, log)
		}},
	}

	var errs error
	for _, job := range jobs {
		if job.Enabled {
			errs = errors.Join(errs, s.runJob(parent, log, job.Name, job.Run))
		}
	}

	obsmetrics.Reconcile().IncRun()
	log.Info("reconciliation run finished")
	return errs
}

// RunForever ticks RunOnce until the context is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	interval := s.currentConfig().Interval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrRunInProgress) {
			s.log.Warn("reconciliation run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runJob(parent context.Context, log *zap.Logger, name string, fn func(ctx context.Context) error) error {
	start := time.Now()
	metrics := obsmetrics.Reconcile()

	err := fn(parent)
	metrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	metrics.IncJobError(name)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out", zap.String("job", name), zap.Error(err))
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// diffTenants reconciles every tenant, up to TenantConcurrency at a
// time. Tenants are independent: one tenant's failure is logged and
// counted, never propagated.
func (s *Scheduler) diffTenants(ctx context.Context, log *zap.Logger, cfg Config, tenants []string) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.TenantConcurrency)

	for _, tenant := range tenants {
		group.Go(func() error {
			tenantCtx, cancel := context.WithTimeout(groupCtx, cfg.TenantTimeout)
			defer cancel()

			err := s.differ.ReconcileTenant(tenantCtx, tenant)
			switch {
			case err == nil:
			case errors.Is(err, ErrTenantNotFound):
				obsmetrics.Reconcile().IncTenantSkipped()
				log.Debug("tenant not mirrored locally, skipped", zap.String("tenant", tenant))
			case errors.Is(err, ErrSnapshotUnavailable),
				errors.Is(err, context.DeadlineExceeded):
				obsmetrics.Reconcile().IncSnapshotError()
				obsmetrics.Reconcile().IncTenantSkipped()
				log.Warn("tenant snapshot unavailable, skipped",
					zap.String("tenant", tenant), zap.Error(err))
			default:
				obsmetrics.Reconcile().IncJobError("tenant_diff")
				log.Warn("tenant diff failed", zap.String("tenant", tenant), zap.Error(err))
			}
			return nil
		})
	}
	return group.Wait()
}

func (s *Scheduler) finalizeAll(ctx context.Context, log *zap.Logger) error {
	var errs error
	for _, kind := range finalizeOrder {
		finalized, err := s.engine.FinalizeKind(ctx, kind)
		if finalized > 0 {
			log.Info("finalized entities",
				zap.String("kind", string(kind)),
				zap.Int("count", finalized),
			)
		}
		errs = errors.Join(errs, err)
	}
	return errs
}

func (s *Scheduler) isJobEnabled(cfg Config, jobName string) bool {
	// An empty EnabledJobs list enables everything.
	if len(cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}
