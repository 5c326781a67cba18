package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels stamped onto every metric.
type Config struct {
	ServiceName string
	Environment string
}

// ReconcileMetrics captures reconciliation scheduler health signals.
type ReconcileMetrics struct {
	runs            prometheus.Counter
	runsSkipped     prometheus.Counter
	jobErrors       *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	softDeletes     *prometheus.CounterVec
	finalizations   *prometheus.CounterVec
	cascadeFailures *prometheus.CounterVec
	snapshotErrors  prometheus.Counter
	tenantsSkipped  prometheus.Counter
}

var (
	reconcileMetricsOnce sync.Once
	reconcileMetrics     *ReconcileMetrics
)

// Reconcile returns the singleton reconcile metrics registry.
func Reconcile() *ReconcileMetrics {
	return ReconcileWithConfig(Config{})
}

// ReconcileWithConfig returns the singleton reconcile metrics registry using config labels.
func ReconcileWithConfig(cfg Config) *ReconcileMetrics {
	reconcileMetricsOnce.Do(func() {
		reconcileMetrics = newReconcileMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return reconcileMetrics
}

// ResetReconcileMetricsForTest swaps the singleton for a fresh
// instance backed by a private registry, so tests never collide with
// the default registerer.
func ResetReconcileMetricsForTest() {
	reconcileMetricsOnce = sync.Once{}
	reconcileMetricsOnce.Do(func() {
		reconcileMetrics = newReconcileMetrics(prometheus.NewRegistry(), Config{Environment: "test"})
	})
}

func newReconcileMetrics(registerer prometheus.Registerer, cfg Config) *ReconcileMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "candybot"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "candybot_reconcile_runs_total",
		Help:        "Completed reconciliation runs.",
		ConstLabels: constLabels,
	})
	runsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "candybot_reconcile_runs_skipped_total",
		Help:        "Runs skipped because a previous run was still executing.",
		ConstLabels: constLabels,
	})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "candybot_reconcile_job_errors_total",
		Help:        "Reconciliation job errors by job name.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "candybot_reconcile_job_duration_seconds",
		Help:        "Reconciliation job latency in seconds.",
		ConstLabels: constLabels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"job"})
	softDeletes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "candybot_reconcile_soft_deletes_total",
		Help:        "Rows soft-deleted by the differ, by entity kind.",
		ConstLabels: constLabels,
	}, []string{"kind"})
	finalizations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "candybot_reconcile_finalizations_total",
		Help:        "Entities finalized after cascade cleanup, by entity kind.",
		ConstLabels: constLabels,
	}, []string{"kind"})
	cascadeFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "candybot_reconcile_cascade_failures_total",
		Help:        "Aborted cascade finalizations, by entity kind.",
		ConstLabels: constLabels,
	}, []string{"kind"})
	snapshotErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "candybot_reconcile_snapshot_errors_total",
		Help:        "Failed platform snapshot fetches.",
		ConstLabels: constLabels,
	})
	tenantsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "candybot_reconcile_tenants_skipped_total",
		Help:        "Tenants skipped during a run (unknown locally or fetch failed).",
		ConstLabels: constLabels,
	})

	for _, collector := range []prometheus.Collector{
		runs, runsSkipped, jobErrors, jobDuration,
		softDeletes, finalizations, cascadeFailures,
		snapshotErrors, tenantsSkipped,
	} {
		registerer.MustRegister(collector)
	}

	return &ReconcileMetrics{
		runs:            runs,
		runsSkipped:     runsSkipped,
		jobErrors:       jobErrors,
		jobDuration:     jobDuration,
		softDeletes:     softDeletes,
		finalizations:   finalizations,
		cascadeFailures: cascadeFailures,
		snapshotErrors:  snapshotErrors,
		tenantsSkipped:  tenantsSkipped,
	}
}

// IncRun increments the completed run counter.
func (m *ReconcileMetrics) IncRun() {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.Inc()
}

// IncRunSkipped increments the overlap-skip counter.
func (m *ReconcileMetrics) IncRunSkipped() {
	if m == nil || m.runsSkipped == nil {
		return
	}
	m.runsSkipped.Inc()
}

// IncJobError increments the error counter for a job.
func (m *ReconcileMetrics) IncJobError(job string) {
	if m == nil || m.jobErrors == nil {
		return
	}
	m.jobErrors.WithLabelValues(job).Inc()
}

// ObserveJobDuration records job latency in seconds.
func (m *ReconcileMetrics) ObserveJobDuration(job string, duration time.Duration) {
	if m == nil || m.jobDuration == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// AddSoftDeletes adds to the soft-delete counter for an entity kind.
func (m *ReconcileMetrics) AddSoftDeletes(kind string, n int) {
	if m == nil || m.softDeletes == nil || n <= 0 {
		return
	}
	m.softDeletes.WithLabelValues(kind).Add(float64(n))
}

// IncFinalization increments the finalization counter for an entity kind.
func (m *ReconcileMetrics) IncFinalization(kind string) {
	if m == nil || m.finalizations == nil {
		return
	}
	m.finalizations.WithLabelValues(kind).Inc()
}

// IncCascadeFailure increments the cascade failure counter for an entity kind.
func (m *ReconcileMetrics) IncCascadeFailure(kind string) {
	if m == nil || m.cascadeFailures == nil {
		return
	}
	m.cascadeFailures.WithLabelValues(kind).Inc()
}

// IncSnapshotError increments the snapshot fetch failure counter.
func (m *ReconcileMetrics) IncSnapshotError() {
	if m == nil || m.snapshotErrors == nil {
		return
	}
	m.snapshotErrors.Inc()
}

// IncTenantSkipped increments the skipped-tenant counter.
func (m *ReconcileMetrics) IncTenantSkipped() {
	if m == nil || m.tenantsSkipped == nil {
		return
	}
	m.tenantsSkipped.Inc()
}
