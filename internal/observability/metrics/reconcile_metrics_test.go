package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestReconcileMetricsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newReconcileMetrics(registry, Config{
		ServiceName: "candybot",
		Environment: "test",
	})

	m.IncRun()
	m.IncRun()
	m.IncRunSkipped()
	m.AddSoftDeletes("member", 3)
	m.IncFinalization("member")
	m.IncCascadeFailure("channel")
	m.IncJobError("tenant_diff")
	m.IncSnapshotError()
	m.IncTenantSkipped()
	m.ObserveJobDuration("finalize", 250*time.Millisecond)

	if got := testutil.ToFloat64(m.runs); got != 2 {
		t.Fatalf("expected 2 runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.runsSkipped); got != 1 {
		t.Fatalf("expected 1 skipped run, got %v", got)
	}
	if got := testutil.ToFloat64(m.softDeletes.WithLabelValues("member")); got != 3 {
		t.Fatalf("expected 3 member soft deletes, got %v", got)
	}
	if got := testutil.ToFloat64(m.finalizations.WithLabelValues("member")); got != 1 {
		t.Fatalf("expected 1 member finalization, got %v", got)
	}
	if got := testutil.ToFloat64(m.cascadeFailures.WithLabelValues("channel")); got != 1 {
		t.Fatalf("expected 1 channel cascade failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.jobErrors.WithLabelValues("tenant_diff")); got != 1 {
		t.Fatalf("expected 1 tenant_diff error, got %v", got)
	}
}

func TestReconcileMetricsNilSafe(t *testing.T) {
	var m *ReconcileMetrics
	m.IncRun()
	m.IncRunSkipped()
	m.AddSoftDeletes("member", 1)
	m.IncFinalization("member")
	m.IncCascadeFailure("member")
	m.IncJobError("finalize")
	m.IncSnapshotError()
	m.IncTenantSkipped()
	m.ObserveJobDuration("finalize", time.Second)
}

func TestNegativeSoftDeleteIgnored(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newReconcileMetrics(registry, Config{Environment: "test"})

	m.AddSoftDeletes("member", -5)
	m.AddSoftDeletes("member", 0)

	if got := testutil.ToFloat64(m.softDeletes.WithLabelValues("member")); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
