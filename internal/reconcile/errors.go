package reconcile

import "errors"

var (
	// ErrTenantNotFound means reconciliation was attempted for a tenant
	// with no matching internal community. Non-fatal: skip the tenant.
	ErrTenantNotFound = errors.New("reconcile: tenant not known locally")

	// ErrSnapshotUnavailable wraps a failed platform snapshot fetch.
	// Non-fatal: skip the tenant for this run.
	ErrSnapshotUnavailable = errors.New("reconcile: snapshot fetch failed")

	// ErrCascadeAborted wraps a failed dependent-table delete. The
	// entity stays PENDING and is retried on the next run.
	ErrCascadeAborted = errors.New("reconcile: cascade aborted")

	ErrInvalidConfig = errors.New("reconcile: invalid scheduler configuration")

	// ErrRunInProgress is returned when a run is requested while the
	// previous one is still executing.
	ErrRunInProgress = errors.New("reconcile: run already in progress")
)
