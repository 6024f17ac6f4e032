package service

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/go-time-sync/models"
)

// ClientSyncService runs sync passes against the remote API and reports
// what could not be synchronized.
type ClientSyncService interface {
	// Run executes one full pass: push every type in dependency order, then
	// pull every type in the same order. It never returns an error; a run
	// that could not complete is reported as [models.OutcomeFatal].
	// A concurrent call yields a fatal outcome wrapping [ErrSyncInProgress].
	Run(ctx context.Context) models.SyncOutcome

	// Resync forgets every since-parameter and runs a pass, so that every
	// type is fetched in full.
	Resync(ctx context.Context) models.SyncOutcome

	// RetryFailed queues every SyncFailed entity for the next push and
	// returns how many were queued.
	RetryFailed(ctx context.Context) (int, error)

	// Failures lists the SyncFailed entities of every type in canonical
	// type order.
	Failures(ctx context.Context) ([]models.SyncFailureItem, error)

	// WriteGraph writes the sync graph in Graphviz DOT format.
	WriteGraph(w io.Writer) error
}

// ClientSyncJob defines the contract for a background sync worker that
// periodically calls Run.
type ClientSyncJob interface {
	// Start launches the background sync goroutine. It syncs every interval
	// with up to a tenth of jitter, defaulting to 5 minutes if interval is
	// zero or negative. Any previously running job is stopped before the new
	// one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
