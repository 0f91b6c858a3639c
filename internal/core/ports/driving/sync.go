package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// SyncOrchestrator refreshes the local offer dataset from the provider.
type SyncOrchestrator interface {
	// RunSync performs one cycle: throttle check, fetch, commit, watermark.
	// A throttled cycle returns *domain.SyncSkipped and a nil error.
	RunSync(ctx context.Context, opts RunOptions) (domain.SyncResult, error)

	// Status returns the watermark and dataset size.
	Status(ctx context.Context) (*SyncStatus, error)

	// UpdateSettings validates and applies settings to subsequent cycles.
	// A cycle already in progress keeps the settings it started with.
	UpdateSettings(settings domain.SyncSettings) error
}

// RunOptions modifies a single sync invocation.
type RunOptions struct {
	// Force ignores the throttle.
	Force bool
}

// SyncStatus represents the current state of the synchronised dataset.
type SyncStatus struct {
	// Running indicates if a cycle is in progress.
	Running bool

	// LastSuccess is the watermark; zero if no cycle has succeeded.
	LastSuccess time.Time

	// NextAllowed is the earliest time a non-forced cycle will run.
	NextAllowed time.Time

	// OfferCount is the number of stored offers.
	OfferCount int

	// Routes is the number of configured routes.
	Routes int

	// LastAttempt is when the most recent invocation in this process
	// finished; zero if there was none.
	LastAttempt time.Time

	// LastSkipped reports whether that invocation was throttled.
	LastSkipped bool

	// LastError is the error of that invocation, empty if it succeeded.
	LastError string
}
