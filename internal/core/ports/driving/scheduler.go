package driving

import (
	"context"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// Scheduler is the periodic driver invoking sync in the background.
type Scheduler interface {
	// Start runs the scheduler loop.
	// Blocks until Stop is called or the context is cancelled.
	Start(ctx context.Context) error

	// Stop waits for an in-flight cycle and stops the loop.
	Stop() error

	// Reconfigure applies new task intervals and enablement.
	Reconfigure(ctx context.Context, config domain.SchedulerConfig) error

	// History returns recent sync cycles, most recent first.
	History(ctx context.Context, limit int) ([]domain.TaskResult, error)
}
