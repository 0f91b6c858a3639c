package driven

import (
	"time"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// SyncMetrics records sync activity. Optional: the orchestrator works with nil.
type SyncMetrics interface {
	// ObserveFetch records one route/day fetch.
	ObserveFetch(route domain.Route, elapsed time.Duration, offers int, err error)

	// ObserveUpsert records a committed batch.
	ObserveUpsert(stats domain.UpsertStats)

	// ObserveResult records the outcome of a cycle. result is nil when err is set.
	ObserveResult(result domain.SyncResult, err error)

	// SetWatermark records the current watermark.
	SetWatermark(at time.Time)
}
