package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
	"github.com/custodia-labs/flightsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// skipReasonThrottled is reported when the watermark is newer than the gap.
const skipReasonThrottled = "recently updated"

// SyncOrchestrator coordinates offer synchronisation.
//
// One invocation is one unit of work: throttle check, sequential fetch of
// every route and day, a single batch commit and a watermark update. Any
// fetch failure discards the whole batch and leaves the watermark alone, so
// the next invocation retries the full range.
type SyncOrchestrator struct {
	offerStore    driven.OfferStore
	metadataStore driven.MetadataStore
	provider      driven.OfferProvider
	metrics       driven.SyncMetrics
	now           func() time.Time

	mu       sync.RWMutex
	settings domain.SyncSettings
	last     lastAttempt

	running atomic.Bool
}

// lastAttempt is the outcome of the most recent invocation.
type lastAttempt struct {
	at      time.Time
	skipped bool
	err     string
}

// SyncOption configures a SyncOrchestrator.
type SyncOption func(*SyncOrchestrator)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) SyncOption {
	return func(o *SyncOrchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMetrics records sync activity.
func WithMetrics(m driven.SyncMetrics) SyncOption {
	return func(o *SyncOrchestrator) {
		o.metrics = m
	}
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	offerStore driven.OfferStore,
	metadataStore driven.MetadataStore,
	provider driven.OfferProvider,
	settings domain.SyncSettings,
	opts ...SyncOption,
) *SyncOrchestrator {
	o := &SyncOrchestrator{
		offerStore:    offerStore,
		metadataStore: metadataStore,
		provider:      provider,
		now:           time.Now,
		settings:      settings,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Settings returns the settings the next cycle will use.
func (o *SyncOrchestrator) Settings() domain.SyncSettings {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.settings
}

// UpdateSettings swaps the settings used by subsequent cycles.
// A cycle already in flight keeps the settings it started with.
func (o *SyncOrchestrator) UpdateSettings(settings domain.SyncSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settings = settings
	return nil
}

// RunSync performs one sync cycle.
func (o *SyncOrchestrator) RunSync(ctx context.Context, opts driving.RunOptions) (domain.SyncResult, error) {
	if !o.running.CompareAndSwap(false, true) {
		if o.metrics != nil {
			o.metrics.ObserveResult(nil, domain.ErrSyncInProgress)
		}
		return nil, domain.ErrSyncInProgress
	}
	defer o.running.Store(false)

	result, err := o.runCycle(ctx, opts)
	if o.metrics != nil {
		o.metrics.ObserveResult(result, err)
	}
	o.recordAttempt(result, err)
	return result, err
}

// recordAttempt keeps the outcome for Status.
func (o *SyncOrchestrator) recordAttempt(result domain.SyncResult, err error) {
	attempt := lastAttempt{at: o.now()}
	if err != nil {
		attempt.err = err.Error()
	} else if result != nil {
		attempt.skipped = result.Skipped()
	}

	o.mu.Lock()
	o.last = attempt
	o.mu.Unlock()
}

func (o *SyncOrchestrator) runCycle(ctx context.Context, opts driving.RunOptions) (domain.SyncResult, error) {
	settings := o.Settings()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	// 1. Throttle check
	lastSuccess, hasWatermark, err := o.readWatermark(ctx)
	if err != nil {
		return nil, err
	}

	now := o.now()
	if hasWatermark && !opts.Force {
		if elapsed := now.Sub(lastSuccess); elapsed < settings.MinUpdateGap {
			skipped := &domain.SyncSkipped{
				Reason:      skipReasonThrottled,
				LastSuccess: lastSuccess,
				Remaining:   settings.MinUpdateGap - elapsed,
			}
			logger.Infow("sync throttled",
				"reason", skipped.Reason,
				"remaining_seconds", skipped.RemainingSeconds())
			return skipped, nil
		}
	}

	runID := uuid.NewString()
	logger.Infow("sync started",
		"run_id", runID,
		"routes", len(settings.Routes),
		"days", settings.DaysAhead+1)

	// 2. Expand routes x days into one batch
	batch, err := o.fetchAll(ctx, settings, now)
	if err != nil {
		logger.Warn("Sync %s aborted, nothing committed: %v", runID, err)
		return nil, err
	}

	// 3. Commit
	stats, err := o.offerStore.Upsert(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("commit offers: %w", err)
	}
	if o.metrics != nil {
		o.metrics.ObserveUpsert(stats)
	}

	committedAt := time.Unix(o.now().Unix(), 0)
	if err := o.metadataStore.Set(ctx, domain.WatermarkKey, domain.FormatWatermark(committedAt)); err != nil {
		return nil, fmt.Errorf("save watermark: %w", err)
	}
	if o.metrics != nil {
		o.metrics.SetWatermark(committedAt)
	}

	logger.Infow("sync committed",
		"run_id", runID,
		"offers", len(batch),
		"inserted", stats.Inserted,
		"updated", stats.Updated)

	return &domain.SyncRan{
		RunID:       runID,
		Fetched:     len(batch),
		Inserted:    stats.Inserted,
		Updated:     stats.Updated,
		LastSuccess: committedAt,
	}, nil
}

// fetchAll fetches every route and day sequentially, in configured order.
func (o *SyncOrchestrator) fetchAll(
	ctx context.Context,
	settings domain.SyncSettings,
	start time.Time,
) ([]domain.FlightOffer, error) {
	if o.provider == nil {
		return nil, fmt.Errorf("%w: offer provider not configured", domain.ErrConfiguration)
	}

	days := domain.DayRange(start, settings.DaysAhead)
	fetchOpts := driven.FetchOptions{
		Adults:       settings.Adults,
		MaxResults:   settings.MaxPerDay,
		Currency:     settings.Currency,
		FallbackRate: settings.FallbackRate,
	}

	var batch []domain.FlightOffer
	for _, route := range settings.Routes {
		offers, err := o.fetchRoute(ctx, route, days, fetchOpts)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", route, err)
		}
		batch = append(batch, offers...)
	}
	return batch, nil
}

// fetchRoute opens one provider session for the route and reuses it for
// every day in the range.
func (o *SyncOrchestrator) fetchRoute(
	ctx context.Context,
	route domain.Route,
	days []time.Time,
	opts driven.FetchOptions,
) ([]domain.FlightOffer, error) {
	session, err := o.provider.Open(ctx, route)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	var offers []domain.FlightOffer
	for _, day := range days {
		started := o.now()
		dayOffers, err := session.FetchOffers(ctx, day, opts)
		if o.metrics != nil {
			o.metrics.ObserveFetch(route, o.now().Sub(started), len(dayOffers), err)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day.Format(time.DateOnly), err)
		}
		logger.Infow("offers fetched",
			"route", route.String(),
			"day", day.Format(time.DateOnly),
			"offers", len(dayOffers))
		offers = append(offers, dayOffers...)
	}
	return offers, nil
}

// readWatermark returns the last successful sync time. A watermark that
// cannot be parsed is treated as absent so the next success overwrites it.
func (o *SyncOrchestrator) readWatermark(ctx context.Context) (time.Time, bool, error) {
	value, ok, err := o.metadataStore.Get(ctx, domain.WatermarkKey)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read watermark: %w", err)
	}
	if !ok {
		return time.Time{}, false, nil
	}

	at, err := domain.ParseWatermark(value)
	if err != nil {
		logger.Warn("Ignoring unreadable watermark: %v", err)
		return time.Time{}, false, nil
	}
	return at, true, nil
}

// Status returns the watermark and dataset size.
func (o *SyncOrchestrator) Status(ctx context.Context) (*driving.SyncStatus, error) {
	settings := o.Settings()

	lastSuccess, hasWatermark, err := o.readWatermark(ctx)
	if err != nil {
		return nil, err
	}

	count, err := o.offerStore.Count(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("count offers: %w", err)
	}

	o.mu.RLock()
	last := o.last
	o.mu.RUnlock()

	status := &driving.SyncStatus{
		Running:     o.running.Load(),
		OfferCount:  count,
		Routes:      len(settings.Routes),
		LastAttempt: last.at,
		LastSkipped: last.skipped,
		LastError:   last.err,
	}
	if hasWatermark {
		status.LastSuccess = lastSuccess
		status.NextAllowed = lastSuccess.Add(settings.MinUpdateGap)
	}
	return status, nil
}
