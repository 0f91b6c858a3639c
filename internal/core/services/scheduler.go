package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
	"github.com/custodia-labs/flightsync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

const (
	// DefaultTickInterval is how often the scheduler checks for due tasks.
	DefaultTickInterval = time.Minute

	// historyRetention is the number of results kept per task.
	historyRetention = 100
)

// Scheduler is the periodic driver of the sync orchestrator. It invokes
// RunSync blindly on a fixed cadence; the orchestrator's throttle decides
// whether an invocation actually fetches. Cycles run on their own goroutine
// so the loop never blocks on network or storage.
type Scheduler struct {
	store    driven.SchedulerStore
	syncOrch driving.SyncOrchestrator
	tick     time.Duration
	now      func() time.Time

	mu       sync.Mutex
	config   domain.SchedulerConfig
	running  bool
	stopCh   chan struct{}
	inFlight map[string]bool
	wg       sync.WaitGroup
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithTickInterval sets how often due tasks are checked.
func WithTickInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithSchedulerClock replaces time.Now, mainly for tests.
func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	syncOrch driving.SyncOrchestrator,
	opts ...SchedulerOption,
) *Scheduler {
	s := &Scheduler{
		config:   config,
		store:    store,
		syncOrch: syncOrch,
		tick:     DefaultTickInterval,
		now:      time.Now,
		inFlight: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		logger.Info("Scheduler disabled")
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler: failed to initialise tasks: %v", err)
	}

	return s.run(ctx, stopCh)
}

// Stop gracefully shuts down the scheduler, waiting for an in-flight cycle.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Reconfigure applies a new configuration to the stored tasks.
// An interval change reschedules the task from now.
func (s *Scheduler) Reconfigure(ctx context.Context, config domain.SchedulerConfig) error {
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()
	return s.initialiseTasks(ctx)
}

// History returns recent results of the offer sync task, most recent first.
func (s *Scheduler) History(ctx context.Context, limit int) ([]domain.TaskResult, error) {
	return s.store.GetTaskHistory(ctx, domain.TaskIDOfferSync, limit)
}

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	s.mu.Lock()
	taskCfg := s.config.GetTaskConfig(domain.TaskIDOfferSync)
	s.mu.Unlock()

	return s.ensureTask(ctx, domain.TaskIDOfferSync, "Offer Sync", taskCfg)
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		// A fresh daemon checks straight away; the throttle guards the API.
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = s.now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}) error {
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("scheduler: failed to list tasks: %v", err)
		return
	}

	now := s.now()
	for i := range tasks {
		if tasks[i].Due(now) {
			s.runTask(ctx, &tasks[i])
		}
	}
}

// runTask executes a single task unless it is still running from an
// earlier tick.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.mu.Lock()
	if s.inFlight[task.ID] {
		s.mu.Unlock()
		logger.Debug("scheduler: %s still running, skipping tick", task.ID)
		return
	}
	s.inFlight[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, task.ID)
			s.mu.Unlock()
		}()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: s.now(),
		}

		// A started cycle runs to completion; Stop waits for it.
		cycleCtx := context.WithoutCancel(ctx)

		var err error
		switch task.ID {
		case domain.TaskIDOfferSync:
			err = s.runOfferSync(cycleCtx, result)
		default:
			logger.Warn("scheduler: unknown task ID: %s", task.ID)
			return
		}

		result.EndedAt = s.now()
		if err != nil {
			// Logged and left for the next tick; no backoff.
			logger.Error("scheduler: %s failed: %v", task.ID, err)
			result.Error = err.Error()
			task.LastError = err.Error()
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		if saveErr := s.store.SaveTask(cycleCtx, task); saveErr != nil {
			logger.Warn("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}
		if recordErr := s.store.RecordResult(cycleCtx, result); recordErr != nil {
			logger.Warn("scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}
		if pruneErr := s.store.PruneHistory(cycleCtx, historyRetention); pruneErr != nil {
			logger.Warn("scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}

// runOfferSync invokes one sync cycle and copies its outcome into result.
func (s *Scheduler) runOfferSync(ctx context.Context, result *domain.TaskResult) error {
	if s.syncOrch == nil {
		return nil
	}

	res, err := s.syncOrch.RunSync(ctx, driving.RunOptions{})
	if errors.Is(err, domain.ErrSyncInProgress) {
		// A manual sync owns this cycle.
		result.Skipped = true
		logger.Event("sync skipped", "task", result.TaskID, "reason", "sync in progress")
		return nil
	}
	if err != nil {
		return err
	}

	switch r := res.(type) {
	case *domain.SyncRan:
		result.RunID = r.RunID
		result.Inserted = r.Inserted
		result.Updated = r.Updated
		logger.Event("sync complete", "task", result.TaskID, "run_id", r.RunID,
			"fetched", r.Fetched, "inserted", r.Inserted, "updated", r.Updated)
	case *domain.SyncSkipped:
		result.Skipped = true
		logger.Event("sync skipped", "task", result.TaskID, "reason", r.Reason,
			"remaining_seconds", r.RemainingSeconds())
	}
	return nil
}
