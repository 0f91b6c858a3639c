package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/flightsync/internal/logger"
)

// watchDebounce coalesces the burst of events an editor produces on save.
const watchDebounce = 250 * time.Millisecond

// Watch reloads the configuration whenever the file changes on disk and
// then calls onChange. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself, so saves
// that replace the file through a rename are still observed.
func (s *ConfigStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.filePath), err)
	}

	target := filepath.Clean(s.filePath)
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Config watcher error: %v", err)

		case <-timer.C:
			if err := s.Load(); err != nil {
				logger.Warn("Ignoring unreadable config %s: %v", s.filePath, err)
				continue
			}
			logger.Info("Reloaded configuration from %s", s.filePath)
			if onChange != nil {
				onChange()
			}
		}
	}
}
