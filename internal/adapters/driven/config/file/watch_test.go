package file

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_WatchReloadsOnChange(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("sync.days_ahead", 21))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before editing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[sync]\ndays_ahead = 3\n"), 0600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report change")
	}
	assert.Equal(t, 3, store.GetInt("sync.days_ahead"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}

func TestConfigStore_WatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()

	calls := 0
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(dir+"/other.txt", []byte("x"), 0600)
	}()

	require.NoError(t, store.Watch(ctx, func() { calls++ }))
	assert.Zero(t, calls)
}
