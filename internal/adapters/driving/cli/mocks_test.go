package cli

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	mu        sync.Mutex
	runs      []driving.RunOptions
	updates   []domain.SyncSettings
	result    domain.SyncResult
	err       error
	status    *driving.SyncStatus
	statErr   error
	updateErr error
}

func (m *mockSyncOrchestrator) RunSync(_ context.Context, opts driving.RunOptions) (domain.SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, opts)
	return m.result, m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	if m.statErr != nil {
		return nil, m.statErr
	}
	if m.status == nil {
		return &driving.SyncStatus{}, nil
	}
	return m.status, nil
}

func (m *mockSyncOrchestrator) UpdateSettings(settings domain.SyncSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, settings)
	return nil
}

func (m *mockSyncOrchestrator) updateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	mu          sync.Mutex
	values      map[string]string
	secretSet   [2]string
	setErr      error
	syncErr     error
	schedConfig domain.SchedulerConfig
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		values:      map[string]string{},
		schedConfig: domain.DefaultSchedulerConfig(),
	}
}

func (m *mockSettingsService) SyncSettings() (domain.SyncSettings, error) {
	if m.syncErr != nil {
		return domain.SyncSettings{}, m.syncErr
	}
	return domain.DefaultSyncSettings(), nil
}

func (m *mockSettingsService) ProviderSettings() domain.ProviderSettings {
	return domain.ProviderSettings{}
}

func (m *mockSettingsService) SchedulerConfig() domain.SchedulerConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedConfig
}

func (m *mockSettingsService) DatabasePath() string {
	return ""
}

func (m *mockSettingsService) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) SetCredentials(clientID, clientSecret string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.secretSet = [2]string{clientID, clientSecret}
	return nil
}

func (m *mockSettingsService) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mockOfferService implements driving.OfferService for testing.
type mockOfferService struct {
	offers     []domain.FlightOffer
	lastFilter domain.OfferFilter
	err        error
}

func (m *mockOfferService) List(_ context.Context, filter domain.OfferFilter) ([]domain.FlightOffer, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.offers, nil
}

func (m *mockOfferService) Get(_ context.Context, identityKey string) (*domain.FlightOffer, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.offers {
		if m.offers[i].IdentityKey == identityKey {
			return &m.offers[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockSeedService implements driving.SeedService for testing.
type mockSeedService struct {
	calls    int
	payload  string
	lastOpts driving.SeedOptions
	result   *driving.SeedResult
	err      error
}

func (m *mockSeedService) Seed(_ context.Context, snapshot io.Reader, opts driving.SeedOptions) (*driving.SeedResult, error) {
	m.calls++
	m.lastOpts = opts
	data, err := io.ReadAll(snapshot)
	if err != nil {
		return nil, err
	}
	m.payload = string(data)
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &driving.SeedResult{}, nil
	}
	return m.result, nil
}

// mockScheduler implements driving.Scheduler for testing.
type mockScheduler struct {
	mu           sync.Mutex
	started      chan struct{}
	startErr     error
	stopped      bool
	reconfigured []domain.SchedulerConfig
	history      []domain.TaskResult
	historyErr   error
}

func newMockScheduler() *mockScheduler {
	return &mockScheduler{started: make(chan struct{})}
}

func (m *mockScheduler) Start(ctx context.Context) error {
	close(m.started)
	if m.startErr != nil {
		return m.startErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockScheduler) Reconfigure(_ context.Context, config domain.SchedulerConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconfigured = append(m.reconfigured, config)
	return nil
}

func (m *mockScheduler) History(_ context.Context, limit int) ([]domain.TaskResult, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	if limit < len(m.history) {
		return m.history[:limit], nil
	}
	return m.history, nil
}

func (m *mockScheduler) reconfigureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reconfigured)
}

func (m *mockScheduler) wasStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Ensure mocks implement interfaces
var (
	_ driving.SyncOrchestrator = (*mockSyncOrchestrator)(nil)
	_ driving.SettingsService  = (*mockSettingsService)(nil)
	_ driving.OfferService     = (*mockOfferService)(nil)
	_ driving.SeedService      = (*mockSeedService)(nil)
	_ driving.Scheduler        = (*mockScheduler)(nil)
)

// setupServices installs svc for the duration of a test.
func setupServices(t *testing.T, svc *Services) {
	t.Helper()

	oldInit := initializer
	initializer = nil
	SetServices(svc)
	t.Cleanup(func() {
		initializer = oldInit
		SetServices(nil)
	})
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	return executeCommandWithInput("", args...)
}

func executeCommandWithInput(input string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
