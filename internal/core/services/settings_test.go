package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/flightsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/flightsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// envMap returns a lookup function backed by m.
func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func newTestSettings(store *memory.ConfigStore, env map[string]string) *SettingsService {
	return NewSettingsService(store, WithEnvLookup(envMap(env)))
}

func TestSettingsService_SyncSettings_Defaults(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), nil)

	settings, err := service.SyncSettings()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSyncSettings(), settings)
}

func TestSettingsService_SyncSettings_ConfigValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"sync.routes":                 []any{"Mumbai:Hanoi"},
		"sync.days_ahead":             int64(3),
		"sync.max_per_day":            int64(2),
		"sync.min_update_gap_minutes": int64(0),
		"sync.adults":                 int64(2),
		"sync.currency":               "usd",
		"sync.fallback_rate":          1.5,
	})
	service := newTestSettings(store, nil)

	settings, err := service.SyncSettings()

	require.NoError(t, err)
	assert.Equal(t, []domain.Route{{Origin: "Mumbai", Destination: "Hanoi"}}, settings.Routes)
	assert.Equal(t, 3, settings.DaysAhead)
	assert.Equal(t, 2, settings.MaxPerDay)
	assert.Zero(t, settings.MinUpdateGap)
	assert.Equal(t, 2, settings.Adults)
	assert.Equal(t, "USD", settings.Currency)
	assert.InDelta(t, 1.5, settings.FallbackRate, 1e-9)
}

func TestSettingsService_SyncSettings_EnvOverridesConfig(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"sync.routes":     []string{"Mumbai:Hanoi"},
		"sync.days_ahead": 3,
	})
	env := map[string]string{
		EnvRoutes:        `[{"origin":"New Delhi","destination":"Hanoi"},{"origin":"Hanoi","destination":"Mumbai"}]`,
		EnvDaysAhead:     "5",
		EnvMaxPerDay:     "4",
		EnvMinGapMinutes: "45",
	}
	service := newTestSettings(store, env)

	settings, err := service.SyncSettings()

	require.NoError(t, err)
	assert.Equal(t, []domain.Route{
		{Origin: "New Delhi", Destination: "Hanoi"},
		{Origin: "Hanoi", Destination: "Mumbai"},
	}, settings.Routes)
	assert.Equal(t, 5, settings.DaysAhead)
	assert.Equal(t, 4, settings.MaxPerDay)
	assert.Equal(t, 45*time.Minute, settings.MinUpdateGap)
}

func TestSettingsService_SyncSettings_EmptyEnvIgnored(t *testing.T) {
	service := newTestSettings(memory.NewConfigStore(), map[string]string{EnvRoutes: "  "})

	settings, err := service.SyncSettings()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRoutes(), settings.Routes)
}

func TestSettingsService_SyncSettings_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		store map[string]any
		env   map[string]string
	}{
		{name: "routes not json", env: map[string]string{EnvRoutes: "Mumbai:Hanoi"}},
		{name: "empty route list", env: map[string]string{EnvRoutes: "[]"}},
		{name: "route missing destination", env: map[string]string{EnvRoutes: `[{"origin":"Mumbai"}]`}},
		{name: "days ahead not a number", env: map[string]string{EnvDaysAhead: "three"}},
		{name: "negative max per day", env: map[string]string{EnvMaxPerDay: "-1"}},
		{name: "bad stored route", store: map[string]any{"sync.routes": []string{"Mumbai"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestSettings(memory.NewConfigStore(tt.store), tt.env)

			_, err := service.SyncSettings()

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestSettingsService_ProviderSettings(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"amadeus.client_id":     "stored-id",
		"amadeus.client_secret": "stored-secret",
	})

	t.Run("config file", func(t *testing.T) {
		got := newTestSettings(store, nil).ProviderSettings()
		assert.Equal(t, domain.ProviderSettings{ClientID: "stored-id", ClientSecret: "stored-secret"}, got)
	})

	t.Run("environment wins", func(t *testing.T) {
		got := newTestSettings(store, map[string]string{
			EnvAmadeusClientID: " env-id ",
			EnvAmadeusBaseURL:  "http://localhost:9999",
		}).ProviderSettings()
		assert.Equal(t, "env-id", got.ClientID)
		assert.Equal(t, "stored-secret", got.ClientSecret)
		assert.Equal(t, "http://localhost:9999", got.BaseURL)
	})
}

func TestSettingsService_SchedulerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		got := newTestSettings(memory.NewConfigStore(), nil).SchedulerConfig()
		assert.Equal(t, domain.DefaultSchedulerConfig(), got)
	})

	t.Run("config file", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{
			"scheduler.enabled":             false,
			"scheduler.offer_sync.enabled":  false,
			"scheduler.offer_sync.interval": "90s",
		})
		got := newTestSettings(store, nil).SchedulerConfig()
		task := got.GetTaskConfig(domain.TaskIDOfferSync)

		assert.False(t, got.Enabled)
		assert.False(t, task.Enabled)
		assert.Equal(t, 90*time.Second, task.Interval)
	})

	t.Run("environment minutes", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{"scheduler.offer_sync.interval": "90s"})
		got := newTestSettings(store, map[string]string{
			EnvInterval:   "7",
			EnvEnableSync: "TRUE",
		}).SchedulerConfig()

		assert.True(t, got.Enabled)
		assert.Equal(t, 7*time.Minute, got.GetTaskConfig(domain.TaskIDOfferSync).Interval)
	})

	t.Run("check interval takes precedence", func(t *testing.T) {
		got := newTestSettings(memory.NewConfigStore(), map[string]string{
			EnvCheckInterval: "2",
			EnvInterval:      "7",
		}).SchedulerConfig()

		assert.Equal(t, 2*time.Minute, got.GetTaskConfig(domain.TaskIDOfferSync).Interval)
	})

	t.Run("sync disabled by environment", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{"scheduler.enabled": true})
		got := newTestSettings(store, map[string]string{EnvEnableSync: "false"}).SchedulerConfig()

		assert.False(t, got.Enabled)
	})

	t.Run("invalid interval keeps default", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{"scheduler.offer_sync.interval": "soon"})
		got := newTestSettings(store, nil).SchedulerConfig()

		assert.Equal(t, 5*time.Minute, got.GetTaskConfig(domain.TaskIDOfferSync).Interval)
	})
}

func TestSettingsService_DatabasePath(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"database.path": "/var/lib/flights.db"})

	assert.Equal(t, "/var/lib/flights.db", newTestSettings(store, nil).DatabasePath())
	assert.Equal(t, "/tmp/other.db",
		newTestSettings(store, map[string]string{EnvDatabasePath: "/tmp/other.db"}).DatabasePath())
	assert.Empty(t, newTestSettings(memory.NewConfigStore(), nil).DatabasePath())
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  any
	}{
		{key: "sync.routes", value: "Mumbai:Hanoi, Hanoi : New Delhi", want: []string{"Mumbai:Hanoi", "Hanoi:New Delhi"}},
		{key: "sync.days_ahead", value: "0", want: 0},
		{key: "sync.max_per_day", value: "12", want: 12},
		{key: "sync.currency", value: "eur", want: "EUR"},
		{key: "sync.fallback_rate", value: "83.5", want: 83.5},
		{key: "amadeus.base_url", value: "https://api.amadeus.com/", want: "https://api.amadeus.com"},
		{key: "scheduler.enabled", value: "false", want: false},
		{key: "scheduler.offer_sync.interval", value: "10m", want: "10m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := newTestSettings(store, nil)

			require.NoError(t, service.Set(tt.key, tt.value))

			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "search.mode", value: "hybrid"},
		{key: "sync.routes", value: "Mumbai"},
		{key: "sync.routes", value: " , "},
		{key: "sync.max_per_day", value: "0"},
		{key: "sync.days_ahead", value: "-1"},
		{key: "sync.currency", value: "rupees"},
		{key: "sync.fallback_rate", value: "0"},
		{key: "amadeus.base_url", value: "ftp://example.com"},
		{key: "scheduler.enabled", value: "maybe"},
		{key: "scheduler.offer_sync.interval", value: "-5m"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := newTestSettings(store, nil)

			err := service.Set(tt.key, tt.value)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, ok := store.Get(tt.key)
			assert.False(t, ok)
		})
	}
}

func TestSettingsService_SetThenReadBack(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)

	require.NoError(t, service.Set("sync.routes", "Mumbai:Hanoi"))
	require.NoError(t, service.Set("sync.min_update_gap_minutes", "10"))

	settings, err := service.SyncSettings()
	require.NoError(t, err)
	assert.Len(t, settings.Routes, 1)
	assert.Equal(t, 10*time.Minute, settings.MinUpdateGap)
}

func TestSettingsService_SetCredentials(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)

	require.NoError(t, service.SetCredentials(" id ", "secret"))
	assert.Equal(t, "id", store.GetString("amadeus.client_id"))
	assert.Equal(t, "secret", store.GetString("amadeus.client_secret"))
	assert.True(t, service.ProviderSettings().HasCredentials())

	assert.ErrorIs(t, service.SetCredentials("id", ""), domain.ErrInvalidInput)
}

func TestSettingsService_Get(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"sync.routes": []any{"Mumbai:Hanoi", "Hanoi:Mumbai"}})
	service := newTestSettings(store, map[string]string{EnvMaxPerDay: "3"})

	value, set := service.Get("sync.routes")
	assert.True(t, set)
	assert.Equal(t, "Mumbai:Hanoi,Hanoi:Mumbai", value)

	value, set = service.Get("sync.max_per_day")
	assert.True(t, set)
	assert.Equal(t, "3", value)

	value, set = service.Get("sync.days_ahead")
	assert.False(t, set)
	assert.Equal(t, "21", value)

	value, set = service.Get("scheduler.offer_sync.interval")
	assert.False(t, set)
	assert.Equal(t, "5m0s", value)

	_, set = service.Get("nope")
	assert.False(t, set)
}

func TestSettingsService_Keys(t *testing.T) {
	keys := newTestSettings(memory.NewConfigStore(), nil).Keys()

	assert.Contains(t, keys, "sync.routes")
	assert.Contains(t, keys, "amadeus.client_secret")
	assert.IsIncreasing(t, keys)
}

// fileSettings builds a SettingsService over a config.toml holding content.
func fileSettings(t *testing.T, content string) *SettingsService {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file.ConfigFileName), []byte(content), 0600))
	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	return NewSettingsService(store, WithEnvLookup(envMap(nil)))
}

func TestSettingsService_SyncSettings_FileIntegerTypes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		wantGap time.Duration
		wantDay int
	}{
		{
			name:    "whole float accepted",
			content: "[sync]\nmin_update_gap_minutes = 30.0\ndays_ahead = 3\n",
			wantGap: 30 * time.Minute,
			wantDay: 3,
		},
		{
			name:    "quoted integer rejected",
			content: "[sync]\ndays_ahead = \"3\"\n",
			wantErr: "sync.days_ahead",
		},
		{
			name:    "fractional float rejected",
			content: "[sync]\nmin_update_gap_minutes = 30.5\n",
			wantErr: "sync.min_update_gap_minutes",
		},
		{
			name:    "boolean rejected",
			content: "[sync]\nadults = true\n",
			wantErr: "sync.adults",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := fileSettings(t, tt.content)

			settings, err := service.SyncSettings()

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantGap, settings.MinUpdateGap)
			assert.Equal(t, tt.wantDay, settings.DaysAhead)
		})
	}
}
