package driving

import "github.com/custodia-labs/flightsync/internal/core/domain"

// SettingsService exposes application settings backed by the config store,
// with environment variables taking precedence.
type SettingsService interface {
	// SyncSettings returns the effective sync settings.
	SyncSettings() (domain.SyncSettings, error)

	// ProviderSettings returns the provider endpoint and credentials.
	ProviderSettings() domain.ProviderSettings

	// SchedulerConfig returns the periodic driver configuration.
	SchedulerConfig() domain.SchedulerConfig

	// DatabasePath returns the configured offer database path; empty means
	// the store default.
	DatabasePath() string

	// Get returns the effective value of a setting as text and whether it
	// is set anywhere other than the built-in defaults.
	Get(key string) (string, bool)

	// Set validates and persists a single setting.
	Set(key, value string) error

	// SetCredentials persists provider credentials.
	SetCredentials(clientID, clientSecret string) error

	// Keys lists the recognised setting keys.
	Keys() []string
}
