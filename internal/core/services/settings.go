package services

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySyncRoutes          = "sync.routes"
	keySyncDaysAhead       = "sync.days_ahead"
	keySyncMaxPerDay       = "sync.max_per_day"
	keySyncMinGapMinutes   = "sync.min_update_gap_minutes"
	keySyncAdults          = "sync.adults"
	keySyncCurrency        = "sync.currency"
	keySyncFallbackRate    = "sync.fallback_rate"
	keyAmadeusClientID     = "amadeus.client_id"
	keyAmadeusClientSecret = "amadeus.client_secret"
	keyAmadeusBaseURL      = "amadeus.base_url"
	keySchedulerEnabled    = "scheduler.enabled"
	keyOfferSyncEnabled    = "scheduler.offer_sync.enabled"
	keyOfferSyncInterval   = "scheduler.offer_sync.interval"
	keyDatabasePath        = "database.path"
)

// Environment variables overriding the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvRoutes          = "FLIGHT_SYNC_ROUTES"
	EnvDaysAhead       = "FLIGHT_SYNC_DAYS_AHEAD"
	EnvMaxPerDay       = "FLIGHT_SYNC_MAX_PER_DAY"
	EnvMinGapMinutes   = "FLIGHT_SYNC_MIN_UPDATE_GAP_MINUTES"
	EnvCheckInterval   = "FLIGHT_SYNC_CHECK_INTERVAL_MINUTES"
	EnvInterval        = "FLIGHT_SYNC_INTERVAL_MINUTES"
	EnvEnableSync      = "ENABLE_ONLINE_FLIGHT_SYNC"
	EnvAmadeusClientID = "AMADEUS_CLIENT_ID"
	EnvAmadeusSecret   = "AMADEUS_CLIENT_SECRET"
	EnvAmadeusBaseURL  = "AMADEUS_BASE_URL"
	EnvDatabasePath    = "FLIGHTS_DB_PATH"
)

// settingKind selects how a textual value is parsed before it is stored.
type settingKind int

const (
	kindString settingKind = iota
	kindCurrency
	kindURL
	kindPositiveInt
	kindNonNegativeInt
	kindPositiveFloat
	kindBool
	kindDuration
	kindRoutes
)

// setting describes one recognised key.
type setting struct {
	kind settingKind

	// env lists the overriding variables in order of precedence.
	env []string
}

var settingsTable = map[string]setting{
	keySyncRoutes:          {kind: kindRoutes, env: []string{EnvRoutes}},
	keySyncDaysAhead:       {kind: kindNonNegativeInt, env: []string{EnvDaysAhead}},
	keySyncMaxPerDay:       {kind: kindPositiveInt, env: []string{EnvMaxPerDay}},
	keySyncMinGapMinutes:   {kind: kindNonNegativeInt, env: []string{EnvMinGapMinutes}},
	keySyncAdults:          {kind: kindPositiveInt},
	keySyncCurrency:        {kind: kindCurrency},
	keySyncFallbackRate:    {kind: kindPositiveFloat},
	keyAmadeusClientID:     {kind: kindString, env: []string{EnvAmadeusClientID}},
	keyAmadeusClientSecret: {kind: kindString, env: []string{EnvAmadeusSecret}},
	keyAmadeusBaseURL:      {kind: kindURL, env: []string{EnvAmadeusBaseURL}},
	keySchedulerEnabled:    {kind: kindBool, env: []string{EnvEnableSync}},
	keyOfferSyncEnabled:    {kind: kindBool},
	keyOfferSyncInterval:   {kind: kindDuration, env: []string{EnvCheckInterval, EnvInterval}},
	keyDatabasePath:        {kind: kindString, env: []string{EnvDatabasePath}},
}

// SettingsService maps config keys to typed settings. Values come from the
// environment first, then the config store, then built-in defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithEnvLookup replaces os.LookupEnv, mainly for tests.
func WithEnvLookup(lookup func(string) (string, bool)) SettingsOption {
	return func(s *SettingsService) {
		if lookup != nil {
			s.lookupEnv = lookup
		}
	}
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, opts ...SettingsOption) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncSettings returns the effective sync settings. A malformed value in
// either the environment or the config file is a configuration error.
func (s *SettingsService) SyncSettings() (domain.SyncSettings, error) {
	settings := domain.DefaultSyncSettings()

	routes, err := s.routes()
	if err != nil {
		return domain.SyncSettings{}, err
	}
	if routes != nil {
		settings.Routes = routes
	}

	if settings.DaysAhead, err = s.getInt(keySyncDaysAhead, settings.DaysAhead); err != nil {
		return domain.SyncSettings{}, err
	}
	if settings.MaxPerDay, err = s.getInt(keySyncMaxPerDay, settings.MaxPerDay); err != nil {
		return domain.SyncSettings{}, err
	}
	gapMinutes, err := s.getInt(keySyncMinGapMinutes, int(settings.MinUpdateGap/time.Minute))
	if err != nil {
		return domain.SyncSettings{}, err
	}
	settings.MinUpdateGap = time.Duration(gapMinutes) * time.Minute
	if settings.Adults, err = s.getInt(keySyncAdults, settings.Adults); err != nil {
		return domain.SyncSettings{}, err
	}
	settings.Currency = strings.ToUpper(s.getString(keySyncCurrency, settings.Currency))
	if rate := s.configStore.GetFloat(keySyncFallbackRate); rate != 0 {
		settings.FallbackRate = rate
	}

	if err := settings.Validate(); err != nil {
		return domain.SyncSettings{}, err
	}
	return settings, nil
}

// ProviderSettings returns the provider endpoint and credentials.
func (s *SettingsService) ProviderSettings() domain.ProviderSettings {
	return domain.ProviderSettings{
		ClientID:     s.getString(keyAmadeusClientID, ""),
		ClientSecret: s.getString(keyAmadeusClientSecret, ""),
		BaseURL:      s.getString(keyAmadeusBaseURL, ""),
	}
}

// SchedulerConfig returns the periodic driver configuration.
// Unparseable values fall back to defaults.
func (s *SettingsService) SchedulerConfig() domain.SchedulerConfig {
	config := domain.DefaultSchedulerConfig()

	if raw, ok := s.env(keySchedulerEnabled); ok {
		config.Enabled = strings.EqualFold(strings.TrimSpace(raw), "true")
	} else if _, exists := s.configStore.Get(keySchedulerEnabled); exists {
		config.Enabled = s.configStore.GetBool(keySchedulerEnabled)
	}

	taskCfg := config.TaskConfigs[domain.TaskIDOfferSync]
	if _, exists := s.configStore.Get(keyOfferSyncEnabled); exists {
		taskCfg.Enabled = s.configStore.GetBool(keyOfferSyncEnabled)
	}
	if raw, ok := s.env(keyOfferSyncInterval); ok {
		// The environment counts whole minutes.
		if minutes, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && minutes > 0 {
			taskCfg.Interval = time.Duration(minutes) * time.Minute
		}
	} else if interval := s.configStore.GetString(keyOfferSyncInterval); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil && d > 0 {
			taskCfg.Interval = d
		}
	}
	config.TaskConfigs[domain.TaskIDOfferSync] = taskCfg

	return config
}

// DatabasePath returns the configured database path, empty for the default.
func (s *SettingsService) DatabasePath() string {
	return s.getString(keyDatabasePath, "")
}

// Get returns the effective textual value of key and whether it was set by
// the environment or the config file.
func (s *SettingsService) Get(key string) (string, bool) {
	if _, ok := settingsTable[key]; !ok {
		return "", false
	}
	if raw, ok := s.env(key); ok {
		return raw, true
	}
	if val, exists := s.configStore.Get(key); exists {
		return formatValue(val), true
	}
	return defaultText(key), false
}

// Set validates value for key and persists it in its stored type.
func (s *SettingsService) Set(key, value string) error {
	def, ok := settingsTable[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (known: %s)", domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	parsed, err := parseSetting(def.kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetCredentials persists provider credentials.
func (s *SettingsService) SetCredentials(clientID, clientSecret string) error {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: client id and secret are required", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyAmadeusClientID, clientID); err != nil {
		return fmt.Errorf("save client id: %w", err)
	}
	if err := s.configStore.Set(keyAmadeusClientSecret, clientSecret); err != nil {
		return fmt.Errorf("save client secret: %w", err)
	}
	return nil
}

// Keys lists the recognised setting keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingsTable))
	for k := range settingsTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// routes returns the configured routes, or nil when none are configured.
// The environment form is a JSON array of {"origin", "destination"} objects.
func (s *SettingsService) routes() ([]domain.Route, error) {
	if raw, ok := s.env(keySyncRoutes); ok {
		var routes []domain.Route
		if err := json.Unmarshal([]byte(raw), &routes); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, EnvRoutes, err)
		}
		return routes, nil
	}

	configured := s.configStore.GetStringSlice(keySyncRoutes)
	if len(configured) == 0 {
		return nil, nil
	}
	routes := make([]domain.Route, 0, len(configured))
	for _, text := range configured {
		r, err := domain.ParseRoute(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, keySyncRoutes, err)
		}
		routes = append(routes, r)
	}
	return routes, nil
}

// env returns the first non-empty environment override for key.
func (s *SettingsService) env(key string) (string, bool) {
	for _, name := range settingsTable[key].env {
		if raw, ok := s.lookupEnv(name); ok && strings.TrimSpace(raw) != "" {
			return raw, true
		}
	}
	return "", false
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if raw, ok := s.env(key); ok {
		return strings.TrimSpace(raw)
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) (int, error) {
	if raw, ok := s.env(key); ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, key, err)
		}
		return v, nil
	}
	raw, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal, nil
	}
	v, ok := wholeNumber(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrConfiguration, key, formatValue(raw))
	}
	return v, nil
}

// wholeNumber accepts TOML integers and floats with no fractional part.
func wholeNumber(raw any) (int, bool) {
	switch v := raw.(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// parseSetting converts value into the type stored for kind.
func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindCurrency:
		if len(value) != 3 {
			return nil, fmt.Errorf("currency %q must be a three-letter code", value)
		}
		return strings.ToUpper(value), nil
	case kindURL:
		if value == "" {
			return "", nil
		}
		u, err := url.Parse(value)
		if err != nil {
			return nil, err
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("url %q must be absolute http(s)", value)
		}
		return strings.TrimRight(value, "/"), nil
	case kindPositiveInt, kindNonNegativeInt:
		v, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		if v < 0 || (v == 0 && kind == kindPositiveInt) {
			return nil, fmt.Errorf("%d is out of range", v)
		}
		return v, nil
	case kindPositiveFloat:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, err
		}
		if v <= 0 {
			return nil, fmt.Errorf("%v must be positive", v)
		}
		return v, nil
	case kindBool:
		return strconv.ParseBool(value)
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("%s must be positive", value)
		}
		return d.String(), nil
	case kindRoutes:
		var routes []string
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			r, err := domain.ParseRoute(part)
			if err != nil {
				return nil, err
			}
			routes = append(routes, r.String())
		}
		if len(routes) == 0 {
			return nil, fmt.Errorf("at least one route is required")
		}
		return routes, nil
	default:
		return value, nil
	}
}

// formatValue renders a stored value for display.
func formatValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

// defaultText renders the built-in default of key.
func defaultText(key string) string {
	defaults := domain.DefaultSyncSettings()
	sched := domain.DefaultSchedulerConfig()
	task := sched.GetTaskConfig(domain.TaskIDOfferSync)

	switch key {
	case keySyncRoutes:
		parts := make([]string, 0, len(defaults.Routes))
		for _, r := range defaults.Routes {
			parts = append(parts, r.String())
		}
		return strings.Join(parts, ",")
	case keySyncDaysAhead:
		return strconv.Itoa(defaults.DaysAhead)
	case keySyncMaxPerDay:
		return strconv.Itoa(defaults.MaxPerDay)
	case keySyncMinGapMinutes:
		return strconv.Itoa(int(defaults.MinUpdateGap / time.Minute))
	case keySyncAdults:
		return strconv.Itoa(defaults.Adults)
	case keySyncCurrency:
		return defaults.Currency
	case keySyncFallbackRate:
		return strconv.FormatFloat(defaults.FallbackRate, 'f', -1, 64)
	case keySchedulerEnabled:
		return strconv.FormatBool(sched.Enabled)
	case keyOfferSyncEnabled:
		return strconv.FormatBool(task.Enabled)
	case keyOfferSyncInterval:
		return task.Interval.String()
	default:
		return ""
	}
}
