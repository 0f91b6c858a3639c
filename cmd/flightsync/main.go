// Command flightsync keeps a local SQLite store of flight offers in sync
// with the Amadeus flight offers API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/flightsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/flightsync/internal/adapters/driven/metrics"
	"github.com/custodia-labs/flightsync/internal/adapters/driven/oauth"
	"github.com/custodia-labs/flightsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/flightsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/flightsync/internal/connectors/amadeus"
	"github.com/custodia-labs/flightsync/internal/core/services"
	"github.com/custodia-labs/flightsync/internal/logger"
)

// version is set at build time through -ldflags.
var version = "dev"

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetInitializer(initialise)

	err := cli.Execute(context.Background())
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// initialise wires the adapters into the core services.
func initialise(_ context.Context, opts cli.GlobalOptions) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = settingsService.DatabasePath()
	}
	store, err := sqlite.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open offer database: %w", err)
	}

	// Invalid sync settings must not block the settings command that fixes
	// them; a sync run reports the configuration error instead.
	syncSettings, err := settingsService.SyncSettings()
	if err != nil {
		logger.Warn("Sync settings are invalid: %v", err)
	}

	providerCfg := amadeus.NewConfig(settingsService.ProviderSettings())
	tokens := oauth.NewClientCredentials(providerCfg.TokenURL(), providerCfg.ClientID, providerCfg.ClientSecret, nil)
	provider := amadeus.New(providerCfg, tokens)

	recorder := metrics.New(metrics.WithRuntimeMetrics())
	syncOrchestrator := services.NewSyncOrchestrator(
		store.OfferStore(),
		store.MetadataStore(),
		provider,
		syncSettings,
		services.WithMetrics(recorder),
	)
	scheduler := services.NewScheduler(settingsService.SchedulerConfig(), store.SchedulerStore(), syncOrchestrator)

	logger.Debug("Offer database: %s", store.Path())

	return &cli.Services{
		SyncOrchestrator: syncOrchestrator,
		SettingsService:  settingsService,
		OfferService:     services.NewOfferService(store.OfferStore()),
		SeedService:      services.NewSeedService(store.OfferStore()),
		Scheduler:        scheduler,
		MetricsHandler:   recorder.Handler(),
		WatchConfig:      configStore.Watch,
		Close:            store.Close,
	}, nil
}
