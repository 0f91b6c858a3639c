// Package cli provides the flightsync command line interface.
package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
	"github.com/custodia-labs/flightsync/internal/logger"
)

// version is set at build time through -ldflags.
var version = "dev"

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	Verbose   bool
	LogJSON   bool
	DBPath    string
	ConfigDir string
}

// Services holds the core services and runtime hooks commands depend on.
type Services struct {
	SyncOrchestrator driving.SyncOrchestrator
	SettingsService  driving.SettingsService
	OfferService     driving.OfferService
	SeedService      driving.SeedService
	Scheduler        driving.Scheduler

	// MetricsHandler serves the metrics registry; nil disables the endpoint.
	MetricsHandler http.Handler

	// WatchConfig blocks until ctx is done and calls onChange after the
	// configuration file has been reloaded.
	WatchConfig func(ctx context.Context, onChange func()) error

	// Close releases storage and other resources.
	Close func() error
}

// Initializer builds the services once persistent flags are parsed.
type Initializer func(ctx context.Context, opts GlobalOptions) (*Services, error)

var (
	globalOpts    GlobalOptions
	initializer   Initializer
	closeServices func() error

	syncOrchestrator driving.SyncOrchestrator
	settingsService  driving.SettingsService
	offerService     driving.OfferService
	seedService      driving.SeedService
	scheduler        driving.Scheduler
	metricsHandler   http.Handler
	watchConfig      func(ctx context.Context, onChange func()) error
)

// annotationNoServices marks commands that run without core services.
const annotationNoServices = "flightsync/no-services"

var rootCmd = &cobra.Command{
	Use:   "flightsync",
	Short: "Keep a local store of flight offers in sync with the provider",
	Long: `flightsync fetches flight offers for configured routes and dates,
normalises them into a canonical record and keeps the current state of each
offer in a local SQLite database.

Sync cycles are all-or-nothing and throttled by the timestamp of the last
successful cycle, so the provider is queried at most once per update gap.`,
	SilenceUsage:      true,
	PersistentPreRunE: initialise,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&globalOpts.LogJSON, "log-json", false, "write logs as JSON")
	flags.StringVar(&globalOpts.DBPath, "db", "", "offer database path (overrides settings)")
	flags.StringVar(&globalOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.flightsync)")
}

// SetInitializer registers the function that builds services before a
// command runs.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// SetServices wires the services used by commands.
func SetServices(svc *Services) {
	if svc == nil {
		svc = &Services{}
	}
	syncOrchestrator = svc.SyncOrchestrator
	settingsService = svc.SettingsService
	offerService = svc.OfferService
	seedService = svc.SeedService
	scheduler = svc.Scheduler
	metricsHandler = svc.MetricsHandler
	watchConfig = svc.WatchConfig
	closeServices = svc.Close
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		closeErr := closeServices()
		closeServices = nil
		err = errors.Join(err, closeErr)
	}
	return err
}

func initialise(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)
	logger.SetJSON(globalOpts.LogJSON)

	if cmd.Annotations[annotationNoServices] == "true" || initializer == nil {
		return nil
	}

	svc, err := initializer(cmd.Context(), globalOpts)
	if err != nil {
		return err
	}
	SetServices(svc)
	return nil
}
