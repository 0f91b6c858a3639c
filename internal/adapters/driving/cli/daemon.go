package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/logger"
)

var (
	daemonInterval time.Duration
	daemonListen   string
	daemonSnapshot string
	daemonMCP      bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run periodic sync in the foreground",
	Long: `Runs the scheduler, which invokes a sync cycle at a fixed interval. Each
cycle is throttled by the last successful sync, so a short interval only costs
a database read while the data is fresh.

With --snapshot, the offer database is seeded from a JSON snapshot when it
holds no offers. With --listen, an HTTP server exposes /metrics and /healthz,
plus /mcp when --mcp is set.

Configuration file changes are applied without a restart. The daemon stops
on SIGINT or SIGTERM after the running cycle finishes.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	flags := daemonCmd.Flags()
	flags.DurationVar(&daemonInterval, "interval", 0, "check interval (default from settings)")
	flags.StringVar(&daemonListen, "listen", "", "HTTP listen address, e.g. :9090")
	flags.StringVar(&daemonSnapshot, "snapshot", "", "JSON snapshot to seed an empty database")
	flags.BoolVar(&daemonMCP, "mcp", false, "serve the MCP endpoint on the listen address")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if scheduler == nil || settingsService == nil {
		return errors.New("scheduler not configured")
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancelCause(sigCtx)
	defer cancel(nil)

	if daemonSnapshot != "" {
		if err := seedOnStart(cmd); err != nil {
			return err
		}
	}

	cfg := daemonSchedulerConfig()
	if !cfg.Enabled {
		cmd.Println("Scheduler disabled. Set scheduler.enabled or ENABLE_ONLINE_FLIGHT_SYNC=true to run periodic sync.")
		return nil
	}
	if err := scheduler.Reconfigure(ctx, cfg); err != nil {
		return fmt.Errorf("configure scheduler: %w", err)
	}

	if daemonListen != "" {
		handler, err := daemonHandler()
		if err != nil {
			return err
		}
		ln, err := net.Listen("tcp", daemonListen)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", daemonListen, err)
		}
		cmd.Printf("Serving HTTP on %s\n", ln.Addr())
		go func() {
			if err := serveHTTP(ctx, ln, handler); err != nil {
				cancel(fmt.Errorf("http server: %w", err))
			}
		}()
	}

	if watchConfig != nil {
		go func() {
			err := watchConfig(ctx, func() { reloadSettings(ctx) })
			if err != nil && ctx.Err() == nil {
				logger.Warn("config watch stopped: %v", err)
			}
		}()
	}

	interval := cfg.GetTaskConfig(domain.TaskIDOfferSync).Interval
	cmd.Printf("Daemon started, checking every %s.\n", interval)

	startErr := scheduler.Start(ctx)
	stopErr := scheduler.Stop()

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	if errors.Is(startErr, context.Canceled) {
		startErr = nil
	}

	cmd.Println("Daemon stopped.")
	return errors.Join(startErr, stopErr)
}

func seedOnStart(cmd *cobra.Command) error {
	if seedService == nil {
		return errors.New("seed service not configured")
	}
	result, err := seedFromFile(cmd, daemonSnapshot, false)
	if err != nil {
		return err
	}
	if result.Seeded {
		cmd.Printf("Seeded %d offers from %s.\n", result.Stats.Total(), daemonSnapshot)
	}
	return nil
}

// daemonSchedulerConfig returns the configured scheduler settings with the
// --interval override applied.
func daemonSchedulerConfig() domain.SchedulerConfig {
	cfg := settingsService.SchedulerConfig()
	if daemonInterval <= 0 {
		return cfg
	}

	cfg.TaskConfigs = maps.Clone(cfg.TaskConfigs)
	if cfg.TaskConfigs == nil {
		cfg.TaskConfigs = make(map[string]domain.TaskConfig)
	}
	task := cfg.GetTaskConfig(domain.TaskIDOfferSync)
	task.Enabled = true
	task.Interval = daemonInterval
	cfg.TaskConfigs[domain.TaskIDOfferSync] = task
	return cfg
}

// reloadSettings applies a changed configuration file. Invalid sync
// settings are reported and the previous ones stay in effect.
func reloadSettings(ctx context.Context) {
	if syncOrchestrator != nil {
		settings, err := settingsService.SyncSettings()
		if err != nil {
			logger.Warn("Ignoring sync settings from reloaded config: %v", err)
		} else if err := syncOrchestrator.UpdateSettings(settings); err != nil {
			logger.Warn("Ignoring sync settings from reloaded config: %v", err)
		} else {
			logger.Info("Sync settings reloaded: %d routes, %d days ahead", len(settings.Routes), settings.DaysAhead)
		}
	}

	if err := scheduler.Reconfigure(ctx, daemonSchedulerConfig()); err != nil {
		logger.Warn("Failed to reconfigure scheduler: %v", err)
	}
}

func daemonHandler() (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	if daemonMCP {
		server, err := newMCPServer()
		if err != nil {
			return nil, err
		}
		mux.Handle("/mcp", server.Handler())
	}
	return mux, nil
}

// serveHTTP serves handler on ln until ctx is cancelled.
func serveHTTP(ctx context.Context, ln net.Listener, handler http.Handler) error {
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
