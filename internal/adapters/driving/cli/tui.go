package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/flightsync/internal/adapters/driving/tui"
	"github.com/custodia-labs/flightsync/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for browsing stored
flight offers. When the scheduler is enabled, periodic sync keeps running
in the background.

Controls:
  ↑/k, ↓/j - Navigate offers
  Enter    - Show offer details
  /        - Filter, e.g. "Delhi:Mumbai 2026-10-20"
  s, S     - Sync, force sync
  r        - Reload
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, err := tui.NewApp(&tui.Ports{
		Offers: offerService,
		Sync:   syncOrchestrator,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Start scheduler if enabled (TUI is long-running, needs background tasks)
	if scheduler != nil && settingsService != nil {
		if cfg := settingsService.SchedulerConfig(); cfg.Enabled {
			if err := scheduler.Reconfigure(ctx, cfg); err != nil {
				return fmt.Errorf("configure scheduler: %w", err)
			}
			go func() {
				if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("scheduler stopped: %v", err)
				}
			}()
			defer func() {
				if err := scheduler.Stop(); err != nil {
					logger.Warn("scheduler stop error: %v", err)
				}
			}()
		}
	}

	p := tea.NewProgram(app.WithContext(ctx), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
