package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh stored offers from the provider",
	Long: `Fetches offers for every configured route and date and commits them in a
single transaction. If any request fails nothing is written and the last
successful sync time is left unchanged.

The cycle is skipped when the last successful sync is more recent than the
minimum update gap. Use --force to ignore the gap.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false, "ignore the minimum update gap")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	cmd.Println("Synchronising offers...")

	result, err := syncOrchestrator.RunSync(cmd.Context(), driving.RunOptions{Force: syncForce})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printSyncResult(cmd, result)
	return nil
}

func printSyncResult(cmd *cobra.Command, result domain.SyncResult) {
	switch r := result.(type) {
	case *domain.SyncRan:
		cmd.Printf("Sync %s complete: fetched %d offers (%d inserted, %d updated).\n",
			r.RunID, r.Fetched, r.Inserted, r.Updated)
	case *domain.SyncSkipped:
		cmd.Printf("Sync skipped: %s, %ds remaining.\n", r.Reason, r.RemainingSeconds())
	}
}
