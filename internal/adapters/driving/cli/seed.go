package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

var seedAlways bool

var seedCmd = &cobra.Command{
	Use:   "seed <snapshot.json>",
	Short: "Load offers from a JSON snapshot",
	Long: `Upserts the offers in a JSON snapshot file into the offer database.

The snapshot is only loaded when the database holds no offers, so the command
is safe to run on every start. Use --always to load it regardless.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedAlways, "always", false, "load the snapshot even when offers are stored")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedService == nil {
		return errors.New("seed service not configured")
	}

	result, err := seedFromFile(cmd, args[0], seedAlways)
	if err != nil {
		return err
	}

	if !result.Seeded {
		cmd.Println("Offers already stored, snapshot not loaded. Use --always to load it anyway.")
		return nil
	}
	cmd.Printf("Seeded %d offers (%d inserted, %d updated).\n",
		result.Stats.Total(), result.Stats.Inserted, result.Stats.Updated)
	return nil
}

func seedFromFile(cmd *cobra.Command, path string, always bool) (*driving.SeedResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	result, err := seedService.Seed(cmd.Context(), f, driving.SeedOptions{Always: always})
	if err != nil {
		return nil, fmt.Errorf("seed failed: %w", err)
	}
	return result, nil
}
