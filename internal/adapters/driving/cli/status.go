package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

var statusHistory int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Long: `Shows the time of the last successful sync, when the next cycle may run,
and how many offers are stored.

Use --history to list recent scheduled cycles.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusHistory, "history", 0, "number of recent scheduled cycles to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()
	status, err := syncOrchestrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	cmd.Println("Sync Status")
	cmd.Println("===========")
	cmd.Printf("  Offers: %d\n", status.OfferCount)
	cmd.Printf("  Routes: %d\n", status.Routes)
	if status.LastSuccess.IsZero() {
		cmd.Println("  Last success: never")
	} else {
		cmd.Printf("  Last success: %s (%s)\n", formatTimestamp(status.LastSuccess), humanize.Time(status.LastSuccess))
	}
	if !status.NextAllowed.IsZero() {
		if status.NextAllowed.After(time.Now()) {
			cmd.Printf("  Next allowed: %s\n", formatTimestamp(status.NextAllowed))
		} else {
			cmd.Println("  Next allowed: now")
		}
	}
	if status.Running {
		cmd.Println("  Running: yes")
	}
	if !status.LastAttempt.IsZero() {
		cmd.Printf("  Last attempt: %s (%s)\n", formatTimestamp(status.LastAttempt), attemptOutcome(status.LastSkipped, status.LastError))
	}

	if statusHistory <= 0 {
		return nil
	}
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	history, err := scheduler.History(ctx, statusHistory)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	cmd.Println()
	cmd.Println("Recent Cycles")
	cmd.Println("=============")
	if len(history) == 0 {
		cmd.Println("  (none)")
		return nil
	}
	for i := range history {
		cmd.Printf("  %s  %s\n", formatTimestamp(history[i].StartedAt), describeTaskResult(&history[i]))
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}

func attemptOutcome(skipped bool, errMsg string) string {
	switch {
	case errMsg != "":
		return "failed: " + errMsg
	case skipped:
		return "skipped"
	default:
		return "succeeded"
	}
}

func describeTaskResult(r *domain.TaskResult) string {
	switch {
	case !r.Success:
		return "failed: " + r.Error
	case r.Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("%s: %d inserted, %d updated", r.RunID, r.Inserted, r.Updated)
	}
}
