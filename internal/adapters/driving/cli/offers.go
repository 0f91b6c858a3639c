package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

var (
	offersOrigin      string
	offersDestination string
	offersDate        string
	offersLimit       int
	offersJSON        bool
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "List stored offers",
	Long: `Lists stored offers ordered by date and price.

Filter by route with --origin and --destination (city names as stored)
and by departure date with --date (YYYY-MM-DD).`,
	Args: cobra.NoArgs,
	RunE: runOffersList,
}

var offersShowCmd = &cobra.Command{
	Use:   "show <uuid>",
	Short: "Show a single offer",
	Args:  cobra.ExactArgs(1),
	RunE:  runOffersShow,
}

func init() {
	flags := offersCmd.Flags()
	flags.StringVar(&offersOrigin, "origin", "", "origin city")
	flags.StringVar(&offersDestination, "destination", "", "destination city")
	flags.StringVar(&offersDate, "date", "", "departure date (YYYY-MM-DD)")
	flags.IntVar(&offersLimit, "limit", 0, "maximum number of offers (default 50)")
	offersCmd.PersistentFlags().BoolVar(&offersJSON, "json", false, "print JSON")

	offersCmd.AddCommand(offersShowCmd)
	rootCmd.AddCommand(offersCmd)
}

func runOffersList(cmd *cobra.Command, _ []string) error {
	if offerService == nil {
		return errors.New("offer service not configured")
	}

	offers, err := offerService.List(cmd.Context(), domain.OfferFilter{
		Origin:      offersOrigin,
		Destination: offersDestination,
		Date:        offersDate,
		Limit:       offersLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list offers: %w", err)
	}

	if offersJSON {
		return writeJSON(cmd, offers)
	}
	if len(offers) == 0 {
		cmd.Println("No offers found.")
		return nil
	}

	rows := make([][]string, 0, len(offers))
	for i := range offers {
		o := &offers[i]
		rows = append(rows, []string{
			o.Date,
			o.Origin + " → " + o.Destination,
			o.Airline,
			string(o.FlightType),
			o.Duration,
			strconv.Itoa(o.Price),
			o.IdentityKey,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("DATE", "ROUTE", "AIRLINE", "TYPE", "DURATION", "PRICE", "UUID").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	cmd.Println(t.Render())
	cmd.Printf("%d offers\n", len(offers))
	return nil
}

func runOffersShow(cmd *cobra.Command, args []string) error {
	if offerService == nil {
		return errors.New("offer service not configured")
	}

	offer, err := offerService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get offer: %w", err)
	}

	if offersJSON {
		return writeJSON(cmd, offer)
	}

	cmd.Printf("UUID:        %s\n", offer.IdentityKey)
	cmd.Printf("Route:       %s (%s) → %s (%s)\n",
		offer.Origin, offer.OriginCountry, offer.Destination, offer.DestinationCountry)
	cmd.Printf("Date:        %s\n", offer.Date)
	cmd.Printf("Airline:     %s\n", offer.Airline)
	cmd.Printf("Type:        %s\n", offer.FlightType)
	cmd.Printf("Duration:    %s\n", offer.Duration)
	cmd.Printf("Price:       %d\n", offer.Price)
	if offer.Link != nil {
		cmd.Printf("Link:        %s\n", *offer.Link)
	}
	if offer.RainProbability != nil {
		cmd.Printf("Rain chance: %.0f%%\n", *offer.RainProbability*100)
	}
	if offer.FreeMeal != nil {
		cmd.Printf("Free meal:   %t\n", *offer.FreeMeal)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
