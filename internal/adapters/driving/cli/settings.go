package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsClientID string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change sync, provider and scheduler settings.

Settings are stored in config.toml in the configuration directory.
Environment variables such as FLIGHT_SYNC_ROUTES and AMADEUS_CLIENT_ID take
precedence over stored values.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Validates and stores a single setting.

Routes are given as a comma separated list of origin:destination pairs, for
example "Delhi:Mumbai,Mumbai:Delhi". Durations use Go syntax such as "5m".`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsCredentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Store provider credentials",
	Long: `Prompts for the Amadeus client ID and secret and stores them.
The secret is read without echo when stdin is a terminal.`,
	Args: cobra.NoArgs,
	RunE: runSettingsCredentials,
}

func init() {
	settingsCredentialsCmd.Flags().StringVar(&settingsClientID, "client-id", "", "client ID (prompted when empty)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsCredentialsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, key := range settingsService.Keys() {
		if prefix, _, ok := strings.Cut(key, "."); ok && prefix != section {
			section = prefix
			cmd.Println()
			cmd.Printf("[%s]\n", section)
		}

		value, set := settingsService.Get(key)
		switch {
		case value == "":
			value = "(not set)"
		case isSecretSetting(key):
			value = maskAPIKey(value)
		}
		if !set {
			value += " (default)"
		}
		cmd.Printf("  %s: %s\n", key, value)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown, _ := settingsService.Get(key)
	if isSecretSetting(key) {
		shown = maskAPIKey(shown)
	}
	cmd.Printf("%s set to %s\n", key, shown)
	return nil
}

func runSettingsCredentials(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	clientID := strings.TrimSpace(settingsClientID)
	if clientID == "" {
		cmd.Print("Client ID: ")
		clientID = readLine(reader)
	}

	cmd.Print("Client secret: ")
	secret := readPassword(cmd.InOrStdin(), reader)
	cmd.Println()

	if err := settingsService.SetCredentials(clientID, secret); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	cmd.Println("Credentials saved.")
	return nil
}

func isSecretSetting(key string) bool {
	return strings.HasSuffix(key, "secret")
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func readPassword(in io.Reader, reader *bufio.Reader) string {
	// Try to read password without echo
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
