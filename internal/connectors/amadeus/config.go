package amadeus

import (
	"strings"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

const (
	// ProviderName identifies this provider in logs and metrics.
	ProviderName = "amadeus"

	// DefaultBaseURL is the Amadeus test environment.
	DefaultBaseURL = "https://test.api.amadeus.com"

	// TokenPath is the OAuth2 token endpoint.
	TokenPath = "/v1/security/oauth2/token"

	// OffersPath is the flight offers search endpoint.
	OffersPath = "/v2/shopping/flight-offers"
)

// Config holds the endpoint and credentials for the Amadeus API.
type Config struct {
	ClientID     string
	ClientSecret string

	// BaseURL is the API root without a trailing slash.
	BaseURL string
}

// NewConfig builds a Config from provider settings, applying defaults.
func NewConfig(settings domain.ProviderSettings) Config {
	baseURL := strings.TrimRight(strings.TrimSpace(settings.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Config{
		ClientID:     strings.TrimSpace(settings.ClientID),
		ClientSecret: strings.TrimSpace(settings.ClientSecret),
		BaseURL:      baseURL,
	}
}

// HasCredentials reports whether both client ID and secret are set.
func (c Config) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// TokenURL returns the full token endpoint URL.
func (c Config) TokenURL() string {
	return c.BaseURL + TokenPath
}

// OffersURL returns the full flight offers endpoint URL.
func (c Config) OffersURL() string {
	return c.BaseURL + OffersPath
}
