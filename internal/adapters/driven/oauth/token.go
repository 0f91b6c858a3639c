// Package oauth provides OAuth token acquisition for external providers.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
)

// DefaultTimeout bounds a single token request.
const DefaultTimeout = 30 * time.Second

// ClientCredentials obtains access tokens with the OAuth 2.0 client
// credentials grant. Every GetToken call performs a fresh exchange; callers
// that need a token for several requests hold on to the result.
type ClientCredentials struct {
	config     clientcredentials.Config
	httpClient *http.Client
}

var _ driven.TokenProvider = (*ClientCredentials)(nil)

// NewClientCredentials creates a token provider for the given endpoint.
// If httpClient is nil, a client with DefaultTimeout is used.
func NewClientCredentials(tokenURL, clientID, clientSecret string, httpClient *http.Client) *ClientCredentials {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &ClientCredentials{
		config: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			// Credentials travel in the form body, not as basic auth.
			AuthStyle: oauth2.AuthStyleInParams,
		},
		httpClient: httpClient,
	}
}

// GetToken exchanges the client credentials for an access token.
func (c *ClientCredentials) GetToken(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.config.Token(ctx)
	if err != nil {
		return "", classifyTokenError(err)
	}
	return token.AccessToken, nil
}

// classifyTokenError maps a failed exchange onto domain errors.
func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: token request: %w", domain.ErrProvider, err)
	}

	status := 0
	if retrieveErr.Response != nil {
		status = retrieveErr.Response.StatusCode
	}

	switch {
	case status == http.StatusUnauthorized,
		retrieveErr.ErrorCode == "invalid_client",
		retrieveErr.ErrorCode == "unauthorized_client":
		return fmt.Errorf("%w: token rejected (%d %s)", domain.ErrAuthInvalid, status, retrieveErr.ErrorCode)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: token endpoint throttled", domain.ErrRateLimited)
	default:
		return fmt.Errorf("%w: token request failed with status %d: %w", domain.ErrProvider, status, err)
	}
}
