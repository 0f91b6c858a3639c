package amadeus

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// ErrSessionClosed is returned when fetching through a closed session.
var ErrSessionClosed = errors.New("amadeus: session closed")

// RateLimitError represents a 429 response.
type RateLimitError struct {
	// RetryAt is when the API accepts requests again.
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("amadeus: rate limit exceeded, retry at %s", e.RetryAt.Format(time.RFC3339))
}

// Unwrap lets callers match domain.ErrRateLimited and domain.ErrProvider.
func (e *RateLimitError) Unwrap() []error {
	return []error{domain.ErrRateLimited, domain.ErrProvider}
}

// APIError represents an Amadeus API error response.
type APIError struct {
	StatusCode int
	Code       int
	Title      string
	Detail     string
	URL        string
}

func (e *APIError) Error() string {
	msg := e.Title
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("amadeus: API error %d: %s (URL: %s)", e.StatusCode, msg, e.URL)
}

// Unwrap maps the status onto domain errors. Authentication failures also
// match domain.ErrAuthInvalid.
func (e *APIError) Unwrap() []error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return []error{domain.ErrProvider, domain.ErrAuthInvalid}
	}
	return []error{domain.ErrProvider}
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}
