package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// OfferProvider talks to one external offer-search service.
// Each provider (Amadeus, ...) implements this interface.
type OfferProvider interface {
	// Name returns the provider identifier.
	Name() string

	// Open starts a fetch session for one route. Location codes are resolved
	// and credentials checked before any network call; failures there wrap
	// domain.ErrConfiguration. The provider then authenticates once and the
	// resulting credential is reused by every FetchOffers call on the session.
	Open(ctx context.Context, route domain.Route) (OfferSession, error)
}

// OfferSession fetches offers for the route it was opened with.
type OfferSession interface {
	// FetchOffers returns normalised offers departing on day.
	FetchOffers(ctx context.Context, day time.Time, opts FetchOptions) ([]domain.FlightOffer, error)

	// Close releases resources.
	Close() error
}

// FetchOptions controls one offer search.
type FetchOptions struct {
	// Adults is the passenger count.
	Adults int

	// MaxResults caps the number of offers returned.
	MaxResults int

	// Currency is the target currency of normalised prices.
	Currency string

	// FallbackRate converts prices quoted in other currencies.
	FallbackRate float64
}
