package driving

import (
	"context"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// OfferService is the read path over stored offers.
type OfferService interface {
	// List returns offers matching the filter.
	List(ctx context.Context, filter domain.OfferFilter) ([]domain.FlightOffer, error)

	// Get returns a single offer by identity key.
	Get(ctx context.Context, identityKey string) (*domain.FlightOffer, error)
}
