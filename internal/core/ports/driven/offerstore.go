package driven

import (
	"context"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// OfferStore persists flight offers keyed by identity key.
// It assumes a single writer and performs no cross-process locking.
type OfferStore interface {
	// Upsert applies the batch in one transaction. Existing rows are fully
	// overwritten, nil fields included; absent rows are inserted. On any
	// failure nothing from the batch is persisted.
	Upsert(ctx context.Context, offers []domain.FlightOffer) (domain.UpsertStats, error)

	// Count returns the number of stored offers.
	Count(ctx context.Context) (int, error)

	// Get retrieves an offer by identity key.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, identityKey string) (*domain.FlightOffer, error)

	// List returns offers matching the filter, ordered by date then price.
	List(ctx context.Context, filter domain.OfferFilter) ([]domain.FlightOffer, error)
}
