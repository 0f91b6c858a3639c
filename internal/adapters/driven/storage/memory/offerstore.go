package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
)

// Ensure OfferStore implements the interface.
var _ driven.OfferStore = (*OfferStore)(nil)

// OfferStore is an in-memory implementation of driven.OfferStore.
// A batch is validated in full before any record is applied.
type OfferStore struct {
	mu     sync.RWMutex
	offers map[string]domain.FlightOffer
}

// NewOfferStore creates a new in-memory offer store.
func NewOfferStore() *OfferStore {
	return &OfferStore{
		offers: make(map[string]domain.FlightOffer),
	}
}

// Upsert inserts or fully replaces each offer by identity key.
func (s *OfferStore) Upsert(_ context.Context, offers []domain.FlightOffer) (domain.UpsertStats, error) {
	for i := range offers {
		if err := offers[i].Validate(); err != nil {
			return domain.UpsertStats{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stats domain.UpsertStats
	for _, offer := range offers {
		if _, ok := s.offers[offer.IdentityKey]; ok {
			stats.Updated++
		} else {
			stats.Inserted++
		}
		s.offers[offer.IdentityKey] = offer
	}
	return stats, nil
}

// Count returns the number of stored offers.
func (s *OfferStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.offers), nil
}

// Get retrieves an offer by identity key.
func (s *OfferStore) Get(_ context.Context, identityKey string) (*domain.FlightOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	offer, ok := s.offers[identityKey]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &offer, nil
}

// List returns offers matching the filter, ordered by date then price.
func (s *OfferStore) List(_ context.Context, filter domain.OfferFilter) ([]domain.FlightOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.FlightOffer, 0, len(s.offers))
	for _, offer := range s.offers {
		if filter.Origin != "" && !strings.EqualFold(offer.Origin, filter.Origin) {
			continue
		}
		if filter.Destination != "" && !strings.EqualFold(offer.Destination, filter.Destination) {
			continue
		}
		if filter.Date != "" && offer.Date != filter.Date {
			continue
		}
		result = append(result, offer)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		if result[i].Price != result[j].Price {
			return result[i].Price < result[j].Price
		}
		return result[i].IdentityKey < result[j].IdentityKey
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}
