package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

// Ensure OfferService implements the interface.
var _ driving.OfferService = (*OfferService)(nil)

const (
	// DefaultListLimit caps listings when the caller sets no limit.
	DefaultListLimit = 50

	// MaxListLimit is the largest accepted listing size.
	MaxListLimit = 1000
)

// OfferService provides read access to stored offers.
type OfferService struct {
	offerStore driven.OfferStore
}

// NewOfferService creates a new offer service.
func NewOfferService(offerStore driven.OfferStore) *OfferService {
	return &OfferService{offerStore: offerStore}
}

// List returns offers matching the filter, ordered by date then price.
func (s *OfferService) List(ctx context.Context, filter domain.OfferFilter) ([]domain.FlightOffer, error) {
	filter.Origin = strings.TrimSpace(filter.Origin)
	filter.Destination = strings.TrimSpace(filter.Destination)
	filter.Date = strings.TrimSpace(filter.Date)

	if filter.Date != "" {
		if _, err := time.Parse(time.DateOnly, filter.Date); err != nil {
			return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidInput, filter.Date)
		}
	}
	switch {
	case filter.Limit < 0:
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	case filter.Limit == 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}

	return s.offerStore.List(ctx, filter)
}

// Get returns a single offer by identity key.
func (s *OfferService) Get(ctx context.Context, identityKey string) (*domain.FlightOffer, error) {
	identityKey = strings.TrimSpace(identityKey)
	if identityKey == "" {
		return nil, fmt.Errorf("%w: identity key is required", domain.ErrInvalidInput)
	}
	return s.offerStore.Get(ctx, identityKey)
}
