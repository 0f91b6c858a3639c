package mcp

import (
	"context"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

// mockOfferService is a mock implementation of driving.OfferService.
type mockOfferService struct {
	offers     []domain.FlightOffer
	lastFilter domain.OfferFilter
	err        error
}

func (m *mockOfferService) List(_ context.Context, filter domain.OfferFilter) ([]domain.FlightOffer, error) {
	m.lastFilter = filter
	return m.offers, m.err
}

func (m *mockOfferService) Get(_ context.Context, identityKey string) (*domain.FlightOffer, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.offers {
		if m.offers[i].IdentityKey == identityKey {
			return &m.offers[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	status *driving.SyncStatus
	err    error
}

func (m *mockSyncOrchestrator) RunSync(_ context.Context, _ driving.RunOptions) (domain.SyncResult, error) {
	return nil, m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	return m.status, m.err
}

func (m *mockSyncOrchestrator) UpdateSettings(_ domain.SyncSettings) error {
	return m.err
}

func testOffers() []domain.FlightOffer {
	return []domain.FlightOffer{
		{
			IdentityKey: "a1",
			Airline:     "AI",
			Date:        "2026-10-20",
			FlightType:  domain.FlightTypeNonstop,
			Price:       5400,
			Origin:      "Delhi",
			Destination: "Mumbai",
		},
		{
			IdentityKey: "b2",
			Airline:     "6E",
			Date:        "2026-10-21",
			FlightType:  domain.FlightTypeConnecting,
			Price:       3900,
			Origin:      "Delhi",
			Destination: "Mumbai",
		},
	}
}

var (
	_ driving.OfferService     = (*mockOfferService)(nil)
	_ driving.SyncOrchestrator = (*mockSyncOrchestrator)(nil)
)
