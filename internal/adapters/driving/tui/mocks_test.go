package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

// mockOfferService implements driving.OfferService for testing.
type mockOfferService struct {
	mu         sync.Mutex
	offers     []domain.FlightOffer
	err        error
	lastFilter domain.OfferFilter
}

func (m *mockOfferService) List(_ context.Context, filter domain.OfferFilter) ([]domain.FlightOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	return m.offers, m.err
}

func (m *mockOfferService) Get(_ context.Context, identityKey string) (*domain.FlightOffer, error) {
	for i := range m.offers {
		if m.offers[i].IdentityKey == identityKey {
			return &m.offers[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	mu       sync.Mutex
	result   domain.SyncResult
	err      error
	status   *driving.SyncStatus
	lastOpts []driving.RunOptions
}

func (m *mockSyncOrchestrator) RunSync(_ context.Context, opts driving.RunOptions) (domain.SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOpts = append(m.lastOpts, opts)
	return m.result, m.err
}

func (m *mockSyncOrchestrator) Status(context.Context) (*driving.SyncStatus, error) {
	if m.status == nil {
		return &driving.SyncStatus{}, nil
	}
	return m.status, nil
}

func (m *mockSyncOrchestrator) UpdateSettings(domain.SyncSettings) error {
	return nil
}

func (m *mockSyncOrchestrator) runs() []driving.RunOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]driving.RunOptions(nil), m.lastOpts...)
}

func sampleOffers() []domain.FlightOffer {
	meal := true
	link := "https://example.com/offer/1"
	return []domain.FlightOffer{
		{
			IdentityKey:        "6f0c8a52-0d5e-5f6b-9d53-1f1d7e0a2b11",
			Airline:            "AI",
			Date:               "2026-10-20",
			Duration:           "2h 10m",
			FlightType:         domain.FlightTypeNonstop,
			Price:              5400,
			Origin:             "Delhi",
			Destination:        "Mumbai",
			OriginCountry:      "India",
			DestinationCountry: "India",
			Link:               &link,
			FreeMeal:           &meal,
		},
		{
			IdentityKey:        "0b7d3f5e-2a41-5c8e-8f07-6c3e9d1a4b22",
			Airline:            "6E",
			Date:               "2026-10-21",
			Duration:           "5h 45m",
			FlightType:         domain.FlightTypeConnecting,
			Price:              4100,
			Origin:             "Delhi",
			Destination:        "Mumbai",
			OriginCountry:      "India",
			DestinationCountry: "India",
		},
	}
}
