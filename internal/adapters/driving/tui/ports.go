// Package tui provides an interactive terminal user interface for browsing
// stored flight offers and triggering syncs.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Offers reads stored offers.
	Offers driving.OfferService

	// Sync refreshes offers and reports freshness.
	Sync driving.SyncOrchestrator
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Offers == nil {
		return ErrMissingOfferService
	}
	if p.Sync == nil {
		return ErrMissingSyncOrchestrator
	}
	return nil
}
