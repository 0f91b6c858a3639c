package mcp

import (
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Offers reads stored offers.
	Offers driving.OfferService

	// Sync reports dataset freshness. Optional.
	Sync driving.SyncOrchestrator
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Offers == nil {
		return ErrMissingOfferService
	}
	return nil
}
