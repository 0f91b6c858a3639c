// Package domain defines the core business entities for flightsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FlightOffer: A canonical, priced itinerary keyed by its identity key
//   - Route: An origin/destination city pair configured for sync
//   - SyncResult: The outcome of one sync cycle (ran or skipped)
//   - ScheduledTask: A recurring background task driven by the scheduler
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
