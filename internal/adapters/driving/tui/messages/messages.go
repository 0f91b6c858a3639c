// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
)

// OffersLoaded carries a page of stored offers back to the model.
type OffersLoaded struct {
	Offers []domain.FlightOffer
	Err    error
}

// StatusLoaded carries the current sync status.
type StatusLoaded struct {
	Status *driving.SyncStatus
	Err    error
}

// SyncFinished is sent when a sync started from the TUI completes.
type SyncFinished struct {
	Result domain.SyncResult
	Err    error
}
