package tui

import "errors"

// ErrMissingOfferService is returned when the offer service is not provided.
var ErrMissingOfferService = errors.New("tui: offer service is required")

// ErrMissingSyncOrchestrator is returned when the sync orchestrator is not provided.
var ErrMissingSyncOrchestrator = errors.New("tui: sync orchestrator is required")
