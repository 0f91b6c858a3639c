// Package mcp provides an MCP (Model Context Protocol) server adapter for flightsync.
// It lets AI assistants answer natural-language questions over the stored offers.
package mcp

import "errors"

// ErrMissingOfferService is returned when the offer service is not provided.
var ErrMissingOfferService = errors.New("mcp: offer service is required")
