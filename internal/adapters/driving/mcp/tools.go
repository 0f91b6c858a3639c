package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// ListOffersInput is the input schema for the list_offers tool.
type ListOffersInput struct {
	Origin      string `json:"origin,omitempty" jsonschema:"origin city name, e.g. Delhi"`
	Destination string `json:"destination,omitempty" jsonschema:"destination city name, e.g. Mumbai"`
	Date        string `json:"date,omitempty" jsonschema:"departure date as YYYY-MM-DD"`
	Limit       int    `json:"limit,omitempty" jsonschema:"maximum number of offers to return (default 20)"`
}

// ListOffersOutput is the output schema for the list_offers tool.
type ListOffersOutput struct {
	Offers []domain.FlightOffer `json:"offers"`
	Count  int                  `json:"count"`
}

// GetOfferInput is the input schema for the get_offer tool.
type GetOfferInput struct {
	UUID string `json:"uuid" jsonschema:"the offer identity key"`
}

// GetOfferOutput is the output schema for the get_offer tool.
type GetOfferOutput struct {
	Offer domain.FlightOffer `json:"offer"`
}

// SyncStatusInput is the empty input of the sync_status tool.
type SyncStatusInput struct{}

// SyncStatusOutput describes how fresh the stored offers are.
type SyncStatusOutput struct {
	OfferCount  int    `json:"offer_count"`
	Routes      int    `json:"routes"`
	LastSuccess string `json:"last_success,omitempty"`
	NextAllowed string `json:"next_allowed,omitempty"`
	Running     bool   `json:"running"`
}

// defaultToolLimit keeps tool responses small enough for a model context.
const defaultToolLimit = 20

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_offers",
		Description: "List stored flight offers, cheapest first per date, optionally filtered by route and date",
	}, s.handleListOffers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_offer",
		Description: "Get a single flight offer by its uuid",
	}, s.handleGetOffer)

	if s.ports.Sync != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "sync_status",
			Description: "Report when the offers were last refreshed and how many are stored",
		}, s.handleSyncStatus)
	}
}

// handleListOffers handles the list_offers tool invocation.
func (s *Server) handleListOffers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListOffersInput,
) (*mcp.CallToolResult, ListOffersOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultToolLimit
	}

	offers, err := s.ports.Offers.List(ctx, domain.OfferFilter{
		Origin:      input.Origin,
		Destination: input.Destination,
		Date:        input.Date,
		Limit:       limit,
	})
	if err != nil {
		return nil, ListOffersOutput{}, err
	}
	if offers == nil {
		offers = []domain.FlightOffer{}
	}

	return nil, ListOffersOutput{Offers: offers, Count: len(offers)}, nil
}

// handleGetOffer handles the get_offer tool invocation.
func (s *Server) handleGetOffer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetOfferInput,
) (*mcp.CallToolResult, GetOfferOutput, error) {
	offer, err := s.ports.Offers.Get(ctx, input.UUID)
	if err != nil {
		return nil, GetOfferOutput{}, err
	}
	return nil, GetOfferOutput{Offer: *offer}, nil
}

// handleSyncStatus handles the sync_status tool invocation.
func (s *Server) handleSyncStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SyncStatusInput,
) (*mcp.CallToolResult, SyncStatusOutput, error) {
	status, err := s.ports.Sync.Status(ctx)
	if err != nil {
		return nil, SyncStatusOutput{}, err
	}

	output := SyncStatusOutput{
		OfferCount: status.OfferCount,
		Routes:     status.Routes,
		Running:    status.Running,
	}
	if !status.LastSuccess.IsZero() {
		output.LastSuccess = status.LastSuccess.UTC().Format(time.RFC3339)
		output.NextAllowed = status.NextAllowed.UTC().Format(time.RFC3339)
	}
	return nil, output, nil
}
