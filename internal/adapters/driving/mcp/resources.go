package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for flightsync resources.
	uriScheme = "flightsync://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "offers",
		Name:        "offers",
		Description: "Stored flight offers ordered by date and price",
		MIMEType:    "application/json",
	}, s.handleOffersResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "offers/{uuid}",
		Name:        "offer",
		Description: "A single stored flight offer",
		MIMEType:    "application/json",
	}, s.handleOfferResource)
}

// handleOffersResource returns the first page of stored offers.
func (s *Server) handleOffersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	offers, err := s.ports.Offers.List(ctx, domain.OfferFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	if offers == nil {
		offers = []domain.FlightOffer{}
	}
	return jsonResource(req.Params.URI, offers)
}

// handleOfferResource returns one offer addressed by its identity key.
func (s *Server) handleOfferResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract uuid from URI: flightsync://offers/{uuid}
	key := extractOfferKey(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	offer, err := s.ports.Offers.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting offer: %w", err)
	}
	return jsonResource(req.Params.URI, offer)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractOfferKey extracts the identity key from a URI like flightsync://offers/{uuid}.
func extractOfferKey(uri string) string {
	const prefix = uriScheme + "offers/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	key := strings.TrimPrefix(uri, prefix)
	if strings.Contains(key, "/") {
		return ""
	}
	return key
}
