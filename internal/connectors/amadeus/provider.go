package amadeus

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
)

// Provider implements driven.OfferProvider for Amadeus.
type Provider struct {
	cfg         Config
	tokens      driven.TokenProvider
	rateLimiter *RateLimiter
	httpClient  *http.Client
}

var _ driven.OfferProvider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient sets the base client used for API requests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithRateLimiter replaces the default limiter.
func WithRateLimiter(l *RateLimiter) Option {
	return func(p *Provider) {
		if l != nil {
			p.rateLimiter = l
		}
	}
}

// New creates a provider. tokens is asked for a fresh access token each
// time a session is opened.
func New(cfg Config, tokens driven.TokenProvider, opts ...Option) *Provider {
	p := &Provider{
		cfg:         cfg,
		tokens:      tokens,
		rateLimiter: NewRateLimiter(ProactiveRate),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// Open validates the route and credentials, authenticates once and returns
// a session for fetching the route day by day.
func (p *Provider) Open(ctx context.Context, route domain.Route) (driven.OfferSession, error) {
	if !p.cfg.HasCredentials() || p.tokens == nil {
		return nil, fmt.Errorf("%w: amadeus client ID and secret must be set", domain.ErrConfiguration)
	}

	originCode, err := ResolveLocationCode(route.Origin)
	if err != nil {
		return nil, err
	}
	destinationCode, err := ResolveLocationCode(route.Destination)
	if err != nil {
		return nil, err
	}

	token, err := p.tokens.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return &session{
		client:          NewClient(ctx, p.cfg, token, p.rateLimiter, p.httpClient),
		route:           route,
		originCode:      originCode,
		destinationCode: destinationCode,
	}, nil
}

// session fetches offers for one route with one access token.
type session struct {
	client          *Client
	route           domain.Route
	originCode      string
	destinationCode string
	closed          atomic.Bool
}

// FetchOffers fetches and normalises the offers departing on day.
func (s *session) FetchOffers(ctx context.Context, day time.Time, opts driven.FetchOptions) ([]domain.FlightOffer, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	resp, err := s.client.SearchOffers(ctx, OfferQuery{
		OriginCode:      s.originCode,
		DestinationCode: s.destinationCode,
		DepartureDate:   day,
		Adults:          opts.Adults,
		Max:             opts.MaxResults,
		Currency:        opts.Currency,
	})
	if err != nil {
		return nil, err
	}

	req := normaliseRequest{
		route:           s.route,
		originCode:      s.originCode,
		destinationCode: s.destinationCode,
		currency:        opts.Currency,
		fallbackRate:    opts.FallbackRate,
	}

	offers := make([]domain.FlightOffer, 0, len(resp.Data))
	for i := range resp.Data {
		offer, err := normaliseOffer(&resp.Data[i], req)
		if err != nil {
			return nil, fmt.Errorf("%w: offer %d: %w", domain.ErrProvider, i, err)
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// Close releases the session. Further fetches fail.
func (s *session) Close() error {
	s.closed.Store(true)
	return nil
}
