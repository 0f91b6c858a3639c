package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// OfferQuery is one flight offers search.
type OfferQuery struct {
	OriginCode      string
	DestinationCode string
	DepartureDate   time.Time
	Adults          int
	Max             int
	Currency        string
}

// values encodes the query parameters of the search endpoint.
func (q OfferQuery) values() url.Values {
	v := url.Values{}
	v.Set("originLocationCode", q.OriginCode)
	v.Set("destinationLocationCode", q.DestinationCode)
	v.Set("departureDate", q.DepartureDate.Format(time.DateOnly))
	v.Set("adults", strconv.Itoa(q.Adults))
	v.Set("max", strconv.Itoa(q.Max))
	v.Set("currencyCode", q.Currency)
	v.Set("nonStop", "false")
	return v
}

// Client issues authenticated requests against the Amadeus API.
type Client struct {
	http        *http.Client
	offersURL   string
	rateLimiter *RateLimiter
}

// NewClient creates a client that sends token as a bearer credential.
// If base is non-nil its transport carries the requests.
func NewClient(ctx context.Context, cfg Config, token string, limiter *RateLimiter, base *http.Client) *Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: "Bearer"},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	if limiter == nil {
		limiter = NewRateLimiter(ProactiveRate)
	}
	return &Client{
		http:        tc,
		offersURL:   cfg.OffersURL(),
		rateLimiter: limiter,
	}
}

// SearchOffers runs one flight offers search.
func (c *Client) SearchOffers(ctx context.Context, q OfferQuery) (*OffersResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrProvider, err)
	}

	endpoint := c.offersURL + "?" + q.values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrProvider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: search offers: %w", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	var out OffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode offers response: %w", domain.ErrProvider, err)
	}
	return &out, nil
}

// newAPIError builds an APIError from a non-200 response.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.Redacted(),
	}

	var body struct {
		Errors []struct {
			Code   int    `json:"code"`
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && json.Unmarshal(data, &body) == nil && len(body.Errors) > 0 {
		apiErr.Code = body.Errors[0].Code
		apiErr.Title = body.Errors[0].Title
		apiErr.Detail = body.Errors[0].Detail
	}
	return apiErr
}
