package amadeus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
)

// fakeTokens counts token requests.
type fakeTokens struct {
	calls atomic.Int32
	token string
	err   error
}

func (f *fakeTokens) GetToken(context.Context) (string, error) {
	f.calls.Add(1)
	return f.token, f.err
}

const offersBody = `{
  "meta": {"count": 2},
  "data": [
    {
      "type": "flight-offer",
      "itineraries": [{
        "duration": "PT4H15M",
        "segments": [{"carrierCode": "VN", "departure": {"iataCode": "DEL", "at": "2026-11-02T10:15:00"}}]
      }],
      "price": {"currency": "INR", "total": "12345.00"}
    },
    {
      "type": "flight-offer",
      "itineraries": [{
        "duration": "PT11H",
        "segments": [
          {"carrierCode": "AI", "departure": {"iataCode": "DEL", "at": "2026-11-02T06:00:00"}},
          {"carrierCode": "VN", "departure": {"iataCode": "SGN", "at": "2026-11-02T13:00:00"}}
        ]
      }],
      "price": {"currency": "EUR", "total": "150.00"}
    }
  ]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*Provider, *fakeTokens) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := &fakeTokens{token: "tok-123"}
	cfg := NewConfig(domain.ProviderSettings{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL + "/"})
	return New(cfg, tokens, WithHTTPClient(server.Client()), WithRateLimiter(NewRateLimiter(1000))), tokens
}

func testFetchOptions() driven.FetchOptions {
	return driven.FetchOptions{Adults: 1, MaxResults: 8, Currency: "INR", FallbackRate: 90}
}

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, "amadeus", New(Config{}, nil).Name())
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig(domain.ProviderSettings{ClientID: " id ", ClientSecret: "secret"})
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "https://test.api.amadeus.com/v1/security/oauth2/token", cfg.TokenURL())
	assert.Equal(t, "https://test.api.amadeus.com/v2/shopping/flight-offers", cfg.OffersURL())
	assert.True(t, cfg.HasCredentials())
}

func TestProvider_FetchOffers(t *testing.T) {
	var requests atomic.Int32
	provider, tokens := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, OffersPath, r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "DEL", q.Get("originLocationCode"))
		assert.Equal(t, "HAN", q.Get("destinationLocationCode"))
		assert.Equal(t, "1", q.Get("adults"))
		assert.Equal(t, "8", q.Get("max"))
		assert.Equal(t, "INR", q.Get("currencyCode"))
		assert.Equal(t, "false", q.Get("nonStop"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(offersBody))
	})

	ctx := context.Background()
	session, err := provider.Open(ctx, domain.Route{Origin: "New Delhi", Destination: "Hanoi"})
	require.NoError(t, err)
	defer session.Close()

	day := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		offers, err := session.FetchOffers(ctx, day.AddDate(0, 0, i), testFetchOptions())
		require.NoError(t, err)
		require.Len(t, offers, 2)

		assert.Equal(t, "9b131f1925f287a60adee24376c3c189", offers[0].IdentityKey)
		assert.Equal(t, 12345, offers[0].Price)
		assert.Equal(t, domain.FlightTypeConnecting, offers[1].FlightType)
		assert.Equal(t, "AI", offers[1].Airline)
		assert.Equal(t, 13500, offers[1].Price)
		assert.Equal(t, "11h", offers[1].Duration)
	}

	assert.Equal(t, int32(1), tokens.calls.Load(), "one token per session")
	assert.Equal(t, int32(3), requests.Load())
}

func TestProvider_DepartureDateParam(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-12-31", r.URL.Query().Get("departureDate"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	session, err := provider.Open(context.Background(), domain.Route{Origin: "Mumbai", Destination: "Hanoi"})
	require.NoError(t, err)

	offers, err := session.FetchOffers(context.Background(),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), testFetchOptions())
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestProvider_OpenFailsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.ProviderSettings
		route    domain.Route
	}{
		{
			name:     "missing credentials",
			settings: domain.ProviderSettings{ClientID: "id"},
			route:    domain.Route{Origin: "New Delhi", Destination: "Hanoi"},
		},
		{
			name:     "unknown origin",
			settings: domain.ProviderSettings{ClientID: "id", ClientSecret: "secret"},
			route:    domain.Route{Origin: "Atlantis", Destination: "Hanoi"},
		},
		{
			name:     "unknown destination",
			settings: domain.ProviderSettings{ClientID: "id", ClientSecret: "secret"},
			route:    domain.Route{Origin: "Hanoi", Destination: "Atlantis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &fakeTokens{token: "tok"}
			provider := New(NewConfig(tt.settings), tokens)

			_, err := provider.Open(context.Background(), tt.route)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Zero(t, tokens.calls.Load())
		})
	}
}

func TestProvider_OpenAuthFailure(t *testing.T) {
	tokens := &fakeTokens{err: domain.ErrAuthInvalid}
	provider := New(NewConfig(domain.ProviderSettings{ClientID: "id", ClientSecret: "secret"}), tokens)

	_, err := provider.Open(context.Background(), domain.Route{Origin: "New Delhi", Destination: "Hanoi"})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestProvider_FetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		check   func(t *testing.T, err error)
	}{
		{
			name:    "bad request",
			status:  http.StatusBadRequest,
			body:    `{"errors":[{"status":400,"code":477,"title":"INVALID FORMAT","detail":"departureDate"}]}`,
			wantErr: domain.ErrProvider,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, 477, apiErr.Code)
				assert.Contains(t, err.Error(), "INVALID FORMAT")
			},
		},
		{
			name:    "expired token",
			status:  http.StatusUnauthorized,
			body:    `{"errors":[{"code":38192,"title":"Invalid access token"}]}`,
			wantErr: domain.ErrAuthInvalid,
			check: func(t *testing.T, err error) {
				assert.True(t, IsUnauthorized(err))
			},
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{}`,
			wantErr: domain.ErrRateLimited,
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"data": [`,
			wantErr: domain.ErrProvider,
		},
		{
			name:    "malformed offer",
			status:  http.StatusOK,
			body:    `{"data":[{"itineraries":[],"price":{"total":"1"}}]}`,
			wantErr: domain.ErrProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, _ := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			session, err := provider.Open(context.Background(), domain.Route{Origin: "New Delhi", Destination: "Hanoi"})
			require.NoError(t, err)

			_, err = session.FetchOffers(context.Background(), time.Now(), testFetchOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestSession_ClosedRejectsFetch(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	session, err := provider.Open(context.Background(), domain.Route{Origin: "New Delhi", Destination: "Hanoi"})
	require.NoError(t, err)
	require.NoError(t, session.Close())

	_, err = session.FetchOffers(context.Background(), time.Now(), testFetchOptions())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestProvider_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	tokens := &fakeTokens{token: "tok"}
	provider := New(NewConfig(domain.ProviderSettings{ClientID: "id", ClientSecret: "secret", BaseURL: baseURL}), tokens)

	session, err := provider.Open(context.Background(), domain.Route{Origin: "New Delhi", Destination: "Hanoi"})
	require.NoError(t, err)

	_, err = session.FetchOffers(context.Background(), time.Now(), testFetchOptions())
	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestProvider_RateLimitWaitCancelled(t *testing.T) {
	var hits atomic.Int32
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	session, err := provider.Open(context.Background(), domain.Route{Origin: "New Delhi", Destination: "Hanoi"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = session.FetchOffers(ctx, time.Now(), testFetchOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hits.Load())
}
