// Package amadeus implements an offer provider backed by the Amadeus
// Self-Service flight offers API.
//
// # Architecture
//
// The provider follows the driven port pattern defined in [driven.OfferProvider].
// It comprises the following components:
//
//   - Provider: validates configuration and opens one session per route
//   - Session: fetches and normalises offers for single departure days
//   - Client: handles HTTP communication with rate limiting
//   - Config: endpoint and credential settings
//
// # Authentication
//
// Access tokens are obtained with the OAuth 2.0 client credentials grant
// against /v1/security/oauth2/token. A token is requested once when a
// session is opened and reused for every day fetched through that session.
// Credentials and both location codes are checked before any network call,
// so a misconfigured route fails without touching the API.
//
// # Locations
//
// Routes are configured with city names. Each name is resolved to an IATA
// code through a small closed mapping; an unknown city is a configuration
// error. Codes in responses map back to (city, country) pairs, falling back
// to the configured city name with country "Unknown".
//
// # Normalisation
//
// For each returned offer only the first itinerary is considered:
//
//   - airline: carrier code of the first segment
//   - flightType: Nonstop for exactly one segment, Connecting otherwise
//   - duration: PT4H15M becomes "4h 15m", PT4H "4h", PT15M "15m"
//   - price: rounded half to even, converted with a fixed fallback rate when
//     the quoted currency differs from the target currency
//   - identity key: derived from route codes, departure timestamp, raw price
//     total and carrier, see [domain.IdentityKey]
//
// The fallback rate is an approximation, not a live exchange rate.
//
// # Rate Limiting
//
// Requests are throttled proactively with a token bucket sized for the
// test environment quota. A 429 response is surfaced as a [RateLimitError]
// and honours Retry-After for later requests. There is no retry inside a
// fetch; the sync cycle aborts and the scheduler tries again later.
//
// # Example Usage
//
//	cfg := amadeus.NewConfig(settings)
//	tokens := oauth.NewClientCredentials(cfg.TokenURL(), cfg.ClientID, cfg.ClientSecret, nil)
//	provider := amadeus.New(cfg, tokens)
//
//	session, err := provider.Open(ctx, domain.Route{Origin: "New Delhi", Destination: "Hanoi"})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	offers, err := session.FetchOffers(ctx, day, opts)
package amadeus
