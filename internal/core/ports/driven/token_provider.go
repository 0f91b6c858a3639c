package driven

import "context"

// TokenProvider obtains bearer credentials for provider API calls.
//
// Providers call GetToken once per fetch session; the token is not refreshed
// mid-session.
type TokenProvider interface {
	// GetToken performs the credential exchange and returns an access token.
	GetToken(ctx context.Context) (string, error)
}
