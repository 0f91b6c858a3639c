package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Failure classes of a sync cycle.

	// ErrConfiguration indicates missing credentials or an unmapped city.
	// It is raised before any network call and is never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrProvider indicates a network, HTTP or decoding failure while
	// talking to the offer provider. The cycle is aborted without commit.
	ErrProvider = errors.New("provider error")

	// ErrStorage indicates a failed write; the whole batch is rolled back.
	ErrStorage = errors.New("storage error")

	// ErrAuthInvalid indicates the provider rejected the client credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
