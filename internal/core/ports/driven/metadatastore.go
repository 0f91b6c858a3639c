package driven

import "context"

// MetadataStore is a small key/value table for watermarks.
type MetadataStore interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set creates or replaces the value for key, stamping the current time.
	Set(ctx context.Context, key, value string) error
}
