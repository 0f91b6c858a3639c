package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// SeedService bootstraps the offer table from a static snapshot.
type SeedService interface {
	// Seed upserts the snapshot records. Unless opts.Always is set, it does
	// nothing when the offer table already holds rows.
	Seed(ctx context.Context, snapshot io.Reader, opts SeedOptions) (*SeedResult, error)
}

// SeedOptions controls seeding.
type SeedOptions struct {
	// Always seeds even when offers are already stored.
	Always bool
}

// SeedResult reports what seeding did.
type SeedResult struct {
	// Seeded is false when the table was not empty.
	Seeded bool

	Stats domain.UpsertStats
}
