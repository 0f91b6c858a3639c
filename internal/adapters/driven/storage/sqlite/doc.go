// Package sqlite provides the SQLite-based storage engine for flightsync.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements several store interfaces
// through a single database connection:
//
//   - OfferStore: Idempotent batch upsert of flight offers
//   - MetadataStore: Key/value metadata, including the sync watermark
//   - SchedulerStore: Periodic task state and cycle history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.flightsync/data/flights.db.
//
// # Concurrency
//
// The store assumes a single writer. Each Upsert runs in one transaction, so
// readers never observe a partially applied batch.
package sqlite
