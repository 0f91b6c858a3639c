// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - OfferProvider / OfferSession: Fetches and normalises offers (Amadeus)
//   - OfferStore: Idempotent offer persistence (SQLite)
//   - MetadataStore: Key/value metadata holding the sync watermark (SQLite)
//   - ConfigStore: Application configuration (TOML)
//   - SchedulerStore: Periodic task state and history (SQLite)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SyncMetrics: Prometheus counters for sync cycles
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or driving package
package driven
