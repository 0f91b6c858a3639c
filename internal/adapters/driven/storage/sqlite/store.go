package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/flightsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
)

// defaultFileName is the database file created under the data directory.
const defaultFileName = "flights.db"

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and applies migrations.
// If path is empty, defaults to ~/.flightsync/data/flights.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".flightsync", "data", defaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL keeps readers (the query layer) unblocked while a batch commits.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// OfferStore returns an OfferStore interface backed by this store.
func (s *Store) OfferStore() driven.OfferStore {
	return &offerStore{store: s}
}

// MetadataStore returns a MetadataStore interface backed by this store.
func (s *Store) MetadataStore() driven.MetadataStore {
	return &metadataStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending up migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_offers.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Offer Store ====================

// offerStore implements driven.OfferStore.
type offerStore struct {
	store *Store
}

var _ driven.OfferStore = (*offerStore)(nil)

const offerColumns = `uuid, airline, date, duration, flightType, price, origin, destination,
	originCountry, destinationCountry, link, rainProbability, freeMeal`

// Upsert applies the batch in a single transaction.
func (s *offerStore) Upsert(ctx context.Context, offers []domain.FlightOffer) (domain.UpsertStats, error) {
	for i := range offers {
		if err := offers[i].Validate(); err != nil {
			return domain.UpsertStats{}, fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.UpsertStats{}, fmt.Errorf("%w: beginning transaction: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	existsStmt, err := tx.PrepareContext(ctx, "SELECT 1 FROM flights WHERE uuid = ?")
	if err != nil {
		return domain.UpsertStats{}, fmt.Errorf("%w: preparing lookup: %w", domain.ErrStorage, err)
	}
	defer existsStmt.Close()

	upsertStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO flights (`+offerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
			airline = excluded.airline,
			date = excluded.date,
			duration = excluded.duration,
			flightType = excluded.flightType,
			price = excluded.price,
			origin = excluded.origin,
			destination = excluded.destination,
			originCountry = excluded.originCountry,
			destinationCountry = excluded.destinationCountry,
			link = excluded.link,
			rainProbability = excluded.rainProbability,
			freeMeal = excluded.freeMeal
	`)
	if err != nil {
		return domain.UpsertStats{}, fmt.Errorf("%w: preparing upsert: %w", domain.ErrStorage, err)
	}
	defer upsertStmt.Close()

	var stats domain.UpsertStats
	for i := range offers {
		offer := &offers[i]

		var one int
		switch err := existsStmt.QueryRowContext(ctx, offer.IdentityKey).Scan(&one); {
		case err == nil:
			stats.Updated++
		case errors.Is(err, sql.ErrNoRows):
			stats.Inserted++
		default:
			return domain.UpsertStats{}, fmt.Errorf("%w: looking up offer %s: %w", domain.ErrStorage, offer.IdentityKey, err)
		}

		if _, err := upsertStmt.ExecContext(ctx,
			offer.IdentityKey, offer.Airline, offer.Date, offer.Duration, string(offer.FlightType),
			offer.Price, offer.Origin, offer.Destination, offer.OriginCountry, offer.DestinationCountry,
			nullableString(offer.Link), nullableFloat(offer.RainProbability), nullableBool(offer.FreeMeal),
		); err != nil {
			return domain.UpsertStats{}, fmt.Errorf("%w: saving offer %s: %w", domain.ErrStorage, offer.IdentityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.UpsertStats{}, fmt.Errorf("%w: committing transaction: %w", domain.ErrStorage, err)
	}
	return stats, nil
}

// Count returns the number of stored offers.
func (s *offerStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM flights").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting offers: %w", err)
	}
	return count, nil
}

// Get retrieves an offer by identity key.
func (s *offerStore) Get(ctx context.Context, identityKey string) (*domain.FlightOffer, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+offerColumns+" FROM flights WHERE uuid = ?", identityKey)

	offer, err := scanOffer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning offer: %w", err)
	}
	return offer, nil
}

// List returns offers matching the filter, ordered by date then price.
func (s *offerStore) List(ctx context.Context, filter domain.OfferFilter) ([]domain.FlightOffer, error) {
	var where []string
	var args []any
	if filter.Origin != "" {
		where = append(where, "origin = ? COLLATE NOCASE")
		args = append(args, filter.Origin)
	}
	if filter.Destination != "" {
		where = append(where, "destination = ? COLLATE NOCASE")
		args = append(args, filter.Destination)
	}
	if filter.Date != "" {
		where = append(where, "date = ?")
		args = append(args, filter.Date)
	}

	query := "SELECT " + offerColumns + " FROM flights"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, price, uuid"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying offers: %w", err)
	}
	defer rows.Close()

	var offers []domain.FlightOffer //nolint:prealloc // size unknown from query
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning offer: %w", err)
		}
		offers = append(offers, *offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating offers: %w", err)
	}
	return offers, nil
}

// ==================== Metadata Store ====================

// metadataStore implements driven.MetadataStore.
type metadataStore struct {
	store *Store
}

var _ driven.MetadataStore = (*metadataStore)(nil)

// Get returns the value for key and whether it exists.
func (s *metadataStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.store.db.QueryRowContext(ctx, "SELECT value FROM sync_metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading metadata %s: %w", key, err)
	}
	return value, true, nil
}

// Set creates or replaces the value for key, stamping updated_at.
func (s *metadataStore) Set(ctx context.Context, key, value string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_metadata (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: saving metadata %s: %w", domain.ErrStorage, key, err)
	}
	return nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanOffer reads one offer row. Text columns are nullable because rows may
// come from snapshots written by other tools.
func scanOffer(row rowScanner) (*domain.FlightOffer, error) {
	var (
		offer                                    domain.FlightOffer
		airline, date, duration, flightType      sql.NullString
		origin, destination, originC, destC, lnk sql.NullString
		price                                    sql.NullInt64
		rain                                     sql.NullFloat64
		freeMeal                                 sql.NullInt64
	)

	if err := row.Scan(&offer.IdentityKey, &airline, &date, &duration, &flightType, &price,
		&origin, &destination, &originC, &destC, &lnk, &rain, &freeMeal); err != nil {
		return nil, err
	}

	offer.Airline = airline.String
	offer.Date = date.String
	offer.Duration = duration.String
	offer.FlightType = domain.FlightType(flightType.String)
	offer.Price = int(price.Int64)
	offer.Origin = origin.String
	offer.Destination = destination.String
	offer.OriginCountry = originC.String
	offer.DestinationCountry = destC.String
	if lnk.Valid {
		offer.Link = &lnk.String
	}
	if rain.Valid {
		offer.RainProbability = &rain.Float64
	}
	if freeMeal.Valid {
		b := freeMeal.Int64 != 0
		offer.FreeMeal = &b
	}
	return &offer, nil
}

// nullableString converts a *string to a driver value, nil for NULL.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// nullableFloat converts a *float64 to a driver value, nil for NULL.
func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// nullableBool converts a *bool to 0/1, nil for NULL.
func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return boolToInt(*b)
}

// boolToInt converts a bool to an integer (0 or 1).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullString converts an empty string to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
