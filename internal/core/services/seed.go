package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/flightsync/internal/core/domain"
	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
	"github.com/custodia-labs/flightsync/internal/core/ports/driving"
	"github.com/custodia-labs/flightsync/internal/logger"
)

// Ensure SeedService implements the interface.
var _ driving.SeedService = (*SeedService)(nil)

// SeedService loads a JSON snapshot of offers into the offer store.
type SeedService struct {
	offerStore driven.OfferStore
}

// NewSeedService creates a new seed service.
func NewSeedService(offerStore driven.OfferStore) *SeedService {
	return &SeedService{offerStore: offerStore}
}

// Seed upserts every snapshot record in one batch. The snapshot is a JSON
// array of records using the stored column names.
func (s *SeedService) Seed(ctx context.Context, snapshot io.Reader, opts driving.SeedOptions) (*driving.SeedResult, error) {
	if !opts.Always {
		count, err := s.offerStore.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count offers: %w", err)
		}
		if count > 0 {
			logger.Debug("Offer table holds %d rows, skipping seed", count)
			return &driving.SeedResult{}, nil
		}
	}

	var records []snapshotRecord
	if err := json.NewDecoder(snapshot).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %w", domain.ErrInvalidInput, err)
	}

	offers := make([]domain.FlightOffer, 0, len(records))
	for i := range records {
		offer, err := records[i].toOffer()
		if err != nil {
			return nil, fmt.Errorf("%w: snapshot record %d: %w", domain.ErrInvalidInput, i, err)
		}
		offers = append(offers, offer)
	}

	stats, err := s.offerStore.Upsert(ctx, offers)
	if err != nil {
		return nil, fmt.Errorf("seed offers: %w", err)
	}

	logger.Info("Seeded %d offers: inserted %d, updated %d", len(offers), stats.Inserted, stats.Updated)
	return &driving.SeedResult{Seeded: true, Stats: stats}, nil
}

// snapshotRecord is one loosely typed snapshot row. Numeric fields may be
// quoted, and freeMeal may be a boolean or a number.
type snapshotRecord struct {
	UUID               string          `json:"uuid"`
	Airline            string          `json:"airline"`
	Date               string          `json:"date"`
	Duration           string          `json:"duration"`
	FlightType         string          `json:"flightType"`
	Price              *json.Number    `json:"price"`
	Origin             string          `json:"origin"`
	Destination        string          `json:"destination"`
	OriginCountry      string          `json:"originCountry"`
	DestinationCountry string          `json:"destinationCountry"`
	Link               *string         `json:"link"`
	RainProbability    *json.Number    `json:"rainProbability"`
	FreeMeal           json.RawMessage `json:"freeMeal"`
}

func (r *snapshotRecord) toOffer() (domain.FlightOffer, error) {
	if strings.TrimSpace(r.UUID) == "" {
		return domain.FlightOffer{}, fmt.Errorf("missing uuid")
	}

	offer := domain.FlightOffer{
		IdentityKey:        r.UUID,
		Airline:            r.Airline,
		Date:               r.Date,
		Duration:           r.Duration,
		FlightType:         domain.FlightType(r.FlightType),
		Origin:             r.Origin,
		Destination:        r.Destination,
		OriginCountry:      r.OriginCountry,
		DestinationCountry: r.DestinationCountry,
		Link:               r.Link,
	}

	if r.Price != nil {
		// Fractional prices are truncated toward zero.
		f, err := r.Price.Float64()
		if err != nil {
			return domain.FlightOffer{}, fmt.Errorf("price: %w", err)
		}
		offer.Price = int(f)
	}

	if r.RainProbability != nil {
		f, err := r.RainProbability.Float64()
		if err != nil {
			return domain.FlightOffer{}, fmt.Errorf("rainProbability: %w", err)
		}
		offer.RainProbability = &f
	}

	freeMeal, err := parseTruthy(r.FreeMeal)
	if err != nil {
		return domain.FlightOffer{}, fmt.Errorf("freeMeal: %w", err)
	}
	offer.FreeMeal = freeMeal

	return offer, nil
}

// parseTruthy reads a nullable boolean that may also be encoded as a number
// or a string. Absent and null values yield nil.
func parseTruthy(raw json.RawMessage) (*bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}

	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case float64:
		b = t != 0
	case string:
		parsed, err := strconv.ParseBool(t)
		if err != nil {
			b = t != ""
		} else {
			b = parsed
		}
	default:
		return nil, fmt.Errorf("unsupported value %s", raw)
	}
	return &b, nil
}
