package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// FlightType distinguishes direct itineraries from ones with stops.
type FlightType string

// Available flight types.
const (
	// FlightTypeNonstop is an itinerary with exactly one segment.
	FlightTypeNonstop FlightType = "Nonstop"

	// FlightTypeConnecting is an itinerary with two or more segments.
	FlightTypeConnecting FlightType = "Connecting"
)

// IsValid returns true if the flight type is recognised.
func (t FlightType) IsValid() bool {
	return t == FlightTypeNonstop || t == FlightTypeConnecting
}

// String returns the string representation.
func (t FlightType) String() string {
	return string(t)
}

// FlightTypeForSegments returns Nonstop for a single segment and Connecting otherwise.
func FlightTypeForSegments(segments int) FlightType {
	if segments == 1 {
		return FlightTypeNonstop
	}
	return FlightTypeConnecting
}

// identityKeyLength is the number of hex characters kept from the digest.
const identityKeyLength = 32

// FlightOffer is one priced itinerary in canonical form.
// Only the current state per IdentityKey is retained.
type FlightOffer struct {
	// IdentityKey is the deterministic primary key, see IdentityKey.
	IdentityKey string `json:"uuid"`

	// Airline is the carrier code of the first segment.
	Airline string `json:"airline"`

	// Date is the departure calendar date (YYYY-MM-DD).
	Date string `json:"date"`

	// Duration is a compact human string such as "4h 15m".
	Duration string `json:"duration"`

	// FlightType is Nonstop or Connecting.
	FlightType FlightType `json:"flightType"`

	// Price is expressed in whole units of the target currency.
	Price int `json:"price"`

	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
	OriginCountry      string `json:"originCountry"`
	DestinationCountry string `json:"destinationCountry"`

	// Link is an optional deep link.
	Link *string `json:"link"`

	// RainProbability is filled by enrichment sources, never by providers.
	RainProbability *float64 `json:"rainProbability"`

	// FreeMeal is optional.
	FreeMeal *bool `json:"freeMeal"`
}

// Validate checks the invariants a record must satisfy before it is stored.
func (o *FlightOffer) Validate() error {
	if strings.TrimSpace(o.IdentityKey) == "" {
		return fmt.Errorf("%w: offer has empty identity key", ErrInvalidInput)
	}
	if o.FlightType != "" && !o.FlightType.IsValid() {
		return fmt.Errorf("%w: offer %s has unknown flight type %q", ErrInvalidInput, o.IdentityKey, o.FlightType)
	}
	if p := o.RainProbability; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("%w: offer %s rain probability %v outside [0,1]", ErrInvalidInput, o.IdentityKey, *p)
	}
	return nil
}

// IdentityKey derives the stable key of an offer from the attributes that
// define it. Identical inputs always produce the same key, so re-ingesting an
// offer replaces the stored row instead of duplicating it.
func IdentityKey(originCode, destinationCode, departure, priceTotal, carrier string) string {
	joined := strings.Join([]string{originCode, destinationCode, departure, priceTotal, carrier}, "|")
	digest := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(digest[:])[:identityKeyLength]
}

// UpsertStats reports how a batch was applied.
// Counts are only meaningful when the batch committed.
type UpsertStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// Total returns the number of records written.
func (s UpsertStats) Total() int {
	return s.Inserted + s.Updated
}

// OfferFilter narrows a listing of stored offers.
// Zero values mean "no constraint".
type OfferFilter struct {
	Origin      string
	Destination string
	Date        string
	Limit       int
}
