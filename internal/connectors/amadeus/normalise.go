package amadeus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// unknownCarrier is used when the first segment has no carrier code.
const unknownCarrier = "Unknown"

// OffersResponse is the subset of the flight offers response that is read.
type OffersResponse struct {
	Data []Offer `json:"data"`
}

// Offer is one priced itinerary set.
type Offer struct {
	Itineraries []Itinerary `json:"itineraries"`
	Price       Price       `json:"price"`
}

// Itinerary is one direction of travel.
type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Segment is one flight leg.
type Segment struct {
	CarrierCode string   `json:"carrierCode"`
	Departure   Endpoint `json:"departure"`
}

// Endpoint is a departure or arrival point.
type Endpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

// Price holds the quoted total.
type Price struct {
	Total    PriceTotal `json:"total"`
	Currency string     `json:"currency"`
}

// PriceTotal keeps the raw text of the total, which the API sends as a
// string but which may also arrive as a JSON number.
type PriceTotal string

// UnmarshalJSON accepts a string, a number or null.
func (p *PriceTotal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceTotal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price total: %w", err)
	}
	*p = PriceTotal(n.String())
	return nil
}

// FormatDuration renders the hour and minute parts of an ISO-8601 duration
// such as PT4H15M as "4h 15m". Larger units are ignored. A duration with
// neither part renders as "0m".
func FormatDuration(iso string) (string, error) {
	var hours, minutes int

	if _, timePart, ok := strings.Cut(iso, "T"); ok {
		if h, rest, ok := strings.Cut(timePart, "H"); ok {
			v, err := strconv.Atoi(h)
			if err != nil {
				return "", fmt.Errorf("duration %q: invalid hours: %w", iso, err)
			}
			hours, timePart = v, rest
		}
		if m, _, ok := strings.Cut(timePart, "M"); ok {
			v, err := strconv.Atoi(m)
			if err != nil {
				return "", fmt.Errorf("duration %q: invalid minutes: %w", iso, err)
			}
			minutes = v
		}
	}

	switch {
	case hours != 0 && minutes != 0:
		return fmt.Sprintf("%dh %dm", hours, minutes), nil
	case hours != 0:
		return fmt.Sprintf("%dh", hours), nil
	default:
		return fmt.Sprintf("%dm", minutes), nil
	}
}

// assumedCurrency is the currency of a price that carries none.
const assumedCurrency = "INR"

// ConvertPrice parses total and expresses it in whole units of target.
// Prices already in target are only rounded; any other currency is
// multiplied by fallbackRate first. A price without a currency is taken to
// be in assumedCurrency. Rounding is half to even.
func ConvertPrice(total, currency, target string, fallbackRate float64) (int, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(total), 64)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", total, err)
	}
	if currency == "" {
		currency = assumedCurrency
	}
	if !strings.EqualFold(currency, target) {
		value *= fallbackRate
	}
	return int(math.RoundToEven(value)), nil
}

const (
	naiveLayout   = "2006-01-02T15:04:05"
	minuteLayout  = "2006-01-02T15:04"
	offsetLayout  = "-07:00"
	microsPerNano = 1000
)

// parseDeparture parses a departure timestamp and returns it together with
// its canonical ISO-8601 text. Local timestamps without an offset keep no
// offset; fractional seconds are rendered as microseconds.
func parseDeparture(at string) (time.Time, string, error) {
	var (
		t     time.Time
		err   error
		zoned bool
	)
	if t, err = time.Parse(naiveLayout, at); err != nil {
		if t, err = time.Parse(minuteLayout, at); err != nil {
			if t, err = time.Parse(time.RFC3339Nano, at); err != nil {
				return time.Time{}, "", fmt.Errorf("departure %q: %w", at, err)
			}
			zoned = true
		}
	}

	canonical := t.Format(naiveLayout)
	if ns := t.Nanosecond(); ns != 0 {
		canonical += fmt.Sprintf(".%06d", ns/microsPerNano)
	}
	if zoned {
		canonical += t.Format(offsetLayout)
	}
	return t, canonical, nil
}

// normaliseRequest carries the route context of one fetch.
type normaliseRequest struct {
	route           domain.Route
	originCode      string
	destinationCode string
	currency        string
	fallbackRate    float64
}

// normaliseOffer converts one API offer into a canonical record.
func normaliseOffer(raw *Offer, req normaliseRequest) (domain.FlightOffer, error) {
	if len(raw.Itineraries) == 0 {
		return domain.FlightOffer{}, fmt.Errorf("offer has no itineraries")
	}
	itinerary := raw.Itineraries[0]
	if len(itinerary.Segments) == 0 {
		return domain.FlightOffer{}, fmt.Errorf("itinerary has no segments")
	}
	first := itinerary.Segments[0]

	carrier := first.CarrierCode
	if carrier == "" {
		carrier = unknownCarrier
	}

	duration, err := FormatDuration(itinerary.Duration)
	if err != nil {
		return domain.FlightOffer{}, err
	}

	departure, departureISO, err := parseDeparture(first.Departure.At)
	if err != nil {
		return domain.FlightOffer{}, err
	}

	total := string(raw.Price.Total)
	price, err := ConvertPrice(total, raw.Price.Currency, req.currency, req.fallbackRate)
	if err != nil {
		return domain.FlightOffer{}, err
	}

	origin := locationOrFallback(req.originCode, req.route.Origin)
	destination := locationOrFallback(req.destinationCode, req.route.Destination)
	link := ""

	return domain.FlightOffer{
		IdentityKey:        domain.IdentityKey(req.originCode, req.destinationCode, departureISO, total, carrier),
		Airline:            carrier,
		Date:               departure.Format(time.DateOnly),
		Duration:           duration,
		FlightType:         domain.FlightTypeForSegments(len(itinerary.Segments)),
		Price:              price,
		Origin:             origin.City,
		Destination:        destination.City,
		OriginCountry:      origin.Country,
		DestinationCountry: destination.Country,
		Link:               &link,
	}, nil
}
