package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// WatermarkKey is the metadata key holding the epoch seconds of the last
// fully successful sync.
const WatermarkKey = "last_successful_online_sync_epoch"

// SyncResult is the outcome of one sync invocation: either *SyncRan or
// *SyncSkipped. A throttle skip is a result, never an error.
type SyncResult interface {
	// Skipped reports whether the cycle was throttled.
	Skipped() bool

	// LastSuccessAt returns the watermark after the invocation.
	LastSuccessAt() time.Time

	isSyncResult()
}

// SyncRan is returned when a cycle fetched and committed offers.
type SyncRan struct {
	// RunID identifies the cycle in logs and task history.
	RunID string

	// Fetched is the number of offers returned by the provider.
	Fetched int

	Inserted int
	Updated  int

	// LastSuccess is the new watermark.
	LastSuccess time.Time
}

// Skipped reports false.
func (*SyncRan) Skipped() bool { return false }

// LastSuccessAt returns the watermark written by this cycle.
func (r *SyncRan) LastSuccessAt() time.Time { return r.LastSuccess }

func (*SyncRan) isSyncResult() {}

// SyncSkipped is returned when the last success is more recent than the
// configured minimum gap.
type SyncSkipped struct {
	Reason string

	// LastSuccess is the unchanged watermark.
	LastSuccess time.Time

	// Remaining is how long until the next cycle may run.
	Remaining time.Duration
}

// Skipped reports true.
func (*SyncSkipped) Skipped() bool { return true }

// LastSuccessAt returns the unchanged watermark.
func (s *SyncSkipped) LastSuccessAt() time.Time { return s.LastSuccess }

// RemainingSeconds returns Remaining rounded up to whole seconds.
func (s *SyncSkipped) RemainingSeconds() int64 {
	return int64(math.Ceil(s.Remaining.Seconds()))
}

func (*SyncSkipped) isSyncResult() {}

// SyncSettings controls what a sync cycle fetches and how often it may run.
type SyncSettings struct {
	// Routes are processed in order.
	Routes []Route

	// DaysAhead extends the date range; the range is [today, today+DaysAhead].
	DaysAhead int

	// MaxPerDay caps the offers requested per route and day.
	MaxPerDay int

	// MinUpdateGap is the minimum time between successful cycles.
	MinUpdateGap time.Duration

	// Adults is the passenger count sent to the provider.
	Adults int

	// Currency is the target currency of stored prices.
	Currency string

	// FallbackRate converts prices quoted in any other currency.
	// It is a fixed approximation, not a live exchange rate.
	FallbackRate float64
}

// DefaultSyncSettings returns sensible defaults for sync.
func DefaultSyncSettings() SyncSettings {
	return SyncSettings{
		Routes:       DefaultRoutes(),
		DaysAhead:    21,
		MaxPerDay:    8,
		MinUpdateGap: 30 * time.Minute,
		Adults:       1,
		Currency:     "INR",
		FallbackRate: 90.0,
	}
}

// Validate checks the settings can drive a cycle.
func (s *SyncSettings) Validate() error {
	if len(s.Routes) == 0 {
		return fmt.Errorf("%w: no routes configured", ErrConfiguration)
	}
	for _, r := range s.Routes {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}
	switch {
	case s.DaysAhead < 0:
		return fmt.Errorf("%w: days ahead must not be negative", ErrConfiguration)
	case s.MaxPerDay <= 0:
		return fmt.Errorf("%w: max per day must be positive", ErrConfiguration)
	case s.MinUpdateGap < 0:
		return fmt.Errorf("%w: min update gap must not be negative", ErrConfiguration)
	case s.Adults <= 0:
		return fmt.Errorf("%w: adults must be positive", ErrConfiguration)
	case strings.TrimSpace(s.Currency) == "":
		return fmt.Errorf("%w: currency must be set", ErrConfiguration)
	case s.FallbackRate <= 0:
		return fmt.Errorf("%w: fallback rate must be positive", ErrConfiguration)
	}
	return nil
}

// ProviderSettings holds the offer provider endpoint and credentials.
type ProviderSettings struct {
	ClientID     string
	ClientSecret string

	// BaseURL overrides the provider API root; empty uses the default.
	BaseURL string
}

// HasCredentials reports whether both client ID and secret are set.
func (p ProviderSettings) HasCredentials() bool {
	return strings.TrimSpace(p.ClientID) != "" && strings.TrimSpace(p.ClientSecret) != ""
}

// DayRange returns every calendar day from start to start+daysAhead inclusive,
// each at midnight in start's location.
func DayRange(start time.Time, daysAhead int) []time.Time {
	if daysAhead < 0 {
		return nil
	}
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	days := make([]time.Time, 0, daysAhead+1)
	for i := 0; i <= daysAhead; i++ {
		days = append(days, first.AddDate(0, 0, i))
	}
	return days
}

// FormatWatermark renders t as epoch seconds.
func FormatWatermark(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// ParseWatermark parses epoch seconds, accepting a fractional part.
func ParseWatermark(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("%w: watermark %q is not epoch seconds", ErrInvalidInput, s)
	}
	secs, frac := math.Modf(f)
	return time.Unix(int64(secs), int64(frac*float64(time.Second))), nil
}
