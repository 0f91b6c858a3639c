package domain

import (
	"fmt"
	"strings"
)

// routeSeparator joins origin and destination in the textual route form.
const routeSeparator = ":"

// Route is an origin/destination city pair configured for sync.
type Route struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// String returns the route as "Origin:Destination".
func (r Route) String() string {
	return r.Origin + routeSeparator + r.Destination
}

// Validate checks both cities are set and differ.
func (r Route) Validate() error {
	if strings.TrimSpace(r.Origin) == "" || strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("%w: route %q needs origin and destination", ErrInvalidInput, r.String())
	}
	if strings.EqualFold(strings.TrimSpace(r.Origin), strings.TrimSpace(r.Destination)) {
		return fmt.Errorf("%w: route %q has identical origin and destination", ErrInvalidInput, r.String())
	}
	return nil
}

// ParseRoute parses the "Origin:Destination" form.
func ParseRoute(s string) (Route, error) {
	origin, destination, ok := strings.Cut(s, routeSeparator)
	if !ok {
		return Route{}, fmt.Errorf("%w: route %q must be Origin%sDestination", ErrInvalidInput, s, routeSeparator)
	}
	r := Route{
		Origin:      strings.TrimSpace(origin),
		Destination: strings.TrimSpace(destination),
	}
	if err := r.Validate(); err != nil {
		return Route{}, err
	}
	return r, nil
}

// DefaultRoutes returns the built-in route list used when none is configured.
func DefaultRoutes() []Route {
	return []Route{
		{Origin: "New Delhi", Destination: "Hanoi"},
		{Origin: "New Delhi", Destination: "Ho Chi Minh City"},
		{Origin: "Mumbai", Destination: "Hanoi"},
		{Origin: "Mumbai", Destination: "Ho Chi Minh City"},
		{Origin: "Hanoi", Destination: "New Delhi"},
		{Origin: "Ho Chi Minh City", Destination: "Mumbai"},
	}
}
