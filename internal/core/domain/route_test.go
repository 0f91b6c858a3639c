package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute(" New Delhi : Hanoi ")
	require.NoError(t, err)
	assert.Equal(t, Route{Origin: "New Delhi", Destination: "Hanoi"}, r)
	assert.Equal(t, "New Delhi:Hanoi", r.String())
}

func TestParseRoute_Invalid(t *testing.T) {
	tests := []string{"", "Hanoi", ":Hanoi", "Hanoi:", "Hanoi:hanoi"}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRoute(in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDefaultRoutes(t *testing.T) {
	routes := DefaultRoutes()

	require.Len(t, routes, 6)
	assert.Equal(t, Route{Origin: "New Delhi", Destination: "Hanoi"}, routes[0])
	assert.Equal(t, Route{Origin: "Ho Chi Minh City", Destination: "Mumbai"}, routes[5])
	for _, r := range routes {
		assert.NoError(t, r.Validate())
	}
}
