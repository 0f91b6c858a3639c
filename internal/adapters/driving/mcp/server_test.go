package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil offer service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingOfferService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Offers: &mockOfferService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil offer service returns error", func(t *testing.T) {
		ports := &Ports{Sync: &mockSyncOrchestrator{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingOfferService)
	})

	t.Run("offers only is valid", func(t *testing.T) {
		ports := &Ports{
			Offers: &mockOfferService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Offers: &mockOfferService{},
			Sync:   &mockSyncOrchestrator{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
