package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{
			name:  "all ports set",
			ports: &Ports{Offers: &mockOfferService{}, Sync: &mockSyncOrchestrator{}},
		},
		{
			name:    "missing offers",
			ports:   &Ports{Sync: &mockSyncOrchestrator{}},
			wantErr: ErrMissingOfferService,
		},
		{
			name:    "missing sync",
			ports:   &Ports{Offers: &mockOfferService{}},
			wantErr: ErrMissingSyncOrchestrator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
