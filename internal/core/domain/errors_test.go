package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrSyncInProgress", ErrSyncInProgress},
		{"ErrConfiguration", ErrConfiguration},
		{"ErrProvider", ErrProvider},
		{"ErrStorage", ErrStorage},
		{"ErrAuthInvalid", ErrAuthInvalid},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_AreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrConfiguration, ErrProvider))
	assert.False(t, errors.Is(ErrProvider, ErrStorage))
	assert.False(t, errors.Is(ErrStorage, ErrConfiguration))
}

func TestErrors_WrappedTwoClasses(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrProvider, ErrAuthInvalid)

	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, ErrAuthInvalid)
	assert.NotErrorIs(t, err, ErrConfiguration)
}
