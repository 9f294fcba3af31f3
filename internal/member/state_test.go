package member

import (
	"testing"

	"gymcore/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		op   Operation
		from Status
		to   Status
		ok   bool
	}{
		{OpRenew, StatusActive, StatusActive, true},
		{OpRenew, StatusExpired, StatusActive, true},
		{OpRenew, StatusFrozen, "", false},
		{OpRenew, StatusCancelled, "", false},
		{OpFreeze, StatusActive, StatusFrozen, true},
		{OpFreeze, StatusFrozen, "", false},
		{OpUnfreeze, StatusFrozen, StatusActive, true},
		{OpUnfreeze, StatusActive, "", false},
		{OpGiftDays, StatusActive, StatusActive, true},
		{OpGiftDays, StatusExpired, "", false},
		{OpToggle, StatusActive, StatusInactive, true},
		{OpToggle, StatusInactive, StatusActive, true},
		{OpToggle, StatusFrozen, "", false},
		{OpCancel, StatusFrozen, StatusCancelled, true},
		{OpCancel, StatusExpired, StatusCancelled, true},
		{OpCancel, StatusCancelled, "", false},
		{OpExpire, StatusActive, StatusExpired, true},
		{OpExpire, StatusFrozen, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.op)+"/"+string(tt.from), func(t *testing.T) {
			to, ok := Next(tt.op, tt.from)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.ok, CanTransition(tt.op, tt.from))
		})
	}
}

func TestTransitionErrorIsConflict(t *testing.T) {
	err := transitionError(OpFreeze, StatusExpired)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "cannot freeze a member in status Expired")
}
