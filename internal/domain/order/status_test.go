package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  PaymentStatus
		isValid bool
	}{
		{PaymentStatusPending, true},
		{PaymentStatusPaid, true},
		{PaymentStatusConfirmed, true},
		{PaymentStatusDeclined, true},
		{PaymentStatusFailed, true},
		{PaymentStatus("INVALID"), false},
		{PaymentStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PaymentStatus
		to       PaymentStatus
		canTrans bool
	}{
		// From PENDING
		{PaymentStatusPending, PaymentStatusPaid, true},
		{PaymentStatusPending, PaymentStatusDeclined, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusConfirmed, false},
		// From PAID
		{PaymentStatusPaid, PaymentStatusConfirmed, true},
		{PaymentStatusPaid, PaymentStatusDeclined, true},
		{PaymentStatusPaid, PaymentStatusPending, false},
		{PaymentStatusPaid, PaymentStatusFailed, false},
		// Terminal states never move
		{PaymentStatusConfirmed, PaymentStatusPaid, false},
		{PaymentStatusConfirmed, PaymentStatusDeclined, false},
		{PaymentStatusDeclined, PaymentStatusPending, false},
		{PaymentStatusFailed, PaymentStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.False(t, PaymentStatusPaid.IsTerminal())
	assert.True(t, PaymentStatusConfirmed.IsTerminal())
	assert.True(t, PaymentStatusDeclined.IsTerminal())
	assert.True(t, PaymentStatusFailed.IsTerminal())
}

func TestDeliveryStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     DeliveryStatus
		to       DeliveryStatus
		canTrans bool
	}{
		{DeliveryStatusProcessing, DeliveryStatusReadyToShip, true},
		{DeliveryStatusProcessing, DeliveryStatusShipped, false},
		{DeliveryStatusProcessing, DeliveryStatusDelivered, false},
		{DeliveryStatusReadyToShip, DeliveryStatusShipped, true},
		{DeliveryStatusReadyToShip, DeliveryStatusProcessing, false},
		{DeliveryStatusShipped, DeliveryStatusDelivered, true},
		{DeliveryStatusShipped, DeliveryStatusReadyToShip, false},
		{DeliveryStatusDelivered, DeliveryStatusReturned, true},
		{DeliveryStatusDelivered, DeliveryStatusShipped, false},
		{DeliveryStatusReturned, DeliveryStatusProcessing, false},
		{DeliveryStatusReturned, DeliveryStatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDeliveryStatus_CanAdvanceTo(t *testing.T) {
	// Multi-step jumps forward are allowed, backward moves are not
	assert.True(t, DeliveryStatusProcessing.CanAdvanceTo(DeliveryStatusShipped))
	assert.True(t, DeliveryStatusProcessing.CanAdvanceTo(DeliveryStatusDelivered))
	assert.True(t, DeliveryStatusReadyToShip.CanAdvanceTo(DeliveryStatusDelivered))
	assert.False(t, DeliveryStatusShipped.CanAdvanceTo(DeliveryStatusShipped))
	assert.False(t, DeliveryStatusDelivered.CanAdvanceTo(DeliveryStatusProcessing))
	assert.False(t, DeliveryStatusProcessing.CanAdvanceTo(DeliveryStatus("BOGUS")))
}
