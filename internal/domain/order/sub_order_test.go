package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSubOrder(t *testing.T) *SubOrder {
	o := createTestOrder(t)
	vendorID := uuid.New()
	item := addTestItem(t, o, vendorID, 2, 2500)

	so, err := NewSubOrder(o, vendorID, []OrderItem{*item}, valueobject.NewMoneyNGN(decimal.NewFromInt(5000)))
	require.NoError(t, err)
	return so
}

func TestNewSubOrder(t *testing.T) {
	o := createTestOrder(t)
	vendorID := uuid.New()
	item := addTestItem(t, o, vendorID, 2, 2500)

	so, err := NewSubOrder(o, vendorID, []OrderItem{*item}, valueobject.NewMoneyNGN(decimal.NewFromInt(5000)))
	require.NoError(t, err)

	assert.Equal(t, o.ID, so.ParentOrderID)
	assert.Equal(t, o.Reference, so.Reference, "sub-order shares the parent's correlation reference")
	assert.Equal(t, o.UserID, so.UserID)
	assert.Equal(t, PaymentStatusPending, so.Status)
	assert.Equal(t, DeliveryStatusProcessing, so.DeliveryStatus)
	require.Len(t, so.Items, 1)
	require.NotNil(t, so.Items[0].SubOrderID)
	assert.Equal(t, so.ID, *so.Items[0].SubOrderID)
}

func TestNewSubOrder_Validation(t *testing.T) {
	o := createTestOrder(t)
	vendorID := uuid.New()
	item := addTestItem(t, o, vendorID, 1, 100)
	amount := valueobject.NewMoneyNGN(decimal.NewFromInt(100))

	_, err := NewSubOrder(nil, vendorID, []OrderItem{*item}, amount)
	assert.Error(t, err)

	_, err = NewSubOrder(o, uuid.Nil, []OrderItem{*item}, amount)
	assert.Error(t, err)

	_, err = NewSubOrder(o, vendorID, nil, amount)
	assert.Error(t, err)

	// Items belonging to a different vendor are rejected
	_, err = NewSubOrder(o, uuid.New(), []OrderItem{*item}, amount)
	assert.Error(t, err)
}

func TestSubOrder_UpdateDeliveryStatus_RequiresPayment(t *testing.T) {
	so := createTestSubOrder(t)

	err := so.UpdateDeliveryStatus(DeliveryStatusReadyToShip)
	require.Error(t, err, "unpaid sub-order cannot progress fulfillment")

	require.NoError(t, so.MarkPaid())
	require.NoError(t, so.UpdateDeliveryStatus(DeliveryStatusReadyToShip))
	assert.Equal(t, DeliveryStatusReadyToShip, so.DeliveryStatus)
}

func TestSubOrder_UpdateDeliveryStatus_ForwardOnly(t *testing.T) {
	so := createTestSubOrder(t)
	require.NoError(t, so.MarkPaid())

	// Skipping a step is rejected at the sub-order level
	assert.Error(t, so.UpdateDeliveryStatus(DeliveryStatusShipped))

	require.NoError(t, so.UpdateDeliveryStatus(DeliveryStatusReadyToShip))
	so.ClearDomainEvents()
	require.NoError(t, so.UpdateDeliveryStatus(DeliveryStatusShipped))
	require.NotNil(t, so.ShippedAt)
	require.Len(t, so.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeSubOrderShipped, so.GetDomainEvents()[0].EventType())

	assert.Error(t, so.UpdateDeliveryStatus(DeliveryStatusReadyToShip))

	require.NoError(t, so.UpdateDeliveryStatus(DeliveryStatusDelivered))
	require.NotNil(t, so.DeliveredAt)

	assert.Error(t, so.UpdateDeliveryStatus(DeliveryStatus("BOGUS")))
}

func TestSubOrder_MarkPaid_Idempotent(t *testing.T) {
	so := createTestSubOrder(t)
	require.NoError(t, so.MarkPaid())
	require.NoError(t, so.MarkPaid())
	assert.Equal(t, PaymentStatusPaid, so.Status)
}

func TestConsensusDeliveryStatus(t *testing.T) {
	a := createTestSubOrder(t)
	b := createTestSubOrder(t)
	require.NoError(t, a.MarkPaid())
	require.NoError(t, b.MarkPaid())

	status, ok := ConsensusDeliveryStatus([]SubOrder{*a, *b})
	require.True(t, ok)
	assert.Equal(t, DeliveryStatusProcessing, status)

	// One vendor moves ahead: no consensus
	require.NoError(t, a.UpdateDeliveryStatus(DeliveryStatusReadyToShip))
	_, ok = ConsensusDeliveryStatus([]SubOrder{*a, *b})
	assert.False(t, ok)

	// The other catches up: consensus at the new status
	require.NoError(t, b.UpdateDeliveryStatus(DeliveryStatusReadyToShip))
	status, ok = ConsensusDeliveryStatus([]SubOrder{*a, *b})
	require.True(t, ok)
	assert.Equal(t, DeliveryStatusReadyToShip, status)

	_, ok = ConsensusDeliveryStatus(nil)
	assert.False(t, ok)
}
