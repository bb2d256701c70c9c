package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrder(t *testing.T) *Order {
	reference, err := GenerateReference()
	require.NoError(t, err)

	o, err := NewOrder(reference, uuid.New(), "HYDROGENPAY", "STANDARD",
		Address{Street: "12 Broad Street", City: "Lagos", Country: "NG"},
		PersonalInfo{Name: "Ada Obi", Email: "ada@example.com"},
	)
	require.NoError(t, err)
	return o
}

func addTestItem(t *testing.T, o *Order, vendorID uuid.UUID, quantity int, price float64) *OrderItem {
	item, err := o.AddItem(uuid.New(), vendorID, quantity, valueobject.NewMoneyNGN(decimal.NewFromFloat(price)), decimal.Zero)
	require.NoError(t, err)
	return item
}

func TestGenerateReference(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ref, err := GenerateReference()
		require.NoError(t, err)
		assert.Len(t, ref, ReferenceLength)
		for _, r := range ref {
			assert.Contains(t, referenceAlphabet, string(r))
		}
		seen[ref] = struct{}{}
	}
	assert.Len(t, seen, 100, "references must not collide")
}

func TestNewOrder(t *testing.T) {
	o := createTestOrder(t)

	assert.Equal(t, PaymentStatusPending, o.Status)
	assert.Equal(t, DeliveryStatusProcessing, o.DeliveryStatus)
	assert.Empty(t, o.Items)
	assert.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOrderCreated, o.GetDomainEvents()[0].EventType())
}

func TestNewOrder_Validation(t *testing.T) {
	addr := Address{City: "Lagos"}
	info := PersonalInfo{Name: "Ada Obi"}

	_, err := NewOrder("tooshort", uuid.New(), "PAYSTACK", "STANDARD", addr, info)
	assert.Error(t, err, "reference below the minimum length must be rejected")

	ref, _ := GenerateReference()
	_, err = NewOrder(ref, uuid.Nil, "PAYSTACK", "STANDARD", addr, info)
	assert.Error(t, err)

	_, err = NewOrder(ref, uuid.New(), "", "STANDARD", addr, info)
	assert.Error(t, err)
}

func TestOrder_AddItem(t *testing.T) {
	o := createTestOrder(t)
	vendorID := uuid.New()

	item := addTestItem(t, o, vendorID, 3, 1500)
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(4500)))
	assert.Len(t, o.Items, 1)

	// Same product twice is rejected
	_, err := o.AddItem(item.ProductID, vendorID, 1, valueobject.NewMoneyNGN(decimal.NewFromInt(1500)), decimal.Zero)
	assert.Error(t, err)

	// Items are frozen once the order leaves checkout
	require.NoError(t, o.MarkPaid())
	_, err = o.AddItem(uuid.New(), vendorID, 1, valueobject.NewMoneyNGN(decimal.NewFromInt(100)), decimal.Zero)
	assert.Error(t, err)
}

func TestOrder_AddItem_Discount(t *testing.T) {
	o := createTestOrder(t)

	item, err := o.AddItem(uuid.New(), uuid.New(), 2, valueobject.NewMoneyNGN(decimal.NewFromInt(1000)), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(1800)), "10%% off 2000, got %s", item.Amount)

	_, err = o.AddItem(uuid.New(), uuid.New(), 1, valueobject.NewMoneyNGN(decimal.NewFromInt(1000)), decimal.NewFromInt(101))
	assert.Error(t, err)
}

func TestOrder_MarkPaid_Idempotent(t *testing.T) {
	o := createTestOrder(t)

	require.NoError(t, o.MarkPaid())
	require.NotNil(t, o.PaidAt)
	firstPaidAt := *o.PaidAt

	// Redelivered webhook: second call is a no-op
	require.NoError(t, o.MarkPaid())
	assert.Equal(t, firstPaidAt, *o.PaidAt)
	assert.Equal(t, PaymentStatusPaid, o.Status)
}

func TestOrder_PaymentLifecycle(t *testing.T) {
	o := createTestOrder(t)

	require.NoError(t, o.MarkPaid())
	require.NoError(t, o.Confirm())
	assert.Equal(t, PaymentStatusConfirmed, o.Status)

	// Terminal: no further transitions
	assert.Error(t, o.Decline())
	assert.Error(t, o.MarkFailed())
}

func TestOrder_Decline_RequiresValidTransition(t *testing.T) {
	o := createTestOrder(t)
	require.NoError(t, o.Decline())
	assert.Equal(t, PaymentStatusDeclined, o.Status)

	assert.Error(t, o.MarkPaid())
}

func TestOrder_SetAmounts(t *testing.T) {
	o := createTestOrder(t)

	err := o.SetAmounts(
		valueobject.NewMoneyNGN(decimal.NewFromInt(10700)),
		valueobject.NewMoneyNGN(decimal.NewFromInt(700)),
		valueobject.NewMoneyNGN(decimal.NewFromInt(500)),
		valueobject.NewMoneyNGN(decimal.Zero),
	)
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(10700)))

	err = o.SetAmounts(
		valueobject.NewMoneyNGN(decimal.NewFromInt(-1)),
		valueobject.NewMoneyNGN(decimal.Zero),
		valueobject.NewMoneyNGN(decimal.Zero),
		valueobject.NewMoneyNGN(decimal.Zero),
	)
	assert.Error(t, err)
}

func TestOrder_ApplyConsensusDeliveryStatus(t *testing.T) {
	o := createTestOrder(t)

	// Multi-step forward jump is allowed for the aggregate
	require.NoError(t, o.ApplyConsensusDeliveryStatus(DeliveryStatusShipped))
	assert.Equal(t, DeliveryStatusShipped, o.DeliveryStatus)

	// Same status again is a no-op
	require.NoError(t, o.ApplyConsensusDeliveryStatus(DeliveryStatusShipped))

	// Backward movement is rejected
	assert.Error(t, o.ApplyConsensusDeliveryStatus(DeliveryStatusProcessing))

	o.ClearDomainEvents()
	require.NoError(t, o.ApplyConsensusDeliveryStatus(DeliveryStatusDelivered))
	require.NotNil(t, o.DeliveredAt)
	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOrderDelivered, o.GetDomainEvents()[0].EventType())
}

func TestOrder_VendorIDs(t *testing.T) {
	o := createTestOrder(t)
	vendorA := uuid.New()
	vendorB := uuid.New()

	addTestItem(t, o, vendorA, 1, 1000)
	addTestItem(t, o, vendorB, 2, 500)
	addTestItem(t, o, vendorA, 1, 250)

	ids := o.VendorIDs()
	require.Len(t, ids, 2)
	assert.Equal(t, vendorA, ids[0])
	assert.Equal(t, vendorB, ids[1])

	assert.Len(t, o.ItemsForVendor(vendorA), 2)
	assert.Len(t, o.ItemsForVendor(vendorB), 1)
	assert.Empty(t, o.ItemsForVendor(uuid.New()))
}
