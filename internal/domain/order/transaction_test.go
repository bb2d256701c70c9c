package order

import (
	"testing"

	"github.com/markethub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTransaction(t *testing.T) *Transaction {
	reference, err := GenerateReference()
	require.NoError(t, err)

	txn, err := NewTransaction(reference, "PAYSTACK",
		valueobject.NewMoneyNGN(decimal.NewFromInt(10700)),
		valueobject.NewMoneyNGN(decimal.NewFromInt(10000)),
		valueobject.NewMoneyNGN(decimal.Zero),
		valueobject.NewMoneyNGN(decimal.NewFromInt(700)),
	)
	require.NoError(t, err)
	return txn
}

func TestNewTransaction(t *testing.T) {
	txn := createTestTransaction(t)

	assert.Equal(t, TransactionStatusPending, txn.Status)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(10700)))
	assert.Empty(t, txn.PaymentReference)
	assert.Nil(t, txn.SettledAt)
}

func TestNewTransaction_Validation(t *testing.T) {
	amount := valueobject.NewMoneyNGN(decimal.NewFromInt(100))

	_, err := NewTransaction("short", "PAYSTACK", amount, amount, amount, amount)
	assert.Error(t, err)

	ref, _ := GenerateReference()
	_, err = NewTransaction(ref, "", amount, amount, amount, amount)
	assert.Error(t, err)

	_, err = NewTransaction(ref, "PAYSTACK", valueobject.NewMoneyNGN(decimal.NewFromInt(-1)), amount, amount, amount)
	assert.Error(t, err)
}

func TestTransaction_MarkSuccessful(t *testing.T) {
	txn := createTestTransaction(t)

	require.NoError(t, txn.MarkSuccessful("provider-ref-1"))
	assert.Equal(t, TransactionStatusSuccessful, txn.Status)
	assert.Equal(t, "provider-ref-1", txn.PaymentReference)
	require.NotNil(t, txn.SettledAt)

	// Redelivery keeps the original provider reference
	require.NoError(t, txn.MarkSuccessful("provider-ref-2"))
	assert.Equal(t, "provider-ref-1", txn.PaymentReference)
}

func TestTransaction_MarkFailed(t *testing.T) {
	txn := createTestTransaction(t)

	require.NoError(t, txn.MarkFailed())
	assert.Equal(t, TransactionStatusFailed, txn.Status)
	require.NoError(t, txn.MarkFailed())

	// FAILED never becomes SUCCESSFUL
	assert.Error(t, txn.MarkSuccessful("late-ref"))
}

func TestTransaction_SettledNeverFails(t *testing.T) {
	txn := createTestTransaction(t)
	require.NoError(t, txn.MarkSuccessful("ref"))
	assert.Error(t, txn.MarkFailed())
}
