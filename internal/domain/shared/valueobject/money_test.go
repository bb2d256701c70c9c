package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney_RejectsCurrencyMismatchOps(t *testing.T) {
	ngn := NewMoneyNGN(decimal.NewFromInt(100))
	usd, err := NewMoney(decimal.NewFromInt(100), USD)
	require.NoError(t, err)

	_, err = ngn.Add(usd)
	assert.Error(t, err)

	_, err = ngn.Subtract(usd)
	assert.Error(t, err)

	_, err = ngn.LessThan(usd)
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyNGN(decimal.NewFromInt(1500))
	b := NewMoneyNGN(decimal.NewFromInt(500))

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(2000)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(1000)))

	triple := b.MultiplyByInt(3)
	assert.True(t, triple.Amount().Equal(decimal.NewFromInt(1500)))

	_, err = a.Divide(decimal.Zero)
	assert.Error(t, err)
}

func TestMoney_Kobo(t *testing.T) {
	tests := []struct {
		amount string
		kobo   int64
	}{
		{"0", 0},
		{"1", 100},
		{"10.50", 1050},
		{"10.505", 1051}, // rounds to nearest kobo
		{"10.504", 1050},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			m, err := NewMoneyNGNFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.kobo, m.Kobo())
		})
	}
}

func TestNewMoneyNGNFromKobo_RoundTrips(t *testing.T) {
	m := NewMoneyNGNFromKobo(1050)
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, int64(1050), m.Kobo())
	assert.Equal(t, NGN, m.Currency())
}

func TestMoney_CalculatePercentage(t *testing.T) {
	m := NewMoneyNGN(decimal.NewFromInt(10000))
	vat := m.CalculatePercentage(decimal.NewFromInt(7)).Round(2)
	assert.True(t, vat.Amount().Equal(decimal.NewFromInt(700)))
}

func TestMoney_AllocateByWeights(t *testing.T) {
	m := NewMoneyNGN(decimal.RequireFromString("100.00"))

	shares, err := m.AllocateByWeights([]decimal.Decimal{
		decimal.NewFromInt(1),
		decimal.NewFromInt(1),
		decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	require.Len(t, shares, 3)

	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount())
	}
	assert.True(t, total.Equal(m.Amount()), "shares must sum to the original amount, got %s", total)
}

func TestMoney_AllocateByWeights_RemainderToLargestShare(t *testing.T) {
	m := NewMoneyNGN(decimal.RequireFromString("0.05"))

	shares, err := m.AllocateByWeights([]decimal.Decimal{
		decimal.NewFromInt(1),
		decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	// 0.05 * 1/3 truncates to 0.01; the leftover kobo lands on the larger weight
	assert.True(t, shares[0].Amount().Equal(decimal.RequireFromString("0.01")))
	assert.True(t, shares[1].Amount().Equal(decimal.RequireFromString("0.04")))
}

func TestMoney_AllocateByWeights_Validation(t *testing.T) {
	m := NewMoneyNGN(decimal.NewFromInt(100))

	_, err := m.AllocateByWeights(nil)
	assert.Error(t, err)

	_, err = m.AllocateByWeights([]decimal.Decimal{decimal.NewFromInt(-1), decimal.NewFromInt(2)})
	assert.Error(t, err)

	_, err = m.AllocateByWeights([]decimal.Decimal{decimal.Zero, decimal.Zero})
	assert.Error(t, err)
}
