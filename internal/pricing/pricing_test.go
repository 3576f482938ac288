package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
)

func TestPriceForTierBoundaries(t *testing.T) {
	tests := []struct {
		quantity int
		want     string
	}{
		{0, "1.99"},
		{1, "1.99"},
		{5, "1.99"},
		{99, "1.99"},
		{100, "1.89"},
		{499, "1.89"},
		{500, "1.69"},
		{999, "1.69"},
		{1000, "1.49"},
		{4999, "1.49"},
		{5000, "0.99"},
		{100000, "0.99"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceFor(tt.quantity).String(), "quantity %d", tt.quantity)
	}
}

func TestQuoteTotalIsDerived(t *testing.T) {
	for _, quantity := range []int{5, 99, 100, 500, 1234, 5000} {
		q := QuoteFor(quantity)
		want := q.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
		assert.True(t, q.Total.Equal(want), "quantity %d: want %s got %s", quantity, want, q.Total)
	}
}

func TestMinimumBundleTotal(t *testing.T) {
	q := QuoteFor(5)
	assert.Equal(t, "9.95", q.Total.String())
	require.NoError(t, ValidateQuantity(5))
}

func TestValidateQuantityRejectsBelowMinimum(t *testing.T) {
	err := ValidateQuantity(3)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok, "details: %#v", typed.Details())
	assert.NotEmpty(t, details["quantity"])
}

func TestValidateQuantityMinTotalIsIndependentGate(t *testing.T) {
	q := QuoteFor(MinQuantity)
	assert.False(t, q.Total.LessThan(MinTotal), "minimum bundle must clear the total floor")
	require.NoError(t, ValidateQuantity(MinQuantity))
}

func TestParseQuantityDefaultsToMinimum(t *testing.T) {
	assert.Equal(t, MinQuantity, ParseQuantity("abc"))
	assert.Equal(t, MinQuantity, ParseQuantity(""))
	assert.Equal(t, 42, ParseQuantity(" 42 "))
	// parse does not clamp; validation owns the minimum gate
	assert.Equal(t, 3, ParseQuantity("3"))
}

func TestTiersReturnsCopy(t *testing.T) {
	out := Tiers()
	require.Len(t, out, 5)

	out[0].MinQuantity = 999
	assert.Equal(t, 1, Tiers()[0].MinQuantity, "mutating the returned slice must not touch the table")

	prev := 0
	for _, tier := range Tiers() {
		assert.Greater(t, tier.MinQuantity, prev, "tiers must be sorted ascending")
		prev = tier.MinQuantity
	}
}
