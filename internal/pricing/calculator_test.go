package pricing

import (
	"testing"

	"go-pos-checkout/internal/apperror"
	"go-pos-checkout/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newCalc(t *testing.T) *Calculator {
	t.Helper()
	c, err := NewCalculator(DefaultTaxRate)
	require.NoError(t, err)
	return c
}

func assertDecEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	calc := newCalc(t)
	lines := []model.CartLine{
		{ProductID: 1, UnitPrice: dec("10.00"), Quantity: 2, Discount: decimal.Zero},
		{ProductID: 2, UnitPrice: dec("5.00"), Quantity: 1, Discount: dec("1.00")},
	}

	totals, err := calc.Calculate(lines, dec("10"))
	require.NoError(t, err)

	assertDecEqual(t, "24.00", totals.SubTotal)
	assertDecEqual(t, "2.40", totals.DiscountAmount)
	assertDecEqual(t, "2.592", totals.TaxAmount)
	assertDecEqual(t, "24.192", totals.Total)
	assertDecEqual(t, "0.12", totals.TaxRate)
	assertDecEqual(t, "0.808", totals.Change(dec("25")))
}

func TestCalculate_TotalIdentity(t *testing.T) {
	calc := newCalc(t)
	carts := [][]model.CartLine{
		{{ProductID: 1, UnitPrice: dec("0.01"), Quantity: 1}},
		{{ProductID: 1, UnitPrice: dec("19.99"), Quantity: 3, Discount: dec("0.97")}},
		{
			{ProductID: 1, UnitPrice: dec("7.35"), Quantity: 4},
			{ProductID: 2, UnitPrice: dec("120.50"), Quantity: 1, Discount: dec("20.50")},
			{ProductID: 3, UnitPrice: dec("0.33"), Quantity: 9},
		},
	}
	discounts := []string{"0", "0.5", "10", "33.33", "99.99", "100"}
	taxFactor := decimal.NewFromInt(1).Add(DefaultTaxRate)

	for _, lines := range carts {
		for _, d := range discounts {
			totals, err := calc.Calculate(lines, dec(d))
			require.NoError(t, err)

			expectedDiscount := totals.SubTotal.Mul(dec(d)).Div(decimal.NewFromInt(100))
			assert.Truef(t, expectedDiscount.Equal(totals.DiscountAmount),
				"discount %s: want %s got %s", d, expectedDiscount, totals.DiscountAmount)

			expectedTotal := totals.SubTotal.Sub(totals.DiscountAmount).Mul(taxFactor)
			assert.Truef(t, expectedTotal.Equal(totals.Total),
				"discount %s: want %s got %s", d, expectedTotal, totals.Total)
		}
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	calc := newCalc(t)
	lines := []model.CartLine{
		{ProductID: 1, UnitPrice: dec("3.10"), Quantity: 7, Discount: dec("0.70")},
		{ProductID: 9, UnitPrice: dec("11.00"), Quantity: 2},
	}

	first, err := calc.Calculate(lines, dec("12.5"))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := calc.Calculate(lines, dec("12.5"))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCalculate_EmptyCart(t *testing.T) {
	totals, err := newCalc(t).Calculate(nil, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.SubTotal.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestCalculate_RejectsDiscountOutOfRange(t *testing.T) {
	calc := newCalc(t)
	lines := []model.CartLine{{ProductID: 1, UnitPrice: dec("1"), Quantity: 1}}

	for _, d := range []string{"-0.01", "100.01", "250"} {
		_, err := calc.Calculate(lines, dec(d))
		require.Error(t, err, d)
		assert.ErrorIs(t, err, ErrDiscountOutOfRange)
		assert.True(t, apperror.IsValidation(err))
	}
}

func TestCalculate_ChangeMayBeNegative(t *testing.T) {
	totals, err := newCalc(t).Calculate([]model.CartLine{{ProductID: 1, UnitPrice: dec("10"), Quantity: 1}}, decimal.Zero)
	require.NoError(t, err)
	assertDecEqual(t, "-1.20", totals.Change(dec("10")))
}

func TestCalculate_ConfigurableTaxRate(t *testing.T) {
	calc, err := NewCalculator(dec("0.07"))
	require.NoError(t, err)

	totals, err := calc.Calculate([]model.CartLine{{ProductID: 1, UnitPrice: dec("100"), Quantity: 1}}, dec("50"))
	require.NoError(t, err)
	assertDecEqual(t, "3.5", totals.TaxAmount)
	assertDecEqual(t, "53.5", totals.Total)
}

func TestNewCalculator_RejectsBadRates(t *testing.T) {
	for _, r := range []string{"-0.01", "1", "1.5"} {
		_, err := NewCalculator(dec(r))
		assert.Error(t, err, r)
	}
}
