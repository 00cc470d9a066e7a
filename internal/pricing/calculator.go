// Package pricing derives sale totals from cart lines. It has no side effects:
// identical input always produces identical output.
package pricing

import (
	"fmt"

	"go-pos-checkout/internal/apperror"
	"go-pos-checkout/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the VAT rate applied when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.12")

var (
	hundred = decimal.NewFromInt(100)

	ErrDiscountOutOfRange = apperror.Invalid("discount_percentage", "discount percentage must be between 0 and 100")
)

// Totals is the priced view of a cart.
type Totals struct {
	SubTotal           decimal.Decimal `json:"sub_total"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	Total              decimal.Decimal `json:"total"`
}

// Change is tendered − total. A negative result means the tender is short.
func (t Totals) Change(tendered decimal.Decimal) decimal.Decimal {
	return tendered.Sub(t.Total)
}

type Calculator struct {
	taxRate decimal.Decimal
}

// NewCalculator returns a calculator applying taxRate, which must lie in [0, 1).
func NewCalculator(taxRate decimal.Decimal) (*Calculator, error) {
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("tax rate %s out of range [0, 1)", taxRate)
	}
	return &Calculator{taxRate: taxRate}, nil
}

func (c *Calculator) TaxRate() decimal.Decimal { return c.taxRate }

// Calculate prices lines with a sale-level percentage discount.
//
// The subtotal sums each line's own total, which is already net of the line
// discount; the percentage discount then applies on top of that subtotal.
func (c *Calculator) Calculate(lines []model.CartLine, discountPct decimal.Decimal) (Totals, error) {
	if discountPct.IsNegative() || discountPct.GreaterThan(hundred) {
		return Totals{}, ErrDiscountOutOfRange
	}

	subTotal := decimal.Zero
	for _, line := range lines {
		subTotal = subTotal.Add(line.LineTotal())
	}

	// Shift(-2) divides by 100 without the rounding Div would apply.
	discountAmount := subTotal.Mul(discountPct.Shift(-2))
	afterDiscount := subTotal.Sub(discountAmount)
	taxAmount := afterDiscount.Mul(c.taxRate)

	return Totals{
		SubTotal:           subTotal,
		DiscountPercentage: discountPct,
		DiscountAmount:     discountAmount,
		TaxRate:            c.taxRate,
		TaxAmount:          taxAmount,
		Total:              afterDiscount.Add(taxAmount),
	}, nil
}
