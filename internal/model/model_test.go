package model

import (
	"testing"

	"go-pos-checkout/internal/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCartLine_Validate(t *testing.T) {
	ok := CartLine{ProductID: 1, Quantity: 2, UnitPrice: d("3.50"), Discount: d("1")}
	require.NoError(t, ok.Validate(0))
	assert.True(t, d("6").Equal(ok.LineTotal()))

	cases := map[string]CartLine{
		"lines[3].product_id": {Quantity: 1, UnitPrice: d("1")},
		"lines[3].unit_price": {ProductID: 1, Quantity: 1, UnitPrice: d("-1")},
		"lines[3].quantity":   {ProductID: 1, Quantity: 0, UnitPrice: d("1")},
		"lines[3].discount":   {ProductID: 1, Quantity: 1, UnitPrice: d("1"), Discount: d("-0.01")},
		"lines[3].total":      {ProductID: 1, Quantity: 1, UnitPrice: d("1"), Discount: d("1.5")},
	}
	for field, l := range cases {
		err := l.Validate(3)
		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr, field)
		assert.Equal(t, field, verr.Field)
	}
}

func TestSaleLine_SnapshotAndTotal(t *testing.T) {
	line := NewSaleLine(2, CartLine{ProductID: 9, Quantity: 3, UnitPrice: d("2.25"), Discount: d("0.75")})
	line.Snapshot(&Product{ID: 9, Name: "Soap", Barcode: "S-9", Cost: d("1.10")})

	assert.Equal(t, 2, line.LineNo)
	assert.Equal(t, "Soap", line.ProductName)
	assert.Equal(t, "S-9", line.ProductBarcode)
	assert.True(t, d("1.10").Equal(line.UnitCost))
	assert.True(t, d("6").Equal(line.Total))
}

func TestSale_Identifiers(t *testing.T) {
	s := &Sale{ID: 42}
	assert.Equal(t, "SALE-000042", s.ReceiptNumber())
	assert.Equal(t, "Sale #42", s.StockReason())
}

func TestProduct_StockAndMargin(t *testing.T) {
	p := &Product{Price: d("15"), Cost: d("10"), Stock: 3, ReorderLevel: 3}
	assert.True(t, p.IsLowStock())
	assert.True(t, d("5").Equal(p.Profit()))
	assert.True(t, d("50").Equal(p.ProfitMargin()))

	p.Stock = 4
	p.Cost = decimal.Zero
	assert.False(t, p.IsLowStock())
	assert.True(t, p.ProfitMargin().IsZero())
}

func TestUser_Password(t *testing.T) {
	u := &User{FullName: "Ana", Privileges: []Privilege{{Code: PrivSaleCreate}}}
	require.NoError(t, u.SetPassword("hunter22"))
	assert.True(t, u.CheckPassword("hunter22"))
	assert.False(t, u.CheckPassword("hunter23"))
	assert.Equal(t, []string{PrivSaleCreate}, u.ToResponse().Privileges)
	assert.Equal(t, "Ana", u.Principal().Name)
}
