package model

import (
	"fmt"
	"time"

	"go-pos-checkout/internal/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common payment methods. Any non-blank method is accepted.
const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentTransfer = "TRANSFER"
)

// CartLine is one entry of an in-progress cart. It is never persisted; the
// checkout turns it into a SaleLine.
type CartLine struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// LineTotal is unitPrice × quantity − discount.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Sub(l.Discount)
}

// Validate checks the per-line invariants. index is zero based.
func (l CartLine) Validate(index int) error {
	field := func(name string) string { return fmt.Sprintf("lines[%d].%s", index, name) }

	switch {
	case l.ProductID == 0:
		return apperror.Invalid(field("product_id"), "invalid product ID")
	case !l.UnitPrice.IsPositive():
		return apperror.Invalid(field("unit_price"), "unit price must be greater than zero")
	case l.Quantity <= 0:
		return apperror.Invalid(field("quantity"), "quantity must be greater than zero")
	case l.Discount.IsNegative():
		return apperror.Invalid(field("discount"), "discount cannot be negative")
	case !l.LineTotal().IsPositive():
		return apperror.Invalid(field("total"), "line total must be greater than zero")
	}
	return nil
}

// Sale amounts are stored unscaled so the persisted header keeps
// total = (sub_total - discount_amount) * (1 + tax_rate) exactly.
type Sale struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	SaleDate           time.Time       `gorm:"not null;index" json:"sale_date"`
	CashierID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CashierName        string          `gorm:"type:varchar(255)" json:"cashier_name"`
	SubTotal           decimal.Decimal `gorm:"type:numeric;not null" json:"sub_total"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric;not null" json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric;not null" json:"discount_amount"`
	TaxRate            decimal.Decimal `gorm:"type:numeric;not null" json:"tax_rate"`
	TaxAmount          decimal.Decimal `gorm:"type:numeric;not null" json:"tax_amount"`
	TotalAmount        decimal.Decimal `gorm:"type:numeric;not null" json:"total_amount"`
	AmountTendered     decimal.Decimal `gorm:"type:numeric;not null" json:"amount_tendered"`
	Change             decimal.Decimal `gorm:"type:numeric;not null" json:"change"`
	PaymentMethod      string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	ReferenceNumber    string          `gorm:"type:varchar(50)" json:"reference_number"`
	Notes              string          `gorm:"type:varchar(500)" json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`

	Lines []SaleLine `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"lines"`
}

func (s *Sale) ReceiptNumber() string {
	return fmt.Sprintf("SALE-%06d", s.ID)
}

// StockReason is the ledger reason recorded for the sale's decrements.
func (s *Sale) StockReason() string {
	return fmt.Sprintf("Sale #%d", s.ID)
}

// SaleLine is a committed line of a sale. ProductName, ProductBarcode and
// UnitCost are copies taken at sale time so later catalog edits never change a
// receipt or its margin.
type SaleLine struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	SaleID         uint            `gorm:"not null;index" json:"sale_id"`
	LineNo         int             `gorm:"not null" json:"line_no"`
	ProductID      uint            `gorm:"not null;index" json:"product_id"`
	ProductName    string          `gorm:"type:varchar(100);not null" json:"product_name"`
	ProductBarcode string          `gorm:"type:varchar(50);not null" json:"product_barcode"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	UnitCost       decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"unit_cost"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	Discount       decimal.Decimal `gorm:"type:numeric;not null" json:"discount"`
	Total          decimal.Decimal `gorm:"type:numeric;not null" json:"total"`
}

func (l *SaleLine) CalculateTotal() {
	l.Total = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Sub(l.Discount)
}

// NewSaleLine copies a cart line into a sale line at position lineNo.
func NewSaleLine(lineNo int, cl CartLine) SaleLine {
	line := SaleLine{
		LineNo:    lineNo,
		ProductID: cl.ProductID,
		UnitPrice: cl.UnitPrice,
		Quantity:  cl.Quantity,
		Discount:  cl.Discount,
	}
	line.CalculateTotal()
	return line
}

// Snapshot records the product identity as it is at sale time.
func (l *SaleLine) Snapshot(p *Product) {
	l.ProductName = p.Name
	l.ProductBarcode = p.Barcode
	l.UnitCost = p.Cost
}
