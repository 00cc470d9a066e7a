package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Barcode      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"barcode" validate:"required,max=50"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Description  string          `gorm:"type:varchar(500)" json:"description" validate:"max=500"`
	Category     string          `gorm:"type:varchar(50)" json:"category" validate:"max=50"`
	Unit         string          `gorm:"type:varchar(20)" json:"unit" validate:"max=20"`
	Price        decimal.Decimal `gorm:"type:decimal(19,4);not null" json:"price" validate:"decimal_positive"`
	Cost         decimal.Decimal `gorm:"type:decimal(19,4);not null" json:"cost" validate:"decimal_gte0"`
	Stock        int             `gorm:"not null;default:0;check:chk_products_stock,stock >= 0" json:"stock" validate:"gte=0"`
	ReorderLevel int             `gorm:"not null;default:0" json:"reorder_level" validate:"gte=0"`
	IsActive     bool            `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CreatedBy    string          `gorm:"type:varchar(255)" json:"created_by"`
	UpdatedBy    string          `gorm:"type:varchar(255)" json:"updated_by"`
}

// IsLowStock holds once stock has fallen to the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.ReorderLevel
}

func (p *Product) Profit() decimal.Decimal {
	return p.Price.Sub(p.Cost)
}

// ProfitMargin is the profit as a percentage of cost, zero when cost is zero.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.Cost.IsZero() {
		return decimal.Zero
	}
	return p.Profit().Div(p.Cost).Mul(decimal.NewFromInt(100))
}
