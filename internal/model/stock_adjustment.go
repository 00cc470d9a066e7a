package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdjustmentDirection string

const (
	StockIn  AdjustmentDirection = "IN"
	StockOut AdjustmentDirection = "OUT"
)

func (d AdjustmentDirection) Valid() bool {
	return d == StockIn || d == StockOut
}

// StockAdjustment is one append-only audit row of the stock ledger.
// Rows are only ever inserted; nothing updates or deletes them.
type StockAdjustment struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   uint                `gorm:"not null;index" json:"product_id"`
	Product     *Product            `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Direction   AdjustmentDirection `gorm:"type:varchar(10);not null" json:"direction"`
	Quantity    int                 `gorm:"not null" json:"quantity"`
	StockBefore int                 `gorm:"not null" json:"stock_before"`
	StockAfter  int                 `gorm:"not null;check:chk_stock_adjustments_after,stock_after >= 0" json:"stock_after"`
	Reason      string              `gorm:"type:varchar(500)" json:"reason"`
	ActorID     uuid.UUID           `gorm:"type:uuid;index" json:"actor_id"`
	ActorName   string              `gorm:"type:varchar(255)" json:"actor_name"`
	CreatedAt   time.Time           `gorm:"not null;index" json:"created_at"`
}

func (a *StockAdjustment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
