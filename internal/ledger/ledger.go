// Package ledger owns every change to product stock. Each change is made under
// the product's row lock and leaves exactly one StockAdjustment row behind.
package ledger

import (
	"fmt"
	"unicode/utf8"

	"go-pos-checkout/internal/apperror"
	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/repository"
	"go-pos-checkout/pkg/clock"
)

// MaxReasonLength matches the width of stock_adjustments.reason.
const MaxReasonLength = 500

type Request struct {
	ProductID uint
	Quantity  int
	Direction model.AdjustmentDirection
	Reason    string
	Actor     model.Principal
}

func (r Request) validate() error {
	switch {
	case r.ProductID == 0:
		return apperror.Invalid("product_id", "invalid product ID")
	case r.Quantity <= 0:
		return apperror.Invalid("quantity", "quantity must be greater than zero")
	case !r.Direction.Valid():
		return apperror.Invalid("direction", fmt.Sprintf("unknown direction %q", r.Direction))
	case utf8.RuneCountInString(r.Reason) > MaxReasonLength:
		return apperror.Invalid("reason", fmt.Sprintf("reason must be at most %d characters", MaxReasonLength))
	}
	return nil
}

// Result describes an applied adjustment.
type Result struct {
	Product     *model.Product
	StockBefore int
	StockAfter  int
}

type Ledger struct {
	clock clock.Clock
}

func New(c clock.Clock) *Ledger {
	if c == nil {
		c = clock.Real()
	}
	return &Ledger{clock: c}
}

// Adjust applies req inside uow. A decrease that would take stock below zero
// fails with an InsufficientStockError and writes nothing. Commit and rollback
// are left to the caller.
func (l *Ledger) Adjust(uow repository.UnitOfWork, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	product, err := uow.ProductForUpdate(req.ProductID)
	if err != nil {
		return nil, err
	}

	before := product.Stock
	after := before + req.Quantity
	if req.Direction == model.StockOut {
		after = before - req.Quantity
		if after < 0 {
			return nil, &apperror.InsufficientStockError{
				ProductID: req.ProductID,
				Requested: req.Quantity,
				Available: before,
			}
		}
	}

	now := l.clock.Now()
	if err := uow.UpdateStock(product.ID, after, req.Actor.Name, now); err != nil {
		return nil, err
	}

	err = uow.AppendAdjustment(&model.StockAdjustment{
		ProductID:   product.ID,
		Direction:   req.Direction,
		Quantity:    req.Quantity,
		StockBefore: before,
		StockAfter:  after,
		Reason:      req.Reason,
		ActorID:     req.Actor.ID,
		ActorName:   req.Actor.Name,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	product.Stock = after
	product.UpdatedAt = now
	return &Result{Product: product, StockBefore: before, StockAfter: after}, nil
}
