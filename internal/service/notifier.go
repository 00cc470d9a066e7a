package service

import "go-pos-checkout/internal/ws"

// Notifier receives events after their unit of work has committed.
type Notifier interface {
	Publish(e ws.Event)
}

type noopNotifier struct{}

func (noopNotifier) Publish(ws.Event) {}

const (
	EventSaleCompleted = "sale_completed"
	EventStockUpdate   = "stock_update"
	EventLowStock      = "low_stock"
)
