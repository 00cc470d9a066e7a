package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go-pos-checkout/internal/apperror"
	"go-pos-checkout/internal/ledger"
	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/pricing"
	"go-pos-checkout/internal/repository"
	"go-pos-checkout/internal/ws"
	"go-pos-checkout/pkg/clock"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "go-pos-checkout/internal/service"

// CheckoutRequest is a cart ready for payment.
type CheckoutRequest struct {
	Lines              []model.CartLine `json:"lines"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	AmountTendered     decimal.Decimal  `json:"amount_tendered"`
	PaymentMethod      string           `json:"payment_method"`
	ReferenceNumber    string           `json:"reference_number"`
	Notes              string           `json:"notes"`
}

// Quote is the priced cart shown before payment.
type Quote struct {
	pricing.Totals
	AmountTendered decimal.Decimal `json:"amount_tendered"`
	Change         decimal.Decimal `json:"change"`
}

type SaleService interface {
	ProcessSale(ctx context.Context, req *CheckoutRequest) (uint, error)
	QuoteSale(req *CheckoutRequest) (*Quote, error)
	GetSaleByID(id uint) (*model.Sale, error)
	GetSalesByDateRange(start, end time.Time) ([]model.Sale, error)
}

// SaleDeps wires a SaleService. Notifier, Clock, Logger, Tracer and Meter are
// optional.
type SaleDeps struct {
	Gateway    repository.Gateway
	Sales      repository.SaleRepository
	Calculator *pricing.Calculator
	Ledger     *ledger.Ledger
	Identity   IdentityProvider
	Notifier   Notifier
	Clock      clock.Clock
	Logger     *slog.Logger
	Tracer     trace.Tracer
	Meter      metric.Meter
}

type saleService struct {
	gw       repository.Gateway
	sales    repository.SaleRepository
	calc     *pricing.Calculator
	ledger   *ledger.Ledger
	identity IdentityProvider
	notifier Notifier
	clock    clock.Clock
	log      *slog.Logger
	tracer   trace.Tracer

	committed metric.Int64Counter
	aborted   metric.Int64Counter
}

func NewSaleService(d SaleDeps) (SaleService, error) {
	s := &saleService{
		gw:       d.Gateway,
		sales:    d.Sales,
		calc:     d.Calculator,
		ledger:   d.Ledger,
		identity: d.Identity,
		notifier: d.Notifier,
		clock:    d.Clock,
		log:      d.Logger,
		tracer:   d.Tracer,
	}
	if s.identity == nil {
		s.identity = ContextIdentity{}
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(instrumentationName)
	}
	if s.ledger == nil {
		s.ledger = ledger.New(s.clock)
	}

	meter := d.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	var err error
	if s.committed, err = meter.Int64Counter("pos.sales.committed",
		metric.WithDescription("Sales committed")); err != nil {
		return nil, err
	}
	if s.aborted, err = meter.Int64Counter("pos.sales.aborted",
		metric.WithDescription("Sales rolled back after persistence began")); err != nil {
		return nil, err
	}
	return s, nil
}

// stockChange is the last known state of a product touched by a sale.
type stockChange struct {
	product *model.Product
	before  int
}

// ProcessSale validates the cart and records the sale, its lines and the
// matching stock decrements in one unit of work. The returned id is only
// valid once everything has committed.
func (s *saleService) ProcessSale(ctx context.Context, req *CheckoutRequest) (uint, error) {
	ctx, span := s.tracer.Start(ctx, "SaleService.ProcessSale")
	defer span.End()

	cashier, totals, err := s.validate(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := s.clock.Now()
	sale := &model.Sale{
		SaleDate:           now,
		CashierID:          cashier.ID,
		CashierName:        cashier.Name,
		SubTotal:           totals.SubTotal,
		DiscountPercentage: totals.DiscountPercentage,
		DiscountAmount:     totals.DiscountAmount,
		TaxRate:            totals.TaxRate,
		TaxAmount:          totals.TaxAmount,
		TotalAmount:        totals.Total,
		AmountTendered:     req.AmountTendered,
		Change:             totals.Change(req.AmountTendered),
		PaymentMethod:      strings.TrimSpace(req.PaymentMethod),
		ReferenceNumber:    req.ReferenceNumber,
		Notes:              req.Notes,
		CreatedAt:          now,
	}

	changes := make(map[uint]*stockChange)
	var order []uint

	// Past this point the sale runs to commit or rollback regardless of the
	// caller going away.
	err = repository.Within(context.WithoutCancel(ctx), s.gw, func(uow repository.UnitOfWork) error {
		products, err := lockProducts(uow, req.Lines)
		if err != nil {
			return err
		}
		if err := uow.CreateSale(sale); err != nil {
			return err
		}

		for i, cl := range req.Lines {
			product := products[cl.ProductID]
			if !product.IsActive {
				return productInactive(fmt.Sprintf("lines[%d].product_id", i))
			}

			line := model.NewSaleLine(i+1, cl)
			line.SaleID = sale.ID
			line.Snapshot(product)
			if err := uow.CreateSaleLine(&line); err != nil {
				return err
			}
			sale.Lines = append(sale.Lines, line)
		}

		reason := sale.StockReason()
		for _, cl := range req.Lines {
			_, lspan := s.tracer.Start(ctx, "ledger.Adjust", trace.WithAttributes(
				attribute.Int64("product.id", int64(cl.ProductID)),
				attribute.Int("quantity", cl.Quantity),
			))
			res, err := s.ledger.Adjust(uow, ledger.Request{
				ProductID: cl.ProductID,
				Quantity:  cl.Quantity,
				Direction: model.StockOut,
				Reason:    reason,
				Actor:     cashier,
			})
			if err != nil {
				lspan.RecordError(err)
				lspan.End()
				return err
			}
			lspan.End()
			if c, ok := changes[cl.ProductID]; ok {
				c.product = res.Product
			} else {
				changes[cl.ProductID] = &stockChange{product: res.Product, before: res.StockBefore}
				order = append(order, cl.ProductID)
			}
		}
		return nil
	})
	if err != nil {
		s.aborted.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "sale aborted")
		s.log.Error("sale aborted",
			slog.String("cashier_id", cashier.ID.String()),
			slog.Int("lines", len(req.Lines)),
			slog.Any("error", err),
		)
		return 0, &apperror.TransactionAbortedError{Cause: err}
	}

	s.committed.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_method", sale.PaymentMethod)))
	span.SetAttributes(attribute.Int64("sale.id", int64(sale.ID)))
	s.log.Info("sale committed",
		slog.Uint64("sale_id", uint64(sale.ID)),
		slog.String("receipt", sale.ReceiptNumber()),
		slog.String("cashier", cashier.Name),
		slog.String("total", sale.TotalAmount.String()),
	)

	s.publishSale(sale, changes, order)
	return sale.ID, nil
}

// lockProducts takes the row lock of every distinct product in the cart in
// ascending id order, so checkouts sharing products always lock them in the
// same sequence and cannot deadlock each other.
func lockProducts(uow repository.UnitOfWork, lines []model.CartLine) (map[uint]*model.Product, error) {
	ids := make([]uint, 0, len(lines))
	for _, cl := range lines {
		ids = append(ids, cl.ProductID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	products := make(map[uint]*model.Product, len(ids))
	for _, id := range ids {
		product, err := uow.ProductForUpdate(id)
		if err != nil {
			return nil, err
		}
		products[id] = product
	}
	return products, nil
}

// validate runs every check that needs no storage, in a fixed order, and
// returns the first failure.
func (s *saleService) validate(ctx context.Context, req *CheckoutRequest) (model.Principal, pricing.Totals, error) {
	if req == nil || len(req.Lines) == 0 {
		return model.Principal{}, pricing.Totals{}, ErrEmptyCart
	}

	cashier, err := s.identity.Cashier(ctx)
	if err != nil {
		return model.Principal{}, pricing.Totals{}, ErrInvalidCashier
	}

	totals, err := s.price(req)
	if err != nil {
		return model.Principal{}, pricing.Totals{}, err
	}

	if !totals.Total.IsPositive() {
		return model.Principal{}, pricing.Totals{}, ErrNonPositiveTotal
	}
	if req.AmountTendered.LessThan(totals.Total) {
		return model.Principal{}, pricing.Totals{}, ErrInsufficientTender
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return model.Principal{}, pricing.Totals{}, ErrPaymentMethodRequired
	}
	return cashier, totals, nil
}

func (s *saleService) price(req *CheckoutRequest) (pricing.Totals, error) {
	for i, line := range req.Lines {
		if err := line.Validate(i); err != nil {
			return pricing.Totals{}, err
		}
	}
	return s.calc.Calculate(req.Lines, req.DiscountPercentage)
}

func (s *saleService) QuoteSale(req *CheckoutRequest) (*Quote, error) {
	if req == nil || len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	totals, err := s.price(req)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Totals:         totals,
		AmountTendered: req.AmountTendered,
		Change:         totals.Change(req.AmountTendered),
	}, nil
}

func (s *saleService) GetSaleByID(id uint) (*model.Sale, error) {
	return s.sales.FindByID(id)
}

func (s *saleService) GetSalesByDateRange(start, end time.Time) ([]model.Sale, error) {
	if end.Before(start) {
		return nil, apperror.Invalid("end", "end must not be before start")
	}
	return s.sales.FindByDateRange(start, end)
}

func (s *saleService) publishSale(sale *model.Sale, changes map[uint]*stockChange, order []uint) {
	s.notifier.Publish(ws.Event{
		Type:   EventSaleCompleted,
		Action: "created",
		Data: map[string]interface{}{
			"sale_id":        sale.ID,
			"receipt_number": sale.ReceiptNumber(),
			"cashier":        sale.CashierName,
			"total":          sale.TotalAmount,
			"line_count":     len(sale.Lines),
		},
		Message: fmt.Sprintf("%s completed %s", sale.CashierName, sale.ReceiptNumber()),
	})

	for _, id := range order {
		c := changes[id]
		publishStock(s.notifier, c.product, c.before, "sale", sale.CashierName)
	}
}

// publishStock emits a stock_update for p and a low_stock event when p has
// reached its reorder level.
func publishStock(n Notifier, p *model.Product, oldStock int, action, actor string) {
	n.Publish(ws.Event{
		Type:   EventStockUpdate,
		Action: action,
		Data: map[string]interface{}{
			"product_id": p.ID,
			"barcode":    p.Barcode,
			"name":       p.Name,
			"old_stock":  oldStock,
			"new_stock":  p.Stock,
		},
		Message: fmt.Sprintf("%s changed stock of '%s' from %d to %d", actor, p.Name, oldStock, p.Stock),
	})
	if p.IsLowStock() {
		n.Publish(ws.Event{
			Type:   EventLowStock,
			Action: action,
			Data: map[string]interface{}{
				"product_id":    p.ID,
				"name":          p.Name,
				"stock":         p.Stock,
				"reorder_level": p.ReorderLevel,
			},
			Message: fmt.Sprintf("'%s' is low on stock (%d left)", p.Name, p.Stock),
		})
	}
}
