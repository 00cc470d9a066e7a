package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go-pos-checkout/internal/apperror"
	"go-pos-checkout/internal/ledger"
	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/repository"
	"go-pos-checkout/internal/ws"
	"go-pos-checkout/pkg/validator"
)

const adjustmentPageSize = 200

// StockAdjustmentRequest is a manual stock-in or stock-out.
type StockAdjustmentRequest struct {
	Direction model.AdjustmentDirection `json:"direction"`
	Quantity  int                       `json:"quantity"`
	Reason    string                    `json:"reason"`
}

type InventoryService interface {
	CreateProduct(ctx context.Context, req *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *model.Product) (*model.Product, error)
	AdjustStock(ctx context.Context, productID uint, req *StockAdjustmentRequest) (*model.Product, error)
	GetAllProducts(activeOnly bool) ([]model.Product, error)
	GetProductByBarcode(barcode string) (*model.Product, error)
	GetLowStockProducts() ([]model.Product, error)
	GetAdjustments(productID uint) ([]model.StockAdjustment, error)
}

type inventoryService struct {
	gw          repository.Gateway
	productRepo repository.ProductRepository
	adjustRepo  repository.AdjustmentRepository
	ledger      *ledger.Ledger
	identity    IdentityProvider
	notifier    Notifier
	log         *slog.Logger
}

func NewInventoryService(
	gw repository.Gateway,
	pRepo repository.ProductRepository,
	aRepo repository.AdjustmentRepository,
	l *ledger.Ledger,
	identity IdentityProvider,
	notifier Notifier,
	log *slog.Logger,
) InventoryService {
	if identity == nil {
		identity = ContextIdentity{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &inventoryService{
		gw:          gw,
		productRepo: pRepo,
		adjustRepo:  aRepo,
		ledger:      l,
		identity:    identity,
		notifier:    notifier,
		log:         log,
	}
}

// firstInvalid turns the first validator failure into a ValidationError.
func firstInvalid(data interface{}) error {
	errs := validator.ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	e := errs[0]
	return apperror.Invalid(e.Field, fmt.Sprintf("failed on '%s'", e.Tag))
}

// CreateProduct inserts the product with zero stock and books any requested
// opening stock through the ledger, all in one unit of work.
func (s *inventoryService) CreateProduct(ctx context.Context, req *model.Product) (*model.Product, error) {
	if err := firstInvalid(req); err != nil {
		return nil, err
	}
	actor, err := s.identity.Cashier(ctx)
	if err != nil {
		return nil, err
	}

	opening := req.Stock
	product := *req
	product.ID = 0
	product.Stock = 0
	product.CreatedBy = actor.Name
	product.UpdatedBy = actor.Name

	err = repository.Within(ctx, s.gw, func(uow repository.UnitOfWork) error {
		if err := uow.CreateProduct(&product); err != nil {
			return err
		}
		if opening == 0 {
			return nil
		}
		res, err := s.ledger.Adjust(uow, ledger.Request{
			ProductID: product.ID,
			Quantity:  opening,
			Direction: model.StockIn,
			Reason:    "Opening stock",
			Actor:     actor,
		})
		if err != nil {
			return err
		}
		product.Stock = res.StockAfter
		return nil
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperror.Invalid("barcode", "barcode already exists")
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", slog.Uint64("product_id", uint64(product.ID)), slog.String("barcode", product.Barcode))
	publishStock(s.notifier, &product, 0, "product_created", actor.Name)
	return &product, nil
}

// UpdateProduct edits catalog fields. Stock and barcode in req are ignored.
func (s *inventoryService) UpdateProduct(ctx context.Context, id uint, req *model.Product) (*model.Product, error) {
	actor, err := s.identity.Cashier(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Category = req.Category
	existing.Unit = req.Unit
	existing.Price = req.Price
	existing.Cost = req.Cost
	existing.ReorderLevel = req.ReorderLevel
	existing.IsActive = req.IsActive
	existing.UpdatedBy = actor.Name

	if err := firstInvalid(existing); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateDetails(existing); err != nil {
		return nil, err
	}

	s.notifier.Publish(productEvent(existing, "product_updated", actor.Name))
	return existing, nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, productID uint, req *StockAdjustmentRequest) (*model.Product, error) {
	actor, err := s.identity.Cashier(ctx)
	if err != nil {
		return nil, err
	}

	var res *ledger.Result
	err = repository.Within(ctx, s.gw, func(uow repository.UnitOfWork) error {
		var err error
		res, err = s.ledger.Adjust(uow, ledger.Request{
			ProductID: productID,
			Quantity:  req.Quantity,
			Direction: req.Direction,
			Reason:    req.Reason,
			Actor:     actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock adjusted",
		slog.Uint64("product_id", uint64(productID)),
		slog.String("direction", string(req.Direction)),
		slog.Int("quantity", req.Quantity),
		slog.Int("stock_after", res.StockAfter),
	)
	publishStock(s.notifier, res.Product, res.StockBefore, "stock_adjusted", actor.Name)
	return res.Product, nil
}

func (s *inventoryService) GetAllProducts(activeOnly bool) ([]model.Product, error) {
	return s.productRepo.FindAll(activeOnly)
}

func (s *inventoryService) GetProductByBarcode(barcode string) (*model.Product, error) {
	return s.productRepo.FindByBarcode(barcode)
}

func (s *inventoryService) GetLowStockProducts() ([]model.Product, error) {
	return s.productRepo.FindLowStock()
}

// GetAdjustments lists one product's ledger, or the most recent entries
// across all products when productID is zero.
func (s *inventoryService) GetAdjustments(productID uint) ([]model.StockAdjustment, error) {
	if productID == 0 {
		return s.adjustRepo.FindAll(adjustmentPageSize)
	}
	return s.adjustRepo.FindByProduct(productID)
}

func productEvent(p *model.Product, action, actor string) ws.Event {
	return ws.Event{
		Type:   EventStockUpdate,
		Action: action,
		Data: map[string]interface{}{
			"product_id": p.ID,
			"barcode":    p.Barcode,
			"name":       p.Name,
			"price":      p.Price,
			"is_active":  p.IsActive,
		},
		Message: fmt.Sprintf("%s updated product '%s'", actor, p.Name),
	}
}
