package repository

import (
	"context"
	"errors"
	"time"

	"go-pos-checkout/internal/apperror"
	"go-pos-checkout/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway opens units of work against the store.
type Gateway interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// UnitOfWork is one database transaction. Reads observe the writes made
// earlier in the same unit of work. Nothing is visible to other readers
// until Commit.
type UnitOfWork interface {
	// ProductForUpdate reads a product and holds its row lock until the
	// unit of work ends.
	ProductForUpdate(id uint) (*model.Product, error)
	UpdateStock(id uint, newStock int, updatedBy string, at time.Time) error
	CreateProduct(product *model.Product) error
	CreateSale(sale *model.Sale) error
	CreateSaleLine(line *model.SaleLine) error
	AppendAdjustment(adj *model.StockAdjustment) error

	Commit() error
	Rollback() error
}

// Within runs fn inside a unit of work. It commits when fn returns nil and
// rolls back on every other exit, panics included. A rollback failure is
// joined to the error that caused it.
func Within(ctx context.Context, gw Gateway, fn func(uow UnitOfWork) error) (err error) {
	uow, err := gw.Begin(ctx)
	if err != nil {
		return err
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if rbErr := uow.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
	}()

	if err = fn(uow); err != nil {
		return err
	}

	// A failed commit leaves nothing to roll back.
	finished = true
	return uow.Commit()
}

type gormGateway struct {
	db *gorm.DB
}

func NewGateway(db *gorm.DB) Gateway {
	return &gormGateway{db: db}
}

func (g *gormGateway) Begin(ctx context.Context) (UnitOfWork, error) {
	tx := g.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperror.Persistence("begin", tx.Error)
	}
	return &gormUnitOfWork{tx: tx}, nil
}

type gormUnitOfWork struct {
	tx *gorm.DB
}

func (u *gormUnitOfWork) ProductForUpdate(id uint) (*model.Product, error) {
	var product model.Product
	err := u.tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
	if err != nil {
		return nil, classify("lock product", err, ErrProductNotFound)
	}
	return &product, nil
}

// UpdateStock writes the new stock and stamps updated_at with at rather than
// the database clock, so the product row and its adjustment agree.
func (u *gormUnitOfWork) UpdateStock(id uint, newStock int, updatedBy string, at time.Time) error {
	res := u.tx.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"stock":      newStock,
			"updated_by": updatedBy,
			"updated_at": at,
		})
	if res.Error != nil {
		return classify("update stock", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (u *gormUnitOfWork) CreateProduct(product *model.Product) error {
	return classify("create product", u.tx.Create(product).Error, nil)
}

// CreateSale inserts the header only; lines go through CreateSaleLine so they
// are written in cart order after their product snapshot is taken.
func (u *gormUnitOfWork) CreateSale(sale *model.Sale) error {
	return classify("create sale", u.tx.Omit(clause.Associations).Create(sale).Error, nil)
}

func (u *gormUnitOfWork) CreateSaleLine(line *model.SaleLine) error {
	return classify("create sale line", u.tx.Create(line).Error, nil)
}

func (u *gormUnitOfWork) AppendAdjustment(adj *model.StockAdjustment) error {
	return classify("append stock adjustment", u.tx.Omit(clause.Associations).Create(adj).Error, nil)
}

func (u *gormUnitOfWork) Commit() error {
	return apperror.Persistence("commit", u.tx.Commit().Error)
}

func (u *gormUnitOfWork) Rollback() error {
	err := u.tx.Rollback().Error
	if errors.Is(err, gorm.ErrInvalidTransaction) {
		return nil
	}
	return apperror.Persistence("rollback", err)
}
