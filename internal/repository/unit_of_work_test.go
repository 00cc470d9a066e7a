package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-pos-checkout/internal/apperror"
	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/repository"
	"go-pos-checkout/internal/repository/repositorytest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithin_CommitsOnSuccess(t *testing.T) {
	db := repositorytest.NewDB(t)
	p := repositorytest.SeedProduct(t, db, "B1", "2.50", 10)
	gw := repository.NewGateway(db)

	err := repository.Within(context.Background(), gw, func(uow repository.UnitOfWork) error {
		return uow.UpdateStock(p.ID, 7, "tester", time.Now())
	})
	require.NoError(t, err)
	assert.Equal(t, 7, repositorytest.Stock(t, db, p.ID))
}

func TestWithin_RollsBackOnError(t *testing.T) {
	db := repositorytest.NewDB(t)
	p := repositorytest.SeedProduct(t, db, "B1", "2.50", 10)
	gw := repository.NewGateway(db)
	boom := errors.New("boom")

	err := repository.Within(context.Background(), gw, func(uow repository.UnitOfWork) error {
		require.NoError(t, uow.UpdateStock(p.ID, 1, "tester", time.Now()))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, repositorytest.Stock(t, db, p.ID))
}

func TestWithin_RollsBackOnPanic(t *testing.T) {
	db := repositorytest.NewDB(t)
	p := repositorytest.SeedProduct(t, db, "B1", "2.50", 10)
	gw := repository.NewGateway(db)

	assert.Panics(t, func() {
		_ = repository.Within(context.Background(), gw, func(uow repository.UnitOfWork) error {
			require.NoError(t, uow.UpdateStock(p.ID, 1, "tester", time.Now()))
			panic("mid-sale crash")
		})
	})
	assert.Equal(t, 10, repositorytest.Stock(t, db, p.ID))
}

func TestWithin_BeginFailureIsPersistenceError(t *testing.T) {
	db := repositorytest.NewDB(t)
	gw := repository.NewGateway(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repository.Within(ctx, gw, func(uow repository.UnitOfWork) error {
		t.Fatal("fn must not run")
		return nil
	})
	var perr *apperror.PersistenceError
	assert.ErrorAs(t, err, &perr)
}

func TestUnitOfWork_ProductForUpdate(t *testing.T) {
	db := repositorytest.NewDB(t)
	p := repositorytest.SeedProduct(t, db, "B1", "2.50", 10)
	gw := repository.NewGateway(db)

	err := repository.Within(context.Background(), gw, func(uow repository.UnitOfWork) error {
		got, err := uow.ProductForUpdate(p.ID)
		require.NoError(t, err)
		assert.Equal(t, "B1", got.Barcode)

		_, err = uow.ProductForUpdate(p.ID + 100)
		assert.ErrorIs(t, err, repository.ErrProductNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestUnitOfWork_SaleWithLines(t *testing.T) {
	db := repositorytest.NewDB(t)
	p := repositorytest.SeedProduct(t, db, "B1", "2.50", 10)
	gw := repository.NewGateway(db)

	var saleID uint
	err := repository.Within(context.Background(), gw, func(uow repository.UnitOfWork) error {
		sale := &model.Sale{
			SubTotal:       decimal.RequireFromString("5"),
			TotalAmount:    decimal.RequireFromString("5.6"),
			AmountTendered: decimal.RequireFromString("6"),
			PaymentMethod:  model.PaymentCash,
		}
		if err := uow.CreateSale(sale); err != nil {
			return err
		}
		saleID = sale.ID

		line := model.NewSaleLine(1, model.CartLine{ProductID: p.ID, Quantity: 2, UnitPrice: p.Price, Discount: decimal.Zero})
		line.SaleID = sale.ID
		line.Snapshot(p)
		return uow.CreateSaleLine(&line)
	})
	require.NoError(t, err)

	got, err := repository.NewSaleRepo(db).FindByID(saleID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Product B1", got.Lines[0].ProductName)
	assert.True(t, decimal.RequireFromString("5").Equal(got.Lines[0].Total))
}
