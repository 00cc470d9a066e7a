// Package repositorytest provides an in-memory database for tests.
package repositorytest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"go-pos-checkout/internal/model"
	"go-pos-checkout/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB returns a migrated private sqlite database. The pool holds a single
// connection, so concurrent units of work run one after another.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:pos_test_%d?mode=memory&cache=shared&_foreign_keys=1", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         database.NewLogger(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// SeedProduct inserts an active product with the given price and stock.
func SeedProduct(t *testing.T, db *gorm.DB, barcode, price string, stock int) *model.Product {
	t.Helper()

	p := &model.Product{
		Barcode:      barcode,
		Name:         "Product " + barcode,
		Price:        decimal.RequireFromString(price),
		Cost:         decimal.Zero,
		Stock:        stock,
		ReorderLevel: 2,
		IsActive:     true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Stock reads the current stock of a product.
func Stock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()

	var p model.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}

func Count(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
