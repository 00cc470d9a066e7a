package repository

import (
	"go-pos-checkout/internal/model"

	"gorm.io/gorm"
)

// ProductRepository covers catalog reads and edits. Stock is deliberately
// absent: it only changes through a UnitOfWork driven by the stock ledger.
type ProductRepository interface {
	FindAll(activeOnly bool) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByBarcode(barcode string) (*model.Product, error)
	FindLowStock() ([]model.Product, error)
	UpdateDetails(product *model.Product) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll(activeOnly bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, classify("list products", err, nil)
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, classify("find product", err, ErrProductNotFound)
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(barcode string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "barcode = ?", barcode).Error; err != nil {
		return nil, classify("find product by barcode", err, ErrProductNotFound)
	}
	return &product, nil
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Where("stock <= reorder_level AND is_active = ?", true).
		Order("stock ASC").
		Find(&products).Error
	return products, classify("list low stock products", err, nil)
}

// UpdateDetails saves catalog fields only. Barcode is the immutable business
// key and stock belongs to the ledger, so neither is written.
func (r *productRepo) UpdateDetails(product *model.Product) error {
	res := r.db.Model(&model.Product{ID: product.ID}).
		Select("name", "description", "category", "unit", "price", "cost", "reorder_level", "is_active", "updated_by").
		Updates(product)
	if res.Error != nil {
		return classify("update product", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
