package repository

import (
	"time"

	"go-pos-checkout/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdjustmentRepository reads the stock ledger. Writes only happen through
// UnitOfWork.AppendAdjustment.
type AdjustmentRepository interface {
	FindAll(limit int) ([]model.StockAdjustment, error)
	FindByProduct(productID uint) ([]model.StockAdjustment, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// StockMovementData is one day of the stock movement chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type adjustmentRepo struct {
	db *gorm.DB
}

func NewAdjustmentRepo(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepo{db}
}

func (r *adjustmentRepo) FindAll(limit int) ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	q := r.db.Preload("Product").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&adjustments).Error
	return adjustments, classify("list stock adjustments", err, nil)
}

func (r *adjustmentRepo) FindByProduct(productID uint) ([]model.StockAdjustment, error) {
	var adjustments []model.StockAdjustment
	err := r.db.
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&adjustments).Error
	return adjustments, classify("list product adjustments", err, nil)
}

func (r *adjustmentRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.StockAdjustment{}).
		Select(`
			CAST(DATE(created_at) AS TEXT) AS date,
			COALESCE(SUM(CASE WHEN direction = 'IN' THEN quantity ELSE 0 END), 0) AS inbound,
			COALESCE(SUM(CASE WHEN direction = 'OUT' THEN quantity ELSE 0 END), 0) AS outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, classify("stock movement", err, nil)
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, classify("stock movement", err, nil)
		}
		results = append(results, data)
	}
	return results, classify("stock movement", rows.Err(), nil)
}

func (r *adjustmentRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Where("is_active = ?", true).Count(&stats.TotalProducts).Error; err != nil {
		return nil, classify("dashboard stats", err, nil)
	}

	err := r.db.Model(&model.Product{}).
		Where("is_active = ? AND stock <= reorder_level", true).
		Count(&stats.LowStockCount).Error
	if err != nil {
		return nil, classify("dashboard stats", err, nil)
	}

	// Valuation at cost.
	var valuation string
	err = r.db.Model(&model.Product{}).
		Select("CAST(COALESCE(SUM(stock * cost), 0) AS TEXT)").
		Where("is_active = ?", true).
		Scan(&valuation).Error
	if err != nil {
		return nil, classify("dashboard stats", err, nil)
	}
	if stats.TotalValuation, err = decimal.NewFromString(valuation); err != nil {
		return nil, classify("dashboard stats", err, nil)
	}

	return &stats, nil
}
