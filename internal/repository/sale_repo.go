package repository

import (
	"time"

	"go-pos-checkout/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	FindByID(id uint) (*model.Sale, error)
	FindByDateRange(start, end time.Time) ([]model.Sale, error)
	GetSalesSummary(start, end time.Time) (*SalesSummary, error)
	GetTopSellingProducts(start, end time.Time, limit int) ([]TopSellingProduct, error)
	GetProfitReport(start, end time.Time) ([]DailyProfit, error)
}

// SalesSummary aggregates committed sales over a period.
type SalesSummary struct {
	SaleCount     int64           `json:"sale_count"`
	Revenue       decimal.Decimal `json:"revenue"`
	TaxCollected  decimal.Decimal `json:"tax_collected"`
	DiscountGiven decimal.Decimal `json:"discount_given"`
}

// TopSellingProduct ranks a product by units sold over a period.
type TopSellingProduct struct {
	ProductID    uint            `json:"product_id"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	SaleCount    int64           `json:"sale_count"`
}

// DailyProfit is one day of the profit report. NetSales excludes tax;
// CostOfGoods uses the unit cost captured on each sale line.
type DailyProfit struct {
	Date        string          `json:"date"`
	SaleCount   int64           `json:"sale_count"`
	GrossSales  decimal.Decimal `json:"gross_sales"`
	Discounts   decimal.Decimal `json:"discounts"`
	NetSales    decimal.Decimal `json:"net_sales"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	CostOfGoods decimal.Decimal `json:"cost_of_goods"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) FindByID(id uint) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_no ASC")
	}).First(&sale, id).Error
	if err != nil {
		return nil, classify("find sale", err, ErrSaleNotFound)
	}
	return &sale, nil
}

func (r *saleRepo) FindByDateRange(start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.
		Where("sale_date BETWEEN ? AND ?", start, end).
		Order("sale_date DESC").
		Find(&sales).Error
	return sales, classify("list sales", err, nil)
}

func (r *saleRepo) GetSalesSummary(start, end time.Time) (*SalesSummary, error) {
	var row struct {
		SaleCount     int64
		Revenue       string
		TaxCollected  string
		DiscountGiven string
	}
	err := r.db.Model(&model.Sale{}).
		Select(`
			COUNT(*) AS sale_count,
			CAST(COALESCE(SUM(total_amount), 0) AS TEXT) AS revenue,
			CAST(COALESCE(SUM(tax_amount), 0) AS TEXT) AS tax_collected,
			CAST(COALESCE(SUM(discount_amount), 0) AS TEXT) AS discount_given
		`).
		Where("sale_date BETWEEN ? AND ?", start, end).
		Scan(&row).Error
	if err != nil {
		return nil, classify("sales summary", err, nil)
	}

	summary := &SalesSummary{SaleCount: row.SaleCount}
	err = parseDecimals(
		decimalField{row.Revenue, &summary.Revenue},
		decimalField{row.TaxCollected, &summary.TaxCollected},
		decimalField{row.DiscountGiven, &summary.DiscountGiven},
	)
	if err != nil {
		return nil, classify("sales summary", err, nil)
	}
	return summary, nil
}

func (r *saleRepo) GetTopSellingProducts(start, end time.Time, limit int) ([]TopSellingProduct, error) {
	rows, err := r.db.Table("sale_lines AS l").
		Select(`
			l.product_id,
			p.barcode,
			p.name,
			COALESCE(p.category, '') AS category,
			SUM(l.quantity) AS quantity_sold,
			CAST(COALESCE(SUM(l.total), 0) AS TEXT) AS revenue,
			COUNT(DISTINCT l.sale_id) AS sale_count
		`).
		Joins("JOIN sales s ON s.id = l.sale_id").
		Joins("JOIN products p ON p.id = l.product_id").
		Where("s.sale_date BETWEEN ? AND ?", start, end).
		Group("l.product_id, p.barcode, p.name, p.category").
		Order("quantity_sold DESC, l.product_id ASC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, classify("top selling products", err, nil)
	}
	defer rows.Close()

	var results []TopSellingProduct
	for rows.Next() {
		var (
			item    TopSellingProduct
			revenue string
		)
		if err := rows.Scan(&item.ProductID, &item.Barcode, &item.Name, &item.Category,
			&item.QuantitySold, &revenue, &item.SaleCount); err != nil {
			return nil, classify("top selling products", err, nil)
		}
		if err := parseDecimals(decimalField{revenue, &item.Revenue}); err != nil {
			return nil, classify("top selling products", err, nil)
		}
		results = append(results, item)
	}
	return results, classify("top selling products", rows.Err(), nil)
}

func (r *saleRepo) GetProfitReport(start, end time.Time) ([]DailyProfit, error) {
	lineCost := r.db.Model(&model.SaleLine{}).
		Select("sale_id, SUM(quantity * unit_cost) AS cost").
		Group("sale_id")

	rows, err := r.db.Table("sales AS s").
		Select(`
			CAST(DATE(s.sale_date) AS TEXT) AS date,
			COUNT(*) AS sale_count,
			CAST(COALESCE(SUM(s.sub_total), 0) AS TEXT) AS gross_sales,
			CAST(COALESCE(SUM(s.discount_amount), 0) AS TEXT) AS discounts,
			CAST(COALESCE(SUM(s.tax_amount), 0) AS TEXT) AS tax_amount,
			CAST(COALESCE(SUM(c.cost), 0) AS TEXT) AS cost_of_goods
		`).
		Joins("LEFT JOIN (?) AS c ON c.sale_id = s.id", lineCost).
		Where("s.sale_date BETWEEN ? AND ?", start, end).
		Group("DATE(s.sale_date)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, classify("profit report", err, nil)
	}
	defer rows.Close()

	var results []DailyProfit
	for rows.Next() {
		var (
			day                        DailyProfit
			gross, discounts, tax, cog string
		)
		if err := rows.Scan(&day.Date, &day.SaleCount, &gross, &discounts, &tax, &cog); err != nil {
			return nil, classify("profit report", err, nil)
		}
		err := parseDecimals(
			decimalField{gross, &day.GrossSales},
			decimalField{discounts, &day.Discounts},
			decimalField{tax, &day.TaxAmount},
			decimalField{cog, &day.CostOfGoods},
		)
		if err != nil {
			return nil, classify("profit report", err, nil)
		}
		day.NetSales = day.GrossSales.Sub(day.Discounts)
		day.GrossProfit = day.NetSales.Sub(day.CostOfGoods)
		results = append(results, day)
	}
	return results, classify("profit report", rows.Err(), nil)
}

type decimalField struct {
	raw string
	dst *decimal.Decimal
}

// parseDecimals reads aggregate sums that the queries return as text so no
// float conversion touches money.
func parseDecimals(fields ...decimalField) error {
	for _, f := range fields {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}
