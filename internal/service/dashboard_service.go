package service

import (
	"slices"
	"time"

	"go-pos-checkout/internal/apperror"
	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/repository"
	"go-pos-checkout/pkg/clock"

	"github.com/shopspring/decimal"
)

const (
	maxMovementDays = 366
	maxTopProducts  = 100
)

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
	GetSalesSummary(from, to time.Time) (*repository.SalesSummary, error)
	GetTopSellingProducts(from, to time.Time, limit int) ([]repository.TopSellingProduct, error)
	GetProfitReport(from, to time.Time) ([]repository.DailyProfit, error)
	GetDailySalesReport(day time.Time) (*DailySalesReport, error)
}

// DailySalesReport lists one calendar day's sales in the order they were rung up.
type DailySalesReport struct {
	Date        string          `json:"date"`
	Sales       []model.Sale    `json:"sales"`
	SaleCount   int             `json:"sale_count"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	AverageSale decimal.Decimal `json:"average_sale"`
}

type dashboardService struct {
	adjustRepo repository.AdjustmentRepository
	saleRepo   repository.SaleRepository
	clock      clock.Clock
}

func NewDashboardService(aRepo repository.AdjustmentRepository, sRepo repository.SaleRepository, c clock.Clock) DashboardService {
	if c == nil {
		c = clock.Real()
	}
	return &dashboardService{adjustRepo: aRepo, saleRepo: sRepo, clock: c}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	if days <= 0 || days > maxMovementDays {
		return nil, apperror.Invalid("days", "days must be between 1 and 366")
	}
	endDate := s.clock.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.adjustRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.adjustRepo.GetDashboardStats()
}

func (s *dashboardService) GetSalesSummary(from, to time.Time) (*repository.SalesSummary, error) {
	if to.Before(from) {
		return nil, apperror.Invalid("to", "to must not be before from")
	}
	return s.saleRepo.GetSalesSummary(from, to)
}

func (s *dashboardService) GetTopSellingProducts(from, to time.Time, limit int) ([]repository.TopSellingProduct, error) {
	if to.Before(from) {
		return nil, apperror.Invalid("to", "to must not be before from")
	}
	if limit <= 0 || limit > maxTopProducts {
		return nil, apperror.Invalid("limit", "limit must be between 1 and 100")
	}
	return s.saleRepo.GetTopSellingProducts(from, to, limit)
}

func (s *dashboardService) GetProfitReport(from, to time.Time) ([]repository.DailyProfit, error) {
	if to.Before(from) {
		return nil, apperror.Invalid("to", "to must not be before from")
	}
	return s.saleRepo.GetProfitReport(from, to)
}

// GetDailySalesReport covers the UTC calendar day containing day.
func (s *dashboardService) GetDailySalesReport(day time.Time) (*DailySalesReport, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	sales, err := s.saleRepo.FindByDateRange(start, start.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return nil, err
	}
	slices.Reverse(sales)

	report := &DailySalesReport{
		Date:        start.Format(time.DateOnly),
		Sales:       sales,
		SaleCount:   len(sales),
		TotalSales:  decimal.Zero,
		AverageSale: decimal.Zero,
	}
	for _, sale := range sales {
		report.TotalSales = report.TotalSales.Add(sale.TotalAmount)
	}
	if report.SaleCount > 0 {
		report.AverageSale = report.TotalSales.Div(decimal.NewFromInt(int64(report.SaleCount)))
	}
	return report, nil
}
