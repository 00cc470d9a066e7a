package handler

import (
	"time"

	"go-pos-checkout/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)

	data, err := h.service.GetStockMovement(days)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(stats)
}

// GetSalesSummary returns sale totals for ?from=&to= (YYYY-MM-DD, default today).
func (h *DashboardHandler) GetSalesSummary(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return badRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	summary, err := h.service.GetSalesSummary(from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetTopProducts ranks products by units sold for ?from=&to=&limit= (default 10).
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return badRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	products, err := h.service.GetTopSellingProducts(from, to, c.QueryInt("limit", 10))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": products})
}

// GetProfitReport returns per-day cost of goods and gross profit for ?from=&to=.
func (h *DashboardHandler) GetProfitReport(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return badRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	days, err := h.service.GetProfitReport(from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": days})
}

// GetDailySales lists the sales of ?date= (YYYY-MM-DD, default today).
func (h *DashboardHandler) GetDailySales(c *fiber.Ctx) error {
	day, err := time.Parse(dateLayout, c.Query("date", time.Now().UTC().Format(dateLayout)))
	if err != nil {
		return badRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	report, err := h.service.GetDailySalesReport(day)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
