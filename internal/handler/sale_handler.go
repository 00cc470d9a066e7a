package handler

import (
	"time"

	"go-pos-checkout/internal/service"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// Checkout handles POST /api/v1/sales
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	id, err := h.service.ProcessSale(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}

	sale, err := h.service.GetSaleByID(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Sale completed",
		"sale_id":        id,
		"receipt_number": sale.ReceiptNumber(),
		"data":           sale,
	})
}

// Quote handles POST /api/v1/sales/quote
func (h *SaleHandler) Quote(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	quote, err := h.service.QuoteSale(&req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(quote)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid sale ID")
	}

	sale, err := h.service.GetSaleByID(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sale)
}

// ListSales handles GET /api/v1/sales?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Both bounds default to today.
func (h *SaleHandler) ListSales(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return badRequest(c, "Invalid date format, use YYYY-MM-DD")
	}

	sales, err := h.service.GetSalesByDateRange(from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales)
}

// dateRange reads the from/to query dates as whole UTC days.
func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	today := time.Now().UTC().Format(dateLayout)

	from, err := time.Parse(dateLayout, c.Query("from", today))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(dateLayout, c.Query("to", c.Query("from", today)))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}
