package handler

import (
	"net/http"
	"testing"

	"go-pos-checkout/internal/repository"
	"go-pos-checkout/internal/repository/repositorytest"
	"go-pos-checkout/internal/service"
	"go-pos-checkout/pkg/clock"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAndSell(t *testing.T, app *fiber.App, db *gorm.DB) uint {
	t.Helper()
	p := repositorytest.SeedProduct(t, db, "R", "4.00", 10)
	status, _ := do(t, app, http.MethodPost, "/sales",
		`{"lines":[{"product_id":`+itoa(p.ID)+`,"quantity":2,"unit_price":"4.00","discount":"0"}],"amount_tendered":"10","payment_method":"CASH"}`)
	require.Equal(t, fiber.StatusCreated, status)
	return p.ID
}

func TestReportRoutes(t *testing.T) {
	app, db := newSaleApp(t)
	h := NewDashboardHandler(service.NewDashboardService(repository.NewAdjustmentRepo(db), repository.NewSaleRepo(db), clock.Real()))
	reports := app.Group("/reports")
	reports.Get("/top-products", h.GetTopProducts)
	reports.Get("/profit", h.GetProfitReport)
	reports.Get("/daily-sales", h.GetDailySales)

	p := seedAndSell(t, app, db)

	status, body := do(t, app, http.MethodGet, "/reports/top-products?limit=5", "")
	assert.Equal(t, fiber.StatusOK, status)
	data, _ := body["data"].([]interface{})
	if assert.Len(t, data, 1) {
		assert.EqualValues(t, p, data[0].(map[string]interface{})["product_id"])
	}

	status, body = do(t, app, http.MethodGet, "/reports/top-products?limit=0", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "limit", body["field"])

	status, body = do(t, app, http.MethodGet, "/reports/profit", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = do(t, app, http.MethodGet, "/reports/daily-sales", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["sale_count"])

	status, _ = do(t, app, http.MethodGet, "/reports/daily-sales?date=02-05-2026", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}
