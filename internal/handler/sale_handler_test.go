package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-pos-checkout/internal/ledger"
	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/pricing"
	"go-pos-checkout/internal/repository"
	"go-pos-checkout/internal/repository/repositorytest"
	"go-pos-checkout/internal/service"
	"go-pos-checkout/pkg/clock"
	"go-pos-checkout/pkg/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSaleApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := repositorytest.NewDB(t)
	calc, err := pricing.NewCalculator(pricing.DefaultTaxRate)
	require.NoError(t, err)

	sales, err := service.NewSaleService(service.SaleDeps{
		Gateway:    repository.NewGateway(db),
		Sales:      repository.NewSaleRepo(db),
		Calculator: calc,
		Ledger:     ledger.New(clock.Real()),
		Logger:     logging.Discard(),
	})
	require.NoError(t, err)
	h := NewSaleHandler(sales)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(service.WithPrincipal(context.Background(), model.Principal{ID: uuid.New(), Name: "Till 1"}))
		return c.Next()
	})
	app.Post("/sales/quote", h.Quote)
	app.Post("/sales", h.Checkout)
	app.Get("/sales", h.ListSales)
	app.Get("/sales/:id", h.GetSale)
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestCheckout_StatusMapping(t *testing.T) {
	app, db := newSaleApp(t)
	p := repositorytest.SeedProduct(t, db, "A", "10.00", 1)

	status, body := do(t, app, http.MethodPost, "/sales",
		`{"lines":[{"product_id":`+itoa(p.ID)+`,"quantity":1,"unit_price":"10.00","discount":"0"}],"amount_tendered":"20","payment_method":"CASH"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "SALE-000001", body["receipt_number"])

	status, body = do(t, app, http.MethodPost, "/sales",
		`{"lines":[{"product_id":`+itoa(p.ID)+`,"quantity":1,"unit_price":"10.00"}],"amount_tendered":"20","payment_method":"CASH"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.EqualValues(t, 0, body["available"])

	status, body = do(t, app, http.MethodPost, "/sales",
		`{"lines":[{"product_id":`+itoa(p.ID)+`,"quantity":1,"unit_price":"10.00"}],"amount_tendered":"5","payment_method":"CASH"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "amount_tendered", body["field"])

	status, _ = do(t, app, http.MethodPost, "/sales",
		`{"lines":[{"product_id":424242,"quantity":1,"unit_price":"1"}],"amount_tendered":"5","payment_method":"CASH"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodPost, "/sales", `{"lines":`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestQuoteAndLookup(t *testing.T) {
	app, db := newSaleApp(t)
	p := repositorytest.SeedProduct(t, db, "A", "10.00", 5)

	status, body := do(t, app, http.MethodPost, "/sales/quote",
		`{"lines":[{"product_id":1,"quantity":2,"unit_price":"10.00"},{"product_id":2,"quantity":1,"unit_price":"5.00","discount":"1.00"}],"discount_percentage":"10","amount_tendered":"25"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "24.192", body["total"])
	assert.Equal(t, "0.808", body["change"])

	status, body = do(t, app, http.MethodPost, "/sales",
		`{"lines":[{"product_id":`+itoa(p.ID)+`,"quantity":1,"unit_price":"10.00"}],"amount_tendered":"20","payment_method":"CARD"}`)
	require.Equal(t, http.StatusCreated, status, body)

	status, body = do(t, app, http.MethodGet, "/sales/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CARD", body["payment_method"])

	status, _ = do(t, app, http.MethodGet, "/sales/99", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodGet, "/sales/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/sales?from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
