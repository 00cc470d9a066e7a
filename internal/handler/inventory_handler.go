package handler

import (
	"strconv"

	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	created, err := h.service.CreateProduct(c.UserContext(), &product)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": created})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, &product)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// AdjustStock handles POST /api/v1/products/:id/stock
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	var req service.StockAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.AdjustStock(c.UserContext(), id, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Stock adjusted", "data": product})
}

// GetProducts lists active products; ?all=true includes inactive ones.
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(!c.QueryBool("all", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProductByBarcode(c *fiber.Ctx) error {
	product, err := h.service.GetProductByBarcode(c.Params("barcode"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.GetLowStockProducts()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

// GetAdjustments handles GET /api/v1/stock-adjustments?product_id=N
func (h *InventoryHandler) GetAdjustments(c *fiber.Ctx) error {
	var productID uint
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(c, "Invalid product ID")
		}
		productID = uint(id)
	}

	adjustments, err := h.service.GetAdjustments(productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(adjustments)
}
