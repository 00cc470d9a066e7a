package handler

import (
	"strings"

	"go-pos-checkout/internal/service"
	"go-pos-checkout/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenBody struct {
	Token string `json:"token" validate:"required"`
}

// bindBody parses and validates the JSON body into dst. When it returns false
// the response has already been written.
func bindBody(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, badRequest(c, "Invalid JSON")
	}
	if errs := validator.ValidateStruct(dst); len(errs) > 0 {
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"field":  errs[0].Field,
			"errors": errs,
		})
	}
	return true, nil
}

// Login exchanges credentials for a token and ends any earlier session.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentials
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	session, err := h.authService.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// ValidateToken reports whether a token still belongs to the user's current
// session. POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req tokenBody
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	session, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(session)
}

// Me returns the cashier bound to the request by RequireAuth.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := service.PrincipalFromContext(c.UserContext())
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	privileges, _ := c.Locals("user_privileges").([]string)
	return c.JSON(fiber.Map{
		"cashier":    principal,
		"email":      c.Locals("user_email"),
		"privileges": privileges,
	})
}
