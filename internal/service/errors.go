package service

import (
	"errors"

	"go-pos-checkout/internal/apperror"
)

// Checkout validation failures. Each is a ValidationError carrying the
// offending request field.
var (
	ErrEmptyCart             = apperror.Invalid("lines", "cart must contain at least one line")
	ErrInvalidCashier        = apperror.Invalid("cashier", "a signed-in cashier is required")
	ErrNonPositiveTotal      = apperror.Invalid("total", "sale total must be greater than zero")
	ErrInsufficientTender    = apperror.Invalid("amount_tendered", "amount tendered is less than the sale total")
	ErrPaymentMethodRequired = apperror.Invalid("payment_method", "payment method is required")
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

func productInactive(field string) error {
	return apperror.Invalid(field, "product is not active")
}
