package service

import (
	"context"

	"go-pos-checkout/internal/model"

	"github.com/google/uuid"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(model.Principal)
	return p, ok
}

// IdentityProvider resolves the cashier acting on a request.
type IdentityProvider interface {
	Cashier(ctx context.Context) (model.Principal, error)
}

// ContextIdentity reads the principal placed on the context by the auth
// middleware.
type ContextIdentity struct{}

func (ContextIdentity) Cashier(ctx context.Context) (model.Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.ID == uuid.Nil {
		return model.Principal{}, ErrInvalidCashier
	}
	return p, nil
}
