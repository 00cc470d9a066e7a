package repository

import (
	"errors"
	"fmt"

	"go-pos-checkout/internal/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrDuplicate       = errors.New("duplicate record")
)

// Postgres SQLSTATE codes the repositories react to.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// classify maps driver errors onto the repository error set. Anything it does
// not recognise is wrapped as a PersistenceError.
func classify(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgCheckViolation:
			return apperror.Persistence(op, fmt.Errorf("constraint %s violated: %w", pgErr.ConstraintName, err))
		}
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperror.Persistence(op, err)
	}
	return apperror.Persistence(op, err)
}
