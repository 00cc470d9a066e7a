package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	ID    uuid.UUID       `json:"id" validate:"uuid_required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"decimal_positive"`
	Cost  decimal.Decimal `json:"cost" validate:"decimal_gte0"`
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(&priced{
		ID:    uuid.New(),
		Name:  "Milk",
		Price: decimal.RequireFromString("1.25"),
		Cost:  decimal.Zero,
	})
	assert.Empty(t, errs)
}

func TestValidateStruct_ReportsJSONFieldNames(t *testing.T) {
	errs := ValidateStruct(&priced{
		Price: decimal.Zero,
		Cost:  decimal.RequireFromString("-0.01"),
	})
	require.Len(t, errs, 4)

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Tag
	}
	assert.Equal(t, "uuid_required", byField["id"])
	assert.Equal(t, "required", byField["name"])
	assert.Equal(t, "decimal_positive", byField["price"])
	assert.Equal(t, "decimal_gte0", byField["cost"])
}
