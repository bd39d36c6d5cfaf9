package validation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/application/validation"
)

type address struct {
	City string `json:"city" validate:"required"`
}

type sample struct {
	Name     string           `json:"name" validate:"required,min=2"`
	Email    string           `json:"email" validate:"omitempty,email"`
	Quantity *decimal.Decimal `json:"quantity" validate:"omitempty,gte=0"`
	Address  address          `json:"address"`
}

func TestValidator_RecogeTodosLosCampos(t *testing.T) {
	v := validation.NewValidator()
	neg := decimal.NewFromInt(-1)

	err := v.Struct(sample{Name: "a", Email: "no-email", Quantity: &neg})
	require.Error(t, err)

	ve, ok := validation.AsErrors(err)
	require.True(t, ok)

	fields := map[string]string{}
	for _, f := range ve.Fields {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "quantity")
	assert.Equal(t, "es obligatorio", fields["address.city"])
}

func TestValidator_Valido(t *testing.T) {
	v := validation.NewValidator()
	q := decimal.RequireFromString("2.5")

	err := v.Struct(sample{Name: "Obra", Quantity: &q, Address: address{City: "Madrid"}})
	assert.NoError(t, err)
}

func TestErrors_Is(t *testing.T) {
	err := validation.New("firma", "es obligatorio")
	assert.True(t, errors.Is(err, &validation.Errors{}))
	assert.Contains(t, err.Error(), "firma")
}
