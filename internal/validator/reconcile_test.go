package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturaval/internal/validator"
)

func TestReconcile(t *testing.T) {
	c, err := validator.NewCatalogue(1)
	require.NoError(t, err)

	fields := validator.FieldMap{
		validator.TagClientName: "Ana",
		validator.TagPhone:      "0991234567",
		"producto1_cantidad":    "1",
		"no_en_el_catalogo":     "x",
	}
	consumed := []string{
		"producto1_cantidad", "producto1_codigo", "producto1_detalle",
		"producto1_valor_unitario", "producto1_valor_total",
	}

	missing := validator.Reconcile(c, fields, consumed)

	assert.Len(t, missing, c.Len()-2-5)
	assert.IsIncreasing(t, missing)
	assert.NotContains(t, missing, validator.TagClientName)
	assert.NotContains(t, missing, "producto1_codigo")
	assert.Contains(t, missing, validator.TagEmail)
}

func TestReconcile_EverythingPresent(t *testing.T) {
	c, err := validator.NewCatalogue(1)
	require.NoError(t, err)

	fields := validator.FieldMap{}
	for _, tag := range c.Tags() {
		fields[tag] = "x"
	}

	missing := validator.Reconcile(c, fields, nil)
	assert.Empty(t, missing)
	assert.NotNil(t, missing)
}
