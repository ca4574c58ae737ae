package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturaval/internal/validator"
)

func TestNewCatalogue(t *testing.T) {
	c, err := validator.NewCatalogue(validator.DefaultLineItemSlots)
	require.NoError(t, err)

	assert.Equal(t, 20, c.Slots())
	assert.Equal(t, 20+20*5, c.Len())
	assert.True(t, c.Contains("producto20_valor_total"))
	assert.False(t, c.Contains("producto21_valor_total"))
	assert.False(t, c.Contains("producto0_cantidad"))

	tags := c.Tags()
	assert.IsIncreasing(t, tags)
}

func TestNewCatalogue_InvalidSlots(t *testing.T) {
	_, err := validator.NewCatalogue(0)
	assert.Error(t, err)

	_, err = validator.NewCatalogue(-3)
	assert.Error(t, err)
}

func TestCatalogue_Kind(t *testing.T) {
	c, err := validator.NewCatalogue(3)
	require.NoError(t, err)

	tests := []struct {
		tag  string
		want validator.FieldKind
	}{
		{validator.TagPhone, validator.KindPhone},
		{validator.TagNationalID, validator.KindNationalID},
		{validator.TagEmail, validator.KindEmail},
		{validator.TagSubtotal, validator.KindCurrency},
		{validator.TagTax, validator.KindCurrency},
		{validator.TagTotal, validator.KindCurrency},
		{validator.TagDeposit, validator.KindCurrency},
		{validator.TagBalance, validator.KindCurrency},
		{validator.TagContractDate, validator.KindDate},
		{validator.TagDeliveryDate, validator.KindDate},
		{validator.TagClientName, validator.KindFreeform},
		{validator.TagCheckNumber, validator.KindFreeform},
		{"producto2_valor_unitario", validator.KindCurrency},
		{"producto3_valor_total", validator.KindCurrency},
		{"producto1_cantidad", validator.KindFreeform},
		{"producto1_detalle", validator.KindFreeform},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, ok := c.Kind(tt.tag)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := c.Kind("Desconocido")
	assert.False(t, ok)
}

func TestCatalogue_TagsIsCopy(t *testing.T) {
	c, err := validator.NewCatalogue(1)
	require.NoError(t, err)

	tags := c.Tags()
	tags[0] = "changed"
	assert.NotEqual(t, "changed", c.Tags()[0])
}

func TestLineItemTag(t *testing.T) {
	assert.Equal(t, "producto7_detalle", validator.LineItemTag(7, validator.ItemDetail))
}

func TestParseFieldKind(t *testing.T) {
	for _, k := range validator.FieldKinds() {
		got, err := validator.ParseFieldKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := validator.ParseFieldKind(" Cedula ")
	require.NoError(t, err)
	assert.Equal(t, validator.KindNationalID, got)

	_, err = validator.ParseFieldKind("iban")
	assert.Error(t, err)
}
