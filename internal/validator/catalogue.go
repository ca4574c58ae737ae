package validator

import (
	"fmt"
	"sort"
	"strings"
)

// FieldKind is the closed set of validator families a tag can route to.
type FieldKind int

const (
	KindFreeform FieldKind = iota
	KindPhone
	KindNationalID
	KindEmail
	KindCurrency
	KindDate
)

var kindNames = map[FieldKind]string{
	KindFreeform:   "freeform",
	KindPhone:      "phone",
	KindNationalID: "national_id",
	KindEmail:      "email",
	KindCurrency:   "currency",
	KindDate:       "date",
}

func (k FieldKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// FieldKinds lists every kind in declaration order.
func FieldKinds() []FieldKind {
	return []FieldKind{KindFreeform, KindPhone, KindNationalID, KindEmail, KindCurrency, KindDate}
}

// ParseFieldKind resolves a kind by name. "cedula", "ruc" and "id" are
// accepted as aliases of national_id.
func ParseFieldKind(s string) (FieldKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "cedula", "ruc", "id":
		return KindNationalID, nil
	case "telefono":
		return KindPhone, nil
	case "correo":
		return KindEmail, nil
	case "fecha":
		return KindDate, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	names := make([]string, 0, len(kindNames))
	for _, k := range FieldKinds() {
		names = append(names, k.String())
	}
	return 0, fmt.Errorf("unknown field kind %q (known: %s)", s, strings.Join(names, ", "))
}

// Singleton tags emitted by the extraction processor.
const (
	TagClientName          = "Nombrecliente"
	TagNationalID          = "Ruc"
	TagBillingAddress      = "Direccion_factura"
	TagInstallationAddress = "direccioninstalacion"
	TagCity                = "Ciudad"
	TagEmail               = "Correo"
	TagPhone               = "Telefono"
	TagContractDate        = "Fecha_contrato"
	TagDeliveryDate        = "Fecha_entrega"
	TagContractCode        = "codigocontrato"
	TagObservation         = "observacion"
	TagOperator            = "Operario"
	TagMeasurer            = "Resp_Medicion"
	TagSubtotal            = "subtotal"
	TagTax                 = "total_impuestos"
	TagTotal               = "total_final"
	TagDeposit             = "abono"
	TagBalance             = "saldo_pendiente"
	TagBank                = "Banco"
	TagCheckNumber         = "Numerocheque"
)

// DefaultLineItemSlots is the number of product rows printed on the form.
const DefaultLineItemSlots = 20

// LineItemPrefix starts every line-item tag, e.g. "producto3_detalle".
const LineItemPrefix = "producto"

// Line-item field suffixes.
const (
	ItemQuantity   = "cantidad"
	ItemCode       = "codigo"
	ItemDetail     = "detalle"
	ItemUnitValue  = "valor_unitario"
	ItemTotalValue = "valor_total"
)

// LineItemFields is the fixed order of the five fields of a slot.
var LineItemFields = []string{ItemQuantity, ItemCode, ItemDetail, ItemUnitValue, ItemTotalValue}

// LineItemTag builds the tag of one line-item field.
func LineItemTag(slot int, field string) string {
	return fmt.Sprintf("%s%d_%s", LineItemPrefix, slot, field)
}

var singletonKinds = []struct {
	tag  string
	kind FieldKind
}{
	{TagClientName, KindFreeform},
	{TagNationalID, KindNationalID},
	{TagBillingAddress, KindFreeform},
	{TagInstallationAddress, KindFreeform},
	{TagCity, KindFreeform},
	{TagEmail, KindEmail},
	{TagPhone, KindPhone},
	{TagContractDate, KindDate},
	{TagDeliveryDate, KindDate},
	{TagContractCode, KindFreeform},
	{TagObservation, KindFreeform},
	{TagOperator, KindFreeform},
	{TagMeasurer, KindFreeform},
	{TagSubtotal, KindCurrency},
	{TagTax, KindCurrency},
	{TagTotal, KindCurrency},
	{TagDeposit, KindCurrency},
	{TagBalance, KindCurrency},
	{TagBank, KindFreeform},
	{TagCheckNumber, KindFreeform},
}

var lineItemKinds = map[string]FieldKind{
	ItemQuantity:   KindFreeform,
	ItemCode:       KindFreeform,
	ItemDetail:     KindFreeform,
	ItemUnitValue:  KindCurrency,
	ItemTotalValue: KindCurrency,
}

// Catalogue is the expected tag set together with the kind each tag
// routes to. It is immutable once built.
type Catalogue struct {
	slots int
	kinds map[string]FieldKind
	tags  []string
}

// NewCatalogue builds the catalogue for the given number of line-item slots.
func NewCatalogue(slots int) (*Catalogue, error) {
	if slots < 1 {
		return nil, fmt.Errorf("line item slots must be at least 1, got %d", slots)
	}

	kinds := make(map[string]FieldKind, len(singletonKinds)+slots*len(LineItemFields))
	for _, s := range singletonKinds {
		kinds[s.tag] = s.kind
	}
	for i := 1; i <= slots; i++ {
		for _, f := range LineItemFields {
			kinds[LineItemTag(i, f)] = lineItemKinds[f]
		}
	}

	tags := make([]string, 0, len(kinds))
	for tag := range kinds {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return &Catalogue{slots: slots, kinds: kinds, tags: tags}, nil
}

// Kind returns the validator family for tag.
func (c *Catalogue) Kind(tag string) (FieldKind, bool) {
	k, ok := c.kinds[tag]
	return k, ok
}

// Contains reports whether tag is expected.
func (c *Catalogue) Contains(tag string) bool {
	_, ok := c.kinds[tag]
	return ok
}

// Tags returns every expected tag, sorted.
func (c *Catalogue) Tags() []string {
	return append([]string(nil), c.tags...)
}

// Slots returns the number of line-item slots.
func (c *Catalogue) Slots() int { return c.slots }

// Len returns the number of expected tags.
func (c *Catalogue) Len() int { return len(c.tags) }
