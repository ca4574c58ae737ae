package validator

import "facturaval/internal/domain"

// Record groups, as named in the serialized record.
const (
	GroupClient             = "client"
	GroupContract           = "contract"
	GroupBilling            = "billing"
	GroupPayment            = "payment"
	GroupResponsibleParties = "responsible_parties"
)

// FieldBinding places one singleton tag in the structured record.
type FieldBinding struct {
	Tag   string
	Group string
	Name  string
	slot  func(*domain.StructuredRecord) **string
}

// Value reads the bound field from rec.
func (b FieldBinding) Value(rec *domain.StructuredRecord) *string {
	return *b.slot(rec)
}

var recordLayout = []FieldBinding{
	{TagClientName, GroupClient, "nombre", func(r *domain.StructuredRecord) **string { return &r.Client.Name }},
	{TagNationalID, GroupClient, "ruc_cedula", func(r *domain.StructuredRecord) **string { return &r.Client.NationalID }},
	{TagBillingAddress, GroupClient, "direccion", func(r *domain.StructuredRecord) **string { return &r.Client.Address }},
	{TagInstallationAddress, GroupClient, "direccion_instalacion", func(r *domain.StructuredRecord) **string { return &r.Client.InstallationAddress }},
	{TagCity, GroupClient, "ciudad", func(r *domain.StructuredRecord) **string { return &r.Client.City }},
	{TagEmail, GroupClient, "correo", func(r *domain.StructuredRecord) **string { return &r.Client.Email }},
	{TagPhone, GroupClient, "telefono", func(r *domain.StructuredRecord) **string { return &r.Client.Phone }},

	{TagContractCode, GroupContract, "codigo", func(r *domain.StructuredRecord) **string { return &r.Contract.Code }},
	{TagContractDate, GroupContract, "fecha_contrato", func(r *domain.StructuredRecord) **string { return &r.Contract.ContractDate }},
	{TagDeliveryDate, GroupContract, "fecha_entrega", func(r *domain.StructuredRecord) **string { return &r.Contract.DeliveryDate }},
	{TagObservation, GroupContract, "observacion", func(r *domain.StructuredRecord) **string { return &r.Contract.Observation }},

	{TagSubtotal, GroupBilling, "subtotal", func(r *domain.StructuredRecord) **string { return &r.Billing.Subtotal }},
	{TagTax, GroupBilling, "iva", func(r *domain.StructuredRecord) **string { return &r.Billing.Tax }},
	{TagTotal, GroupBilling, "total", func(r *domain.StructuredRecord) **string { return &r.Billing.Total }},
	{TagDeposit, GroupBilling, "abono", func(r *domain.StructuredRecord) **string { return &r.Billing.Deposit }},
	{TagBalance, GroupBilling, "saldo_pendiente", func(r *domain.StructuredRecord) **string { return &r.Billing.Balance }},

	{TagBank, GroupPayment, "banco", func(r *domain.StructuredRecord) **string { return &r.Payment.Bank }},
	{TagCheckNumber, GroupPayment, "numero_cheque", func(r *domain.StructuredRecord) **string { return &r.Payment.CheckNumber }},

	{TagOperator, GroupResponsibleParties, "operario", func(r *domain.StructuredRecord) **string { return &r.ResponsibleParties.Operator }},
	{TagMeasurer, GroupResponsibleParties, "responsable_medicion", func(r *domain.StructuredRecord) **string { return &r.ResponsibleParties.Measurer }},
}

// RecordLayout returns the tag to group/field table in display order.
func RecordLayout() []FieldBinding {
	return append([]FieldBinding(nil), recordLayout...)
}

// AssembleRecord folds validated values, line items and the report lists
// into a structured record. It only re-keys; nothing is validated here.
func AssembleRecord(fields FieldMap, items []domain.LineItem, warnings, missing []string) *domain.StructuredRecord {
	rec := &domain.StructuredRecord{
		LineItems: items,
		Validation: domain.ValidationReport{
			Warnings: warnings,
			Missing:  missing,
		},
	}
	if rec.LineItems == nil {
		rec.LineItems = []domain.LineItem{}
	}
	if rec.Validation.Warnings == nil {
		rec.Validation.Warnings = []string{}
	}
	if rec.Validation.Missing == nil {
		rec.Validation.Missing = []string{}
	}

	for _, b := range recordLayout {
		if v, ok := fields[b.Tag]; ok {
			*b.slot(rec) = &v
		}
	}
	return rec
}
