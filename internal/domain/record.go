package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawField is one labeled fragment as recognized by the extraction service.
// The JSON shape mirrors an extraction entity.
type RawField struct {
	Tag  string `json:"type"`
	Text string `json:"mentionText"`
}

// Client groups the customer fields of a record.
type Client struct {
	Name                *string `json:"nombre"`
	NationalID          *string `json:"ruc_cedula"`
	Address             *string `json:"direccion"`
	InstallationAddress *string `json:"direccion_instalacion"`
	City                *string `json:"ciudad"`
	Email               *string `json:"correo"`
	Phone               *string `json:"telefono"`
}

// Contract groups the contract fields of a record.
type Contract struct {
	Code         *string `json:"codigo"`
	ContractDate *string `json:"fecha_contrato"`
	DeliveryDate *string `json:"fecha_entrega"`
	Observation  *string `json:"observacion"`
}

// Billing groups the monetary totals of a record.
type Billing struct {
	Subtotal *string `json:"subtotal"`
	Tax      *string `json:"iva"`
	Total    *string `json:"total"`
	Deposit  *string `json:"abono"`
	Balance  *string `json:"saldo_pendiente"`
}

// Payment groups the payment instrument fields of a record.
type Payment struct {
	Bank        *string `json:"banco"`
	CheckNumber *string `json:"numero_cheque"`
}

// ResponsibleParties groups the people who signed the document.
type ResponsibleParties struct {
	Operator *string `json:"operario"`
	Measurer *string `json:"responsable_medicion"`
}

// LineItem is one row of the product table. Position is the 1-based slot
// the row was read from.
type LineItem struct {
	Position   int     `json:"position"`
	Quantity   *string `json:"cantidad"`
	Code       *string `json:"codigo"`
	Detail     *string `json:"detalle"`
	UnitValue  *string `json:"valor_unitario"`
	TotalValue *string `json:"valor_total"`
}

// ValidationReport carries the warnings in dispatch order and the sorted
// list of expected tags that never arrived.
type ValidationReport struct {
	Warnings []string `json:"warnings"`
	Missing  []string `json:"missing"`
}

// StructuredRecord is the validated business record built from one document.
type StructuredRecord struct {
	Client             Client             `json:"client"`
	Contract           Contract           `json:"contract"`
	Billing            Billing            `json:"billing"`
	Payment            Payment            `json:"payment"`
	ResponsibleParties ResponsibleParties `json:"responsible_parties"`
	LineItems          []LineItem         `json:"line_items"`
	Validation         ValidationReport   `json:"validation"`
}

// Record is a processed document kept for review and export.
type Record struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	SourceName   string           `db:"source_name" json:"source_name"`
	SourceKey    string           `db:"source_key" json:"source_key,omitempty"`
	Status       ValidationStatus `db:"status" json:"status"`
	WarningCount int              `db:"warning_count" json:"warning_count"`
	MissingCount int              `db:"missing_count" json:"missing_count"`
	Data         StructuredRecord `db:"-" json:"data"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
}

// NewRecord wraps a structured record with its bookkeeping fields.
func NewRecord(sourceName string, data *StructuredRecord) *Record {
	status := ValidationStatusValid
	if len(data.Validation.Warnings) > 0 {
		status = ValidationStatusWarning
	}
	return &Record{
		ID:           uuid.New(),
		SourceName:   sourceName,
		Status:       status,
		WarningCount: len(data.Validation.Warnings),
		MissingCount: len(data.Validation.Missing),
		Data:         *data,
		CreatedAt:    time.Now().UTC(),
	}
}

// SourceFile is an archived upload as read back from object storage.
type SourceFile struct {
	Name        string
	ContentType string
	Data        []byte
}
