package validator

import (
	"fmt"
	"strings"

	"facturaval/internal/validator/field"
)

// FieldValidator normalizes the raw text of one field kind.
type FieldValidator interface {
	Kind() FieldKind
	Validate(raw string) field.Result
	// Warning returns the sentence reported for an invalid result, or ""
	// when res is valid.
	Warning(raw string, res field.Result) string
}

// kindValidator adapts a normalization function and a warning template to
// FieldValidator.
type kindValidator struct {
	kind     FieldKind
	validate func(string) field.Result
	warn     func(raw string, res field.Result) string
}

func (v *kindValidator) Kind() FieldKind { return v.kind }

func (v *kindValidator) Validate(raw string) field.Result {
	return v.validate(raw)
}

func (v *kindValidator) Warning(raw string, res field.Result) string {
	if res.Valid || v.warn == nil {
		return ""
	}
	return v.warn(raw, res)
}

// FreeformValidator trims the text and never warns.
func FreeformValidator() FieldValidator {
	return &kindValidator{
		kind: KindFreeform,
		validate: func(raw string) field.Result {
			return field.Result{Value: field.Freeform(raw), Valid: true}
		},
	}
}

// PhoneValidator extracts mobile numbers.
func PhoneValidator() FieldValidator {
	return &kindValidator{
		kind:     KindPhone,
		validate: field.Phone,
		warn: func(_ string, res field.Result) string {
			return fmt.Sprintf("Teléfono '%s' no tiene formato ecuatoriano válido (09XXXXXXXX)", res.Value)
		},
	}
}

// NationalIDValidator classifies cédula and RUC numbers.
func NationalIDValidator() FieldValidator {
	return &kindValidator{
		kind:     KindNationalID,
		validate: field.NationalID,
		warn: func(raw string, _ field.Result) string {
			return fmt.Sprintf("Identificación '%s' no es cédula (10 dígitos) ni RUC (13 dígitos) válido", strings.TrimSpace(raw))
		},
	}
}

// EmailValidator rebuilds addresses through n.
func EmailValidator(n *field.EmailNormalizer) FieldValidator {
	return &kindValidator{
		kind:     KindEmail,
		validate: n.Normalize,
		warn: func(raw string, _ field.Result) string {
			return fmt.Sprintf("Correo '%s' podría ser inválido o dominio no reconocido", strings.TrimSpace(raw))
		},
	}
}

// CurrencyValidator formats amounts. The formatter has no validity signal,
// so every result is reported valid and no warning is ever produced.
func CurrencyValidator() FieldValidator {
	return &kindValidator{
		kind: KindCurrency,
		validate: func(raw string) field.Result {
			return field.Result{Value: field.Currency(raw), Valid: true}
		},
	}
}

// DateValidator normalizes dates to dd/mm/yyyy.
func DateValidator() FieldValidator {
	return &kindValidator{
		kind:     KindDate,
		validate: field.Date,
		warn: func(raw string, _ field.Result) string {
			return fmt.Sprintf("Fecha '%s' tiene un formato inválido, se esperaba dd/mm/yyyy", strings.TrimSpace(raw))
		},
	}
}
