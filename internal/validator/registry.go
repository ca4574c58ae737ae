package validator

import "facturaval/internal/validator/field"

// Registry maps each FieldKind to its FieldValidator.
type Registry struct {
	validators map[FieldKind]FieldValidator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[FieldKind]FieldValidator)}
}

// NewDefaultRegistry registers the built-in validator of every kind.
func NewDefaultRegistry(emails *field.EmailNormalizer) *Registry {
	r := NewRegistry()
	r.Register(FreeformValidator())
	r.Register(PhoneValidator())
	r.Register(NationalIDValidator())
	r.Register(EmailValidator(emails))
	r.Register(CurrencyValidator())
	r.Register(DateValidator())
	return r
}

// Register adds a validator to the registry, replacing any previous one of
// the same kind.
func (r *Registry) Register(v FieldValidator) {
	r.validators[v.Kind()] = v
}

// Get returns the validator for a given kind, or nil if not found.
func (r *Registry) Get(kind FieldKind) FieldValidator {
	return r.validators[kind]
}
