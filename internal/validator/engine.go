package validator

import (
	"fmt"

	"facturaval/internal/domain"
	"facturaval/internal/validator/field"
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	LineItemSlots    int
	Domains          *field.DomainKnowledgeBase
	SimilarityCutoff float64
}

// DefaultOptions returns the built-in engine configuration.
func DefaultOptions() Options {
	return Options{
		LineItemSlots:    DefaultLineItemSlots,
		Domains:          field.DefaultDomainKnowledgeBase(),
		SimilarityCutoff: field.DefaultSimilarityCutoff,
	}
}

// Engine turns the fragments of one document into a structured record.
// It holds no per-document state and is safe for concurrent use.
type Engine struct {
	catalogue  *Catalogue
	registry   *Registry
	dispatcher *Dispatcher
}

// NewEngine builds the catalogue, validators and dispatcher.
func NewEngine(opts Options) (*Engine, error) {
	def := DefaultOptions()
	if opts.LineItemSlots == 0 {
		opts.LineItemSlots = def.LineItemSlots
	}
	if opts.Domains == nil {
		opts.Domains = def.Domains
	}
	if opts.SimilarityCutoff == 0 {
		opts.SimilarityCutoff = def.SimilarityCutoff
	}

	catalogue, err := NewCatalogue(opts.LineItemSlots)
	if err != nil {
		return nil, fmt.Errorf("building catalogue: %w", err)
	}
	matcher, err := field.NewDomainMatcher(opts.Domains, opts.SimilarityCutoff)
	if err != nil {
		return nil, fmt.Errorf("building domain matcher: %w", err)
	}
	registry := NewDefaultRegistry(field.NewEmailNormalizer(matcher))
	dispatcher, err := NewDispatcher(catalogue, registry)
	if err != nil {
		return nil, fmt.Errorf("building dispatcher: %w", err)
	}

	return &Engine{
		catalogue:  catalogue,
		registry:   registry,
		dispatcher: dispatcher,
	}, nil
}

// Process runs dispatch, line-item assembly, reconciliation and record
// assembly. A nil fields slice means no extraction result at all and is
// the only error; an empty slice yields a record with everything missing.
func (e *Engine) Process(fields []domain.RawField) (*domain.StructuredRecord, error) {
	if fields == nil {
		return nil, domain.ErrNoFragments
	}

	values, warnings := e.Dispatch(fields)
	items, consumed := AssembleLineItems(values, e.catalogue.Slots())
	missing := Reconcile(e.catalogue, values, consumed)
	return AssembleRecord(values, items, warnings, missing), nil
}

// Dispatch validates fragments without assembling a record.
func (e *Engine) Dispatch(fields []domain.RawField) (FieldMap, []string) {
	return e.dispatcher.Dispatch(fields)
}

// Catalogue returns the engine's expected tag catalogue.
func (e *Engine) Catalogue() *Catalogue {
	return e.catalogue
}

// Validator returns the validator used for kind.
func (e *Engine) Validator(kind FieldKind) FieldValidator {
	return e.registry.Get(kind)
}
