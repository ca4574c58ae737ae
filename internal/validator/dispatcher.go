package validator

import (
	"fmt"
	"strings"

	"facturaval/internal/domain"
)

// FieldMap holds one validated value per distinct tag.
type FieldMap map[string]string

// Dispatcher routes raw fragments to their validators. Routes are resolved
// from the catalogue once, when the dispatcher is built.
type Dispatcher struct {
	routes map[string]FieldValidator
}

// NewDispatcher resolves a validator for every catalogue tag. It fails when
// the registry lacks any kind, used by the catalogue or not.
func NewDispatcher(c *Catalogue, r *Registry) (*Dispatcher, error) {
	for _, kind := range FieldKinds() {
		if r.Get(kind) == nil {
			return nil, fmt.Errorf("no validator registered for kind %s", kind)
		}
	}

	routes := make(map[string]FieldValidator, c.Len())
	for _, tag := range c.Tags() {
		kind, _ := c.Kind(tag)
		routes[tag] = r.Get(kind)
	}
	return &Dispatcher{routes: routes}, nil
}

// Dispatch validates every fragment in order.
//
// Fragments with an unknown tag or blank text are dropped silently. When a
// tag repeats, the later value replaces the earlier one in the map, while
// every invalid occurrence still adds its own warning. Warnings keep the
// order of the input.
func (d *Dispatcher) Dispatch(fields []domain.RawField) (FieldMap, []string) {
	values := make(FieldMap, len(fields))
	warnings := make([]string, 0)

	for _, f := range fields {
		v, ok := d.routes[f.Tag]
		if !ok || strings.TrimSpace(f.Text) == "" {
			continue
		}
		res := v.Validate(f.Text)
		values[f.Tag] = res.Value
		if w := v.Warning(f.Text, res); w != "" {
			warnings = append(warnings, w)
		}
	}
	return values, warnings
}
