package validator

import "facturaval/internal/domain"

// AssembleLineItems groups the positional product tags of slots 1..slots
// into line items.
//
// A slot yields an item only when at least one of its five fields is
// non-empty; its five tags are then reported as consumed. Empty slots
// produce neither an item nor consumed tags. fields is not modified.
func AssembleLineItems(fields FieldMap, slots int) ([]domain.LineItem, []string) {
	items := make([]domain.LineItem, 0)
	var consumed []string

	for i := 1; i <= slots; i++ {
		values := make(map[string]*string, len(LineItemFields))
		filled := false
		for _, f := range LineItemFields {
			if v, ok := fields[LineItemTag(i, f)]; ok && v != "" {
				values[f] = &v
				filled = true
			}
		}
		if !filled {
			continue
		}

		items = append(items, domain.LineItem{
			Position:   i,
			Quantity:   values[ItemQuantity],
			Code:       values[ItemCode],
			Detail:     values[ItemDetail],
			UnitValue:  values[ItemUnitValue],
			TotalValue: values[ItemTotalValue],
		})
		for _, f := range LineItemFields {
			consumed = append(consumed, LineItemTag(i, f))
		}
	}
	return items, consumed
}
