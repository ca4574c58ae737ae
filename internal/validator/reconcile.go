package validator

// Reconcile returns the catalogue tags that are neither in fields nor
// consumed by a line item, sorted.
func Reconcile(c *Catalogue, fields FieldMap, consumed []string) []string {
	used := make(map[string]struct{}, len(consumed))
	for _, tag := range consumed {
		used[tag] = struct{}{}
	}

	missing := make([]string, 0)
	for _, tag := range c.Tags() {
		if _, ok := fields[tag]; ok {
			continue
		}
		if _, ok := used[tag]; ok {
			continue
		}
		missing = append(missing, tag)
	}
	return missing
}
