package field

import "strings"

// Result is the normalized value of one field plus whether the raw text
// satisfied the field's structural rules.
type Result struct {
	Value string
	Valid bool
}

// keepDigits drops every rune that is not an ASCII digit.
func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Freeform is the passthrough for fields with no structural rules.
func Freeform(text string) string {
	return strings.TrimSpace(text)
}
