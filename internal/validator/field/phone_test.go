package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Result
	}{
		{"single mobile with noise", "Tel: 0991234567 otros", Result{Value: "0991234567", Valid: true}},
		{"two mobiles", "0987654321 0912345678", Result{Value: "0987654321/0912345678", Valid: true}},
		{"separators inside number", "099-123-4567", Result{Value: "0991234567", Valid: true}},
		{"landline run skipped", "0221234567 0998765432", Result{Value: "0998765432", Valid: true}},
		{"landline only", " 022123456 ", Result{Value: "022123456", Valid: false}},
		{"too short", "0991234", Result{Value: "0991234", Valid: false}},
		{"no digits", "sin teléfono", Result{Value: "sin teléfono", Valid: false}},
		{"trailing partial run ignored", "099123456709", Result{Value: "0991234567", Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.input))
		})
	}
}

func TestPhone_NonOverlappingRuns(t *testing.T) {
	// "1099..." aligns the second window on "0991234567" only when runs overlap.
	got := Phone("10991234567")
	assert.False(t, got.Valid)
}
