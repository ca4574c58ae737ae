package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNationalID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Result
	}{
		{"cedula", "1234567890", Result{Value: "Cédula:1234567890", Valid: true}},
		{"cedula with dashes", "123456789-0", Result{Value: "Cédula:1234567890", Valid: true}},
		{"ruc", "1234567890123", Result{Value: "RUC:1234567890123", Valid: true}},
		{"ruc with label", "RUC: 1234567890 001", Result{Value: "RUC:1234567890001", Valid: true}},
		{"too short", "12345", Result{Value: NationalIDInvalid, Valid: false}},
		{"eleven digits", "12345678901", Result{Value: NationalIDInvalid, Valid: false}},
		{"no digits", "n/a", Result{Value: NationalIDInvalid, Valid: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NationalID(tt.input))
		})
	}
}

func TestNationalID_SentinelDiffersFromEmail(t *testing.T) {
	assert.NotEqual(t, NationalIDInvalid, EmailInvalid)
}
