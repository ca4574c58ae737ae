package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Result
	}{
		{"ocr words", "12 dia/08 mes 2024. año", Result{Value: "12/08/2024", Valid: true}},
		{"ocr words upper case", "5 DIA 3 MES 2023", Result{Value: "05/03/2023", Valid: true}},
		{"slashes", "12/08/2024", Result{Value: "12/08/2024", Valid: true}},
		{"single digit parts", "1/2/2024", Result{Value: "01/02/2024", Valid: true}},
		{"dashes", "12-08-2024", Result{Value: "12/08/2024", Valid: true}},
		{"iso", "2024-08-12", Result{Value: "12/08/2024", Valid: true}},
		{"two digit year", "12/08/24", Result{Value: "12/08/2024", Valid: true}},
		{"stripped retry", "12/08/24 hrs", Result{Value: "12/08/2024", Valid: true}},
		{"invalid text", "texto inválido", Result{Value: "texto inválido", Valid: false}},
		{"empty", "   ", Result{Value: "", Valid: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.input))
		})
	}
}

func TestDate_CalendarErrorFallsThrough(t *testing.T) {
	got := Date("32/13/2024")
	assert.False(t, got.Valid)
	assert.Equal(t, "32/13/2024", got.Value)

	got = Date("31/02/2024")
	assert.False(t, got.Valid)
}

func TestCalendarDate(t *testing.T) {
	_, ok := calendarDate(2024, 2, 29)
	assert.True(t, ok)

	_, ok = calendarDate(2023, 2, 29)
	assert.False(t, ok)

	_, ok = calendarDate(2024, 0, 10)
	assert.False(t, ok)
}
