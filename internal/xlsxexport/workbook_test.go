package xlsxexport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"facturaval/internal/domain"
	"facturaval/internal/xlsxexport"
)

func strPtr(s string) *string { return &s }

func sampleRecord() *domain.Record {
	return domain.NewRecord("contrato.png", &domain.StructuredRecord{
		Client:   domain.Client{Name: strPtr("Maria Lopez")},
		Contract: domain.Contract{ContractDate: strPtr("12/08/2024")},
		LineItems: []domain.LineItem{
			{Position: 1, Quantity: strPtr("1"), Code: strPtr("A-1"), Detail: strPtr("Persiana"), UnitValue: strPtr("80.00"), TotalValue: strPtr("80.00")},
			{Position: 3, Detail: strPtr("Instalación"), TotalValue: strPtr("25.00")},
		},
		Validation: domain.ValidationReport{
			Warnings: []string{"Teléfono '099' no tiene formato ecuatoriano válido (09XXXXXXXX)"},
			Missing:  []string{"Banco"},
		},
	})
}

func open(t *testing.T, rec *domain.Record) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, xlsxexport.Write(&buf, rec))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWrite_Sheets(t *testing.T) {
	f := open(t, sampleRecord())
	assert.Equal(t,
		[]string{xlsxexport.SheetRecord, xlsxexport.SheetLineItems, xlsxexport.SheetValidation},
		f.GetSheetList())
}

func TestWrite_RecordSheet(t *testing.T) {
	rec := sampleRecord()
	f := open(t, rec)

	rows, err := f.GetRows(xlsxexport.SheetRecord)
	require.NoError(t, err)
	assert.Equal(t, []string{"Group", "Field", "Value"}, rows[0])
	assert.Equal(t, []string{"record", "id", rec.ID.String()}, rows[1])
	assert.Equal(t, []string{"record", "status", "warning"}, rows[3])
	// First layout binding follows the four bookkeeping rows.
	assert.Equal(t, []string{"client", "nombre", "Maria Lopez"}, rows[5])

	var found bool
	for _, row := range rows {
		if len(row) == 3 && row[1] == "fecha_contrato" {
			found = true
			assert.Equal(t, "12/08/2024", row[2])
		}
	}
	assert.True(t, found)
}

func TestWrite_LineItemSheet(t *testing.T) {
	f := open(t, sampleRecord())

	rows, err := f.GetRows(xlsxexport.SheetLineItems)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Position", rows[0][0])
	assert.Equal(t, []string{"1", "1", "A-1", "Persiana", "80.00", "80.00"}, rows[1])
	assert.Equal(t, "3", rows[2][0])
	assert.Equal(t, "Instalación", rows[2][3])
	assert.Equal(t, "25.00", rows[2][5])
}

func TestWrite_ValidationSheet(t *testing.T) {
	f := open(t, sampleRecord())

	rows, err := f.GetRows(xlsxexport.SheetValidation)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "warning", rows[1][0])
	assert.Contains(t, rows[1][1], "'099'")
	assert.Equal(t, []string{"missing", "Banco"}, rows[2])
}

func TestBuild_EmptyRecord(t *testing.T) {
	f, err := xlsxexport.Build(domain.NewRecord("vacio.json", &domain.StructuredRecord{}))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxexport.SheetLineItems)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
