package xlsxexport

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"facturaval/internal/domain"
	"facturaval/internal/validator"
)

// Sheet names of the exported workbook.
const (
	SheetRecord     = "Record"
	SheetLineItems  = "Line Items"
	SheetValidation = "Validation"
)

var (
	recordHeaders     = []string{"Group", "Field", "Value"}
	lineItemHeaders   = []string{"Position", "Cantidad", "Código", "Detalle", "Valor Unitario", "Valor Total"}
	validationHeaders = []string{"Type", "Detail"}
)

// Build renders rec as a three-sheet workbook. The caller closes the file.
func Build(rec *domain.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	// The default sheet becomes the record sheet.
	if err := f.SetSheetName("Sheet1", SheetRecord); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("renaming default sheet: %w", err)
	}
	for _, sheet := range []string{SheetLineItems, SheetValidation} {
		if _, err := f.NewSheet(sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("creating sheet %q: %w", sheet, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	steps := []func(*excelize.File, int, *domain.Record) error{
		writeRecordSheet,
		writeLineItemSheet,
		writeValidationSheet,
	}
	for _, step := range steps {
		if err := step(f, bold, rec); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	idx, _ := f.GetSheetIndex(SheetRecord)
	f.SetActiveSheet(idx)
	return f, nil
}

// Write renders rec and streams the workbook to w.
func Write(w io.Writer, rec *domain.Record) error {
	f, err := Build(rec)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRecordSheet(f *excelize.File, headerStyle int, rec *domain.Record) error {
	if err := writeHeaders(f, SheetRecord, recordHeaders, headerStyle); err != nil {
		return err
	}

	rows := [][]any{
		{"record", "id", rec.ID.String()},
		{"record", "source_name", rec.SourceName},
		{"record", "status", string(rec.Status)},
		{"record", "created_at", rec.CreatedAt.Format(time.RFC3339)},
	}
	for _, b := range validator.RecordLayout() {
		rows = append(rows, []any{b.Group, b.Name, deref(b.Value(&rec.Data))})
	}
	return writeRows(f, SheetRecord, rows)
}

func writeLineItemSheet(f *excelize.File, headerStyle int, rec *domain.Record) error {
	if err := writeHeaders(f, SheetLineItems, lineItemHeaders, headerStyle); err != nil {
		return err
	}

	rows := make([][]any, 0, len(rec.Data.LineItems))
	for _, item := range rec.Data.LineItems {
		rows = append(rows, []any{
			item.Position,
			deref(item.Quantity),
			deref(item.Code),
			deref(item.Detail),
			deref(item.UnitValue),
			deref(item.TotalValue),
		})
	}
	return writeRows(f, SheetLineItems, rows)
}

func writeValidationSheet(f *excelize.File, headerStyle int, rec *domain.Record) error {
	if err := writeHeaders(f, SheetValidation, validationHeaders, headerStyle); err != nil {
		return err
	}

	var rows [][]any
	for _, w := range rec.Data.Validation.Warnings {
		rows = append(rows, []any{"warning", w})
	}
	for _, tag := range rec.Data.Validation.Missing {
		rows = append(rows, []any{"missing", tag})
	}
	return writeRows(f, SheetValidation, rows)
}

func writeHeaders(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing %s header: %w", sheet, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

// writeRows writes rows starting below the header.
func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
