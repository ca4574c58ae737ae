package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"facturaval/internal/domain"
	"facturaval/internal/validator"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{"Section", "Field", "Value"}

// Sections used for rows that are not part of the record layout.
const (
	SectionRecord     = "record"
	SectionLineItems  = "line_items"
	SectionValidation = "validation"
)

// Writer wraps csv.Writer for exporting records as Section/Field/Value rows.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecord writes one record: bookkeeping rows, every layout field in
// display order, one row per line item field, then warnings and missing tags.
func (w *Writer) WriteRecord(rec *domain.Record) error {
	for _, row := range recordToRows(rec) {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func recordToRows(rec *domain.Record) [][]string {
	rows := [][]string{
		{SectionRecord, "id", rec.ID.String()},
		{SectionRecord, "source_name", rec.SourceName},
		{SectionRecord, "status", string(rec.Status)},
		{SectionRecord, "created_at", rec.CreatedAt.Format(time.RFC3339)},
	}

	data := &rec.Data
	for _, b := range validator.RecordLayout() {
		rows = append(rows, []string{b.Group, b.Name, deref(b.Value(data))})
	}

	for _, item := range data.LineItems {
		prefix := fmt.Sprintf("%d.", item.Position)
		rows = append(rows,
			[]string{SectionLineItems, prefix + validator.ItemQuantity, deref(item.Quantity)},
			[]string{SectionLineItems, prefix + validator.ItemCode, deref(item.Code)},
			[]string{SectionLineItems, prefix + validator.ItemDetail, deref(item.Detail)},
			[]string{SectionLineItems, prefix + validator.ItemUnitValue, deref(item.UnitValue)},
			[]string{SectionLineItems, prefix + validator.ItemTotalValue, deref(item.TotalValue)},
		)
	}

	for _, warning := range data.Validation.Warnings {
		rows = append(rows, []string{SectionValidation, "warning", warning})
	}
	for _, tag := range data.Validation.Missing {
		rows = append(rows, []string{SectionValidation, "missing", tag})
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
