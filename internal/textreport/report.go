package textreport

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"facturaval/internal/domain"
	"facturaval/internal/validator"
)

// sectionTitles names each record group the way the review staff read it.
var sectionTitles = []struct {
	group string
	title string
}{
	{validator.GroupClient, "clientes"},
	{validator.GroupContract, "contratos"},
	{validator.GroupBilling, "facturacion"},
	{validator.GroupPayment, "pagos"},
	{validator.GroupResponsibleParties, "responsables"},
}

// Write prints a plain-text report of rec: one block per group, a product
// table, then the warnings and missing tags. Absent values print as "-".
func Write(w io.Writer, rec *domain.Record) error {
	pw := &printer{w: w}

	pw.printf("===== %s =====\n", rec.SourceName)
	pw.printf("registro: %s\n", rec.ID)
	pw.printf("estado: %s\n", rec.Status)

	layout := validator.RecordLayout()
	for _, s := range sectionTitles {
		pw.printf("\n=== TABLA: %s ===\n", s.title)
		for _, b := range layout {
			if b.Group != s.group {
				continue
			}
			pw.printf("%s: %s\n", b.Name, orDash(b.Value(&rec.Data)))
		}
	}

	pw.printf("\n=== TABLA: productos ===\n")
	if pw.err != nil {
		return pw.err
	}
	if len(rec.Data.LineItems) == 0 {
		pw.printf("(sin productos)\n")
	} else {
		renderLineItems(w, rec.Data.LineItems)
	}

	if len(rec.Data.Validation.Warnings) > 0 {
		pw.printf("\n=== Advertencias de validación ===\n")
		for _, warning := range rec.Data.Validation.Warnings {
			pw.printf("- %s\n", warning)
		}
	}
	if len(rec.Data.Validation.Missing) > 0 {
		pw.printf("\n=== Campos faltantes (%d) ===\n", len(rec.Data.Validation.Missing))
		for _, tag := range rec.Data.Validation.Missing {
			pw.printf("- %s\n", tag)
		}
	}
	return pw.err
}

func renderLineItems(w io.Writer, items []domain.LineItem) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Cantidad", "Código", "Detalle", "V. Unitario", "V. Total"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	for _, item := range items {
		table.Append([]string{
			strconv.Itoa(item.Position),
			orDash(item.Quantity),
			orDash(item.Code),
			orDash(item.Detail),
			orDash(item.UnitValue),
			orDash(item.TotalValue),
		})
	}
	table.Render()
}

// printer keeps the first write error so the report reads top to bottom.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
