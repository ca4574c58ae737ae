package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"facturaval/internal/domain"
	"facturaval/internal/service"
	"facturaval/internal/validator"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded review pages. Install the result with
// gin.Engine.SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("pages").
		Funcs(template.FuncMap{"deref": deref}).
		ParseFS(templateFS, "templates/*.html")
}

var groupTitles = []struct {
	group string
	title string
}{
	{validator.GroupClient, "Cliente"},
	{validator.GroupContract, "Contrato"},
	{validator.GroupBilling, "Facturación"},
	{validator.GroupPayment, "Pago"},
	{validator.GroupResponsibleParties, "Responsables"},
}

type fieldRow struct {
	Label string
	Value string
}

type fieldGroup struct {
	Title string
	Rows  []fieldRow
}

// PageHandler serves the HTML upload form and review page.
type PageHandler struct {
	recordService service.RecordService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(recordService service.RecordService) *PageHandler {
	return &PageHandler{recordService: recordService}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": "Subir factura"})
}

// Upload handles POST /upload
// On success the browser is sent to the review page of the new record.
func (h *PageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.HTML(http.StatusBadRequest, "index.html", gin.H{"Title": "Subir factura", "Error": "Archivo no enviado"})
		return
	}
	defer func() { _ = file.Close() }()

	rec, err := h.recordService.ProcessUpload(c.Request.Context(), service.UploadInput{
		FileName: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		status, _, msg := MapDomainError(err)
		if status >= 500 {
			logInternal(c, err)
		}
		c.HTML(status, "index.html", gin.H{"Title": "Subir factura", "Error": msg})
		return
	}

	c.Redirect(http.StatusSeeOther, "/records/"+rec.ID.String())
}

// Show handles GET /records/:id
func (h *PageHandler) Show(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Title": "Registro inválido", "Error": "invalid record ID"})
		return
	}

	rec, err := h.recordService.Get(c.Request.Context(), id)
	if err != nil {
		status, _, msg := MapDomainError(err)
		if status >= 500 {
			logInternal(c, err)
		}
		c.HTML(status, "error.html", gin.H{"Title": "Registro no disponible", "Error": msg})
		return
	}

	c.HTML(http.StatusOK, "record.html", gin.H{
		"Title":  rec.SourceName,
		"Record": rec,
		"Groups": buildGroups(&rec.Data),
	})
}

func buildGroups(data *domain.StructuredRecord) []fieldGroup {
	layout := validator.RecordLayout()
	groups := make([]fieldGroup, 0, len(groupTitles))
	for _, g := range groupTitles {
		fg := fieldGroup{Title: g.title}
		for _, b := range layout {
			if b.Group == g.group {
				fg.Rows = append(fg.Rows, fieldRow{Label: b.Name, Value: deref(b.Value(data))})
			}
		}
		groups = append(groups, fg)
	}
	return groups
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
