package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"facturaval/internal/csvexport"
	"facturaval/internal/domain"
	"facturaval/internal/extractor/fragments"
	"facturaval/internal/service"
	"facturaval/internal/xlsxexport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecordHandler handles record processing, retrieval and export endpoints.
type RecordHandler struct {
	recordService service.RecordService
	maxBodyBytes  int64
}

// NewRecordHandler creates a new RecordHandler. maxBodyBytes caps JSON
// fragment payloads the same way uploads are capped.
func NewRecordHandler(recordService service.RecordService, maxBodyBytes int64) *RecordHandler {
	return &RecordHandler{recordService: recordService, maxBodyBytes: maxBodyBytes}
}

// Create handles POST /api/v1/records
// @Summary Process a document image
// @Description Upload a pdf, jpg or png, run extraction and field validation, and store the record
// @Tags records
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document image"
// @Success 201 {object} APIResponse{data=domain.Record} "Record created"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 502 {object} APIResponse "Extraction failed"
// @Failure 503 {object} APIResponse "Extractor not configured"
// @Router /records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	rec, err := h.recordService.ProcessUpload(c.Request.Context(), service.UploadInput{
		FileName: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, rec)
}

// CreateFromFragments handles POST /api/v1/records/fragments
// @Summary Process pre-extracted fragments
// @Description Validate a {source, entities} payload or a raw processor response and store the record
// @Tags records
// @Accept json
// @Produce json
// @Success 201 {object} APIResponse{data=domain.Record} "Record created"
// @Failure 400 {object} APIResponse "Invalid fragments payload"
// @Failure 413 {object} APIResponse "Payload too large"
// @Router /records/fragments [post]
func (h *RecordHandler) CreateFromFragments(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	payload, err := fragments.DecodeReader(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = domain.ErrFileTooLarge
		}
		HandleError(c, err)
		return
	}

	rec, err := h.recordService.ProcessFragments(c.Request.Context(), service.FragmentsInput{
		Source:   payload.Source,
		Entities: payload.Entities,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, rec)
}

// Get handles GET /api/v1/records/:id
// @Summary Get a record
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} APIResponse{data=domain.Record} "Record"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Record not found or expired"
// @Router /records/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	rec, err := h.recordService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// List handles GET /api/v1/records
// @Summary List records
// @Tags records
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} APIResponse{data=[]domain.Record} "Records"
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	records, total, err := h.recordService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	if records == nil {
		records = []domain.Record{}
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Delete handles DELETE /api/v1/records/:id
// @Summary Delete a record and its archived source
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} APIResponse "Record deleted"
// @Failure 404 {object} APIResponse "Record not found or expired"
// @Router /records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	if err := h.recordService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "record deleted"})
}

// Download handles GET /api/v1/records/:id/download
// @Summary Download the structured record as factura_<id>.json
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {file} file "JSON attachment"
// @Failure 404 {object} APIResponse "Record not found or expired"
// @Router /records/{id}/download [get]
func (h *RecordHandler) Download(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	rec, err := h.recordService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	body, err := json.MarshalIndent(rec.Data, "", "  ")
	if err != nil {
		HandleError(c, fmt.Errorf("encoding record: %w", err))
		return
	}

	setAttachment(c, fmt.Sprintf("factura_%s.json", rec.ID))
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Export handles GET /api/v1/records/:id/export?format=csv|xlsx
// @Summary Export a record as CSV or an Excel workbook
// @Tags records
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Record ID"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Export attachment"
// @Failure 400 {object} APIResponse "Unsupported format"
// @Failure 404 {object} APIResponse "Record not found or expired"
// @Router /records/{id}/export [get]
func (h *RecordHandler) Export(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	format := domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportFormatCSV))))
	if format != domain.ExportFormatCSV && format != domain.ExportFormatXLSX {
		HandleError(c, domain.ErrUnsupportedFormat)
		return
	}

	rec, err := h.recordService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	var contentType string
	switch format {
	case domain.ExportFormatXLSX:
		if err := xlsxexport.Write(&buf, rec); err != nil {
			HandleError(c, err)
			return
		}
		contentType = xlsxContentType
	default:
		buf.Write(csvexport.BOM)
		w := csvexport.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, err)
			return
		}
		if err := w.WriteRecord(rec); err != nil {
			HandleError(c, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
		contentType = "text/csv; charset=utf-8"
	}

	setAttachment(c, csvexport.BuildFilename("factura_"+rec.ID.String(), string(format)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// Source handles GET /api/v1/records/:id/source
// @Summary Download the archived source document
// @Tags records
// @Produce application/octet-stream
// @Param id path string true "Record ID"
// @Success 200 {file} file "Original upload"
// @Failure 404 {object} APIResponse "Record missing or source not archived"
// @Router /records/{id}/source [get]
func (h *RecordHandler) Source(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	src, err := h.recordService.Source(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(src.Name))
	setAttachment(c, csvexport.SanitizeFilename(strings.TrimSuffix(src.Name, filepath.Ext(src.Name)))+ext)
	c.Data(http.StatusOK, src.ContentType, src.Data)
}

func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}

func parseRecordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
