package router_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"facturaval/internal/config"
	"facturaval/internal/domain"
	"facturaval/internal/handler"
	"facturaval/internal/repository/memory"
	"facturaval/internal/router"
	"facturaval/internal/service"
	"facturaval/internal/storage/noop"
	"facturaval/internal/validator"
)

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := validator.NewEngine(validator.DefaultOptions())
	require.NoError(t, err)

	log := zap.NewNop()
	repo := memory.NewRecordRepo(time.Hour)
	svc := service.NewRecordService(engine, nil, repo, noop.NewNoopStorage(log),
		&config.UploadConfig{MaxFileSizeMB: 1}, log)

	r, err := router.Setup(log, []string{"http://localhost:3000"},
		handler.NewRecordHandler(svc, 1<<20),
		handler.NewPageHandler(svc),
		handler.NewHealthHandler(repo))
	require.NoError(t, err)
	return r
}

const samplePayload = `{
  "source": "contrato-0042.jpg",
  "entities": [
    {"type": "Nombrecliente", "mentionText": " Maria Lopez "},
    {"type": "Telefono", "mentionText": "098-765-4321"},
    {"type": "Ruc", "mentionText": "1712345678001"},
    {"type": "Correo", "mentionText": "maria.lopez@gmail.con"},
    {"type": "Fecha_contrato", "mentionText": "12 dia/08 mes 2024. año"},
    {"type": "total_final", "mentionText": "1.234,5"},
    {"type": "producto1_cantidad", "mentionText": "2"},
    {"type": "producto1_detalle", "mentionText": "Cortina roller"},
    {"type": "producto1_valor_total", "mentionText": "$ 300"}
  ]
}`

func TestRouter_FragmentsRoundTrip(t *testing.T) {
	r := newServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/fragments", bytes.NewBufferString(samplePayload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Success bool          `json:"success"`
		Data    domain.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	rec := created.Data

	assert.Equal(t, "contrato-0042.jpg", rec.SourceName)
	assert.Equal(t, domain.ValidationStatusValid, rec.Status)
	assert.Equal(t, "Maria Lopez", *rec.Data.Client.Name)
	assert.Equal(t, "0987654321", *rec.Data.Client.Phone)
	assert.Equal(t, "maria.lopez@gmail.com", *rec.Data.Client.Email)
	assert.Equal(t, "12/08/2024", *rec.Data.Contract.ContractDate)
	assert.Equal(t, "1,234.50", *rec.Data.Billing.Total)
	require.Len(t, rec.Data.LineItems, 1)
	assert.Equal(t, "300.00", *rec.Data.LineItems[0].TotalValue)
	assert.Empty(t, rec.Data.Validation.Warnings)
	assert.Contains(t, rec.Data.Validation.Missing, "Banco")

	id := rec.ID.String()

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/records/"+id, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/records", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/records/"+id+"/download", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "factura_"+id+".json")

	// Fragment records have no archived upload.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/records/"+id+"/source", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "SOURCE_NOT_ARCHIVED")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records/"+id, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Maria Lopez")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/records/"+id, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/records/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_UploadWithoutExtractor(t *testing.T) {
	r := newServer(t)

	// A minimal PNG signature is enough for content sniffing.
	body, contentType := multipartPNG(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "EXTRACTOR_DISABLED")
}

func TestRouter_Health(t *testing.T) {
	r := newServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}

func multipartPNG(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "scan.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
