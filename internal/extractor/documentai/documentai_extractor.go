package documentai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"facturaval/internal/config"
	"facturaval/internal/domain"
	"facturaval/internal/extractor/fragments"
	"facturaval/internal/port"
)

// Extractor implements port.FragmentExtractor using the Document AI
// REST :process endpoint of a custom extractor processor.
type Extractor struct {
	accessToken string
	endpoint    string
	client      *http.Client
	log         *zap.Logger
}

// NewExtractor creates a Document AI extractor for the configured processor.
func NewExtractor(cfg *config.ExtractorConfig, log *zap.Logger) (*Extractor, error) {
	if !cfg.Enabled() {
		return nil, errors.New("documentai: project_id and processor_id are required")
	}
	return newExtractor(cfg, ProcessURL(cfg), log), nil
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ExtractorConfig, endpoint string, log *zap.Logger) *Extractor {
	return newExtractor(cfg, endpoint, log)
}

func newExtractor(cfg *config.ExtractorConfig, endpoint string, log *zap.Logger) *Extractor {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		accessToken: cfg.AccessToken,
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
		log:         log,
	}
}

// ProcessURL builds the :process URL. An explicit endpoint overrides the
// regional host; the processor version is optional.
func ProcessURL(cfg *config.ExtractorConfig) string {
	host := cfg.Endpoint
	if host == "" {
		host = fmt.Sprintf("https://%s-documentai.googleapis.com", cfg.Location)
	}
	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", cfg.ProjectID, cfg.Location, cfg.ProcessorID)
	if cfg.ProcessorVersionID != "" {
		name += "/processorVersions/" + cfg.ProcessorVersionID
	}
	return fmt.Sprintf("%s/v1/%s:process", host, name)
}

type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type rawDocument struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) ([]domain.RawField, error) {
	if _, ok := domain.AllowedContentTypes[input.ContentType]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, input.ContentType)
	}

	bodyBytes, err := json.Marshal(processRequest{
		RawDocument: rawDocument{
			Content:  base64.StdEncoding.EncodeToString(input.FileBytes),
			MimeType: input.ContentType,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+e.accessToken)
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling documentai: %v", domain.ErrExtractionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrExtractionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: documentai status %d: %s", domain.ErrExtractionFailed, resp.StatusCode, truncate(string(respBody), 500))
	}

	payload, err := fragments.Decode(respBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	e.log.Info("documentai.Extract: document processed",
		zap.Int("entities", len(payload.Entities)),
		zap.Int("bytes", len(input.FileBytes)),
		zap.Duration("elapsed", time.Since(start)))
	return payload.Entities, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
