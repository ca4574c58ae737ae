package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"facturaval/internal/config"
	"facturaval/internal/domain"
	"facturaval/internal/port"
)

// RecordEngine builds a structured record from extraction fragments.
type RecordEngine interface {
	Process(fields []domain.RawField) (*domain.StructuredRecord, error)
}

// UploadInput is the DTO for document image uploads.
type UploadInput struct {
	FileName string
	Size     int64
	Body     io.Reader
}

// FragmentsInput is the DTO for pre-extracted fragments.
type FragmentsInput struct {
	Source   string
	Entities []domain.RawField
}

// RecordService defines the record processing contract.
type RecordService interface {
	ProcessUpload(ctx context.Context, input UploadInput) (*domain.Record, error)
	ProcessFragments(ctx context.Context, input FragmentsInput) (*domain.Record, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	List(ctx context.Context, offset, limit int) ([]domain.Record, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Source(ctx context.Context, id uuid.UUID) (*domain.SourceFile, error)
}

type recordService struct {
	engine    RecordEngine
	extractor port.FragmentExtractor
	repo      port.RecordRepository
	storage   port.ObjectStorage
	cfg       *config.UploadConfig
	log       *zap.Logger
}

// NewRecordService creates a new RecordService implementation. extractor
// may be nil, in which case uploads fail with ErrExtractorDisabled.
func NewRecordService(
	engine RecordEngine,
	extractor port.FragmentExtractor,
	repo port.RecordRepository,
	storage port.ObjectStorage,
	cfg *config.UploadConfig,
	log *zap.Logger,
) RecordService {
	return &recordService{
		engine:    engine,
		extractor: extractor,
		repo:      repo,
		storage:   storage,
		cfg:       cfg,
		log:       log,
	}
}

func (s *recordService) ProcessUpload(ctx context.Context, input UploadInput) (*domain.Record, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxBytes()
	if input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// The declared size may be missing or wrong, so cap the read as well.
	data, err := io.ReadAll(io.LimitReader(input.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Magic-byte content type detection
	contentType := http.DetectContentType(data)
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	if s.extractor == nil {
		return nil, domain.ErrExtractorDisabled
	}

	s.log.Info("recordService.ProcessUpload: extracting document",
		zap.String("file", input.FileName),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)))

	fields, err := s.extractor.Extract(ctx, port.ExtractInput{FileBytes: data, ContentType: contentType})
	if err != nil {
		s.log.Error("recordService.ProcessUpload: extraction failed", zap.String("file", input.FileName), zap.Error(err))
		if errors.Is(err, domain.ErrExtractionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	rec, err := s.build(input.FileName, fields)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("records/%s/%s", rec.ID, filepath.Base(input.FileName))
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		s.log.Error("recordService.ProcessUpload: archiving source failed", zap.String("record_id", rec.ID.String()), zap.Error(err))
		return nil, domain.ErrUploadFailed
	}
	// The noop storage reports no location: nothing was archived.
	if out.Location != "" {
		rec.SourceKey = key
	}

	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *recordService) ProcessFragments(ctx context.Context, input FragmentsInput) (*domain.Record, error) {
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = "fragments.json"
	}

	rec, err := s.build(source, input.Entities)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *recordService) build(source string, fields []domain.RawField) (*domain.Record, error) {
	data, err := s.engine.Process(fields)
	if err != nil {
		return nil, fmt.Errorf("processing fragments: %w", err)
	}
	rec := domain.NewRecord(source, data)

	s.log.Info("recordService.build: record assembled",
		zap.String("record_id", rec.ID.String()),
		zap.String("source", source),
		zap.Int("fragments", len(fields)),
		zap.Int("line_items", len(data.LineItems)),
		zap.Int("warnings", rec.WarningCount),
		zap.Int("missing", rec.MissingCount))
	return rec, nil
}

func (s *recordService) save(ctx context.Context, rec *domain.Record) error {
	if err := s.repo.Create(ctx, rec); err != nil {
		s.log.Error("recordService.save: storing record failed", zap.String("record_id", rec.ID.String()), zap.Error(err))
		return fmt.Errorf("storing record: %w", err)
	}
	return nil
}

func (s *recordService) Get(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *recordService) List(ctx context.Context, offset, limit int) ([]domain.Record, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *recordService) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if rec.SourceKey != "" {
		if err := s.storage.Delete(ctx, rec.SourceKey); err != nil {
			// The record is gone already; an orphaned object is only logged.
			s.log.Warn("recordService.Delete: removing archived source failed",
				zap.String("record_id", id.String()), zap.String("key", rec.SourceKey), zap.Error(err))
		}
	}
	return nil
}

// Source reads back the archived upload of a record. Records built from
// fragments, or stored while archival was disabled, have none.
func (s *recordService) Source(ctx context.Context, id uuid.UUID) (*domain.SourceFile, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.SourceKey == "" {
		return nil, domain.ErrSourceNotArchived
	}

	data, err := s.storage.Download(ctx, rec.SourceKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("recordService.Source: archived object missing",
				zap.String("record_id", id.String()), zap.String("key", rec.SourceKey))
			return nil, domain.ErrSourceNotArchived
		}
		return nil, fmt.Errorf("downloading source: %w", err)
	}

	return &domain.SourceFile{
		Name:        filepath.Base(rec.SourceKey),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
