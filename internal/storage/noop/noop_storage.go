package noop

import (
	"context"

	"go.uber.org/zap"

	"facturaval/internal/domain"
	"facturaval/internal/port"
)

type noopStorage struct {
	log *zap.Logger
}

// NewNoopStorage creates an ObjectStorage that keeps nothing. It is used
// when no bucket is configured; source documents are then not archived.
func NewNoopStorage(log *zap.Logger) port.ObjectStorage {
	return &noopStorage{log: log}
}

func (s *noopStorage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	s.log.Debug("noopStorage.Upload: archival disabled, discarding source",
		zap.String("key", input.Key), zap.Int64("size", input.Size))
	return &port.UploadOutput{}, nil
}

func (s *noopStorage) Download(_ context.Context, _ string) ([]byte, error) {
	return nil, domain.ErrNotFound
}

func (s *noopStorage) Delete(_ context.Context, _ string) error {
	return nil
}
