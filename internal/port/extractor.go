package port

import (
	"context"

	"facturaval/internal/domain"
)

// ExtractInput carries the document sent to the extraction service.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// FragmentExtractor turns a document image into labeled text fragments.
type FragmentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) ([]domain.RawField, error)
}
