package port

import (
	"context"

	"github.com/google/uuid"

	"facturaval/internal/domain"
)

// RecordRepository defines the contract for processed record persistence.
type RecordRepository interface {
	Create(ctx context.Context, rec *domain.Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	List(ctx context.Context, offset, limit int) ([]domain.Record, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}
