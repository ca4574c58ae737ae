package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"facturaval/internal/domain"
	"facturaval/internal/port"
)

// recordRow is the records table layout; the structured record lives in a
// JSONB column.
type recordRow struct {
	ID           uuid.UUID               `db:"id"`
	SourceName   string                  `db:"source_name"`
	SourceKey    string                  `db:"source_key"`
	Status       domain.ValidationStatus `db:"status"`
	WarningCount int                     `db:"warning_count"`
	MissingCount int                     `db:"missing_count"`
	Data         []byte                  `db:"data"`
	CreatedAt    time.Time               `db:"created_at"`
}

func toRow(rec *domain.Record) (*recordRow, error) {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("marshaling record data: %w", err)
	}
	return &recordRow{
		ID:           rec.ID,
		SourceName:   rec.SourceName,
		SourceKey:    rec.SourceKey,
		Status:       rec.Status,
		WarningCount: rec.WarningCount,
		MissingCount: rec.MissingCount,
		Data:         data,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

func (row *recordRow) toRecord() (*domain.Record, error) {
	rec := &domain.Record{
		ID:           row.ID,
		SourceName:   row.SourceName,
		SourceKey:    row.SourceKey,
		Status:       row.Status,
		WarningCount: row.WarningCount,
		MissingCount: row.MissingCount,
		CreatedAt:    row.CreatedAt,
	}
	if err := json.Unmarshal(row.Data, &rec.Data); err != nil {
		return nil, fmt.Errorf("unmarshaling record data: %w", err)
	}
	return rec, nil
}

type recordRepo struct {
	db *sqlx.DB
}

// NewRecordRepo creates a new PostgreSQL-backed RecordRepository.
func NewRecordRepo(db *sqlx.DB) port.RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Create(ctx context.Context, rec *domain.Record) error {
	row, err := toRow(rec)
	if err != nil {
		return fmt.Errorf("recordRepo.Create: %w", err)
	}

	query := `INSERT INTO records (
		id, source_name, source_key, status,
		warning_count, missing_count, data, created_at
	) VALUES (
		:id, :source_name, :source_key, :status,
		:warning_count, :missing_count, :data, :created_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("recordRepo.Create: %w", err)
	}
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	var row recordRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("recordRepo.GetByID: %w", err)
	}
	rec, err := row.toRecord()
	if err != nil {
		return nil, fmt.Errorf("recordRepo.GetByID: %w", err)
	}
	return rec, nil
}

func (r *recordRepo) List(ctx context.Context, offset, limit int) ([]domain.Record, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM records"); err != nil {
		return nil, 0, fmt.Errorf("recordRepo.List count: %w", err)
	}

	var rows []recordRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM records ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("recordRepo.List: %w", err)
	}

	records := make([]domain.Record, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toRecord()
		if err != nil {
			return nil, 0, fmt.Errorf("recordRepo.List: %w", err)
		}
		records = append(records, *rec)
	}
	return records, total, nil
}

func (r *recordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("recordRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("recordRepo.Delete rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *recordRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
