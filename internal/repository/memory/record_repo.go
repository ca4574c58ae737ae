package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"facturaval/internal/domain"
)

type entry struct {
	rec       domain.Record
	expiresAt time.Time
}

// RecordRepo keeps records in process memory. With a positive TTL a record
// expires that long after it was stored, like a browser session.
type RecordRepo struct {
	mu      sync.RWMutex
	records map[uuid.UUID]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewRecordRepo creates an in-memory RecordRepository. ttl <= 0 keeps
// records until they are deleted.
func NewRecordRepo(ttl time.Duration) *RecordRepo {
	return &RecordRepo{
		records: make(map[uuid.UUID]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *RecordRepo) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt)
}

func (r *RecordRepo) Create(_ context.Context, rec *domain.Record) error {
	e := entry{rec: *rec}
	if r.ttl > 0 {
		e.expiresAt = r.now().Add(r.ttl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = e
	return nil
}

func (r *RecordRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Record, error) {
	r.mu.RLock()
	e, ok := r.records[id]
	r.mu.RUnlock()

	if !ok || r.expired(e) {
		return nil, domain.ErrRecordNotFound
	}
	rec := e.rec
	return &rec, nil
}

// List returns live records, newest first.
func (r *RecordRepo) List(_ context.Context, offset, limit int) ([]domain.Record, int, error) {
	r.mu.RLock()
	live := make([]domain.Record, 0, len(r.records))
	for _, e := range r.records {
		if !r.expired(e) {
			live = append(live, e.rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(live, func(i, j int) bool {
		if live[i].CreatedAt.Equal(live[j].CreatedAt) {
			return live[i].ID.String() < live[j].ID.String()
		}
		return live[i].CreatedAt.After(live[j].CreatedAt)
	})

	total := len(live)
	if offset >= total {
		return []domain.Record{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return live[offset:end], total, nil
}

func (r *RecordRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.records[id]
	if !ok || r.expired(e) {
		return domain.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *RecordRepo) Ping(_ context.Context) error {
	return nil
}

// Sweep drops expired records and returns how many were removed.
func (r *RecordRepo) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.records {
		if r.expired(e) {
			delete(r.records, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *RecordRepo) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
