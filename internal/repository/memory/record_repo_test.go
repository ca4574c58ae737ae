package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturaval/internal/domain"
)

func newRecord(created time.Time) *domain.Record {
	rec := domain.NewRecord("factura.jpg", &domain.StructuredRecord{})
	rec.CreatedAt = created
	return rec
}

func TestRecordRepo_CreateGetDelete(t *testing.T) {
	repo := NewRecordRepo(0)
	ctx := context.Background()
	rec := newRecord(time.Now())

	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	// Returned records are copies.
	got.SourceName = "changed"
	again, _ := repo.GetByID(ctx, rec.ID)
	assert.Equal(t, "factura.jpg", again.SourceName)

	require.NoError(t, repo.Delete(ctx, rec.ID))
	_, err = repo.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, rec.ID), domain.ErrRecordNotFound)
}

func TestRecordRepo_GetUnknown(t *testing.T) {
	_, err := NewRecordRepo(0).GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestRecordRepo_TTL(t *testing.T) {
	repo := NewRecordRepo(time.Hour)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }
	ctx := context.Background()

	rec := newRecord(clock)
	require.NoError(t, repo.Create(ctx, rec))

	clock = clock.Add(59 * time.Minute)
	_, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)

	clock = clock.Add(time.Minute)
	_, err = repo.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	_, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	assert.Equal(t, 1, repo.Sweep())
	assert.Equal(t, 0, repo.Sweep())
}

func TestRecordRepo_List(t *testing.T) {
	repo := NewRecordRepo(0)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		rec := newRecord(base.Add(time.Duration(i) * time.Minute))
		ids = append(ids, rec.ID)
		require.NoError(t, repo.Create(ctx, rec))
	}

	page, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	page, _, err = repo.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestRecordRepo_Concurrent(t *testing.T) {
	repo := NewRecordRepo(time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := newRecord(time.Now())
			_ = repo.Create(ctx, rec)
			_, _ = repo.GetByID(ctx, rec.ID)
			_, _, _ = repo.List(ctx, 0, 5)
		}()
	}
	wg.Wait()

	_, total, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, total)
}

func TestRecordRepo_RunSweeperStops(t *testing.T) {
	repo := NewRecordRepo(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		repo.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.NoError(t, repo.Ping(ctx))
}
