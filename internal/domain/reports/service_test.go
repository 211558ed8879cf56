package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/inventory"
)

// stubRepo serves a fixed record set and counts range loads.
type stubRepo struct {
	records    []inventory.Record
	stats      inventory.Stats
	rangeCalls int
}

func (s *stubRepo) Create(ctx context.Context, rec *inventory.Record) error { return nil }
func (s *stubRepo) Update(ctx context.Context, rec *inventory.Record) error { return nil }

func (s *stubRepo) ListRecent(ctx context.Context, limit int) ([]inventory.Record, error) {
	return s.records, nil
}

func (s *stubRepo) Search(ctx context.Context, term string, limit int) ([]inventory.Record, error) {
	return s.records, nil
}

func (s *stubRepo) ListByItem(ctx context.Context, itemName string, limit int) ([]inventory.Record, error) {
	return s.records, nil
}

func (s *stubRepo) GetLatestByItem(ctx context.Context, itemName string) (*inventory.Record, error) {
	return nil, apperror.NewNotFound("record", itemName)
}

func (s *stubRepo) GetByItemAndDate(ctx context.Context, itemName string, date time.Time) (*inventory.Record, error) {
	return nil, apperror.NewNotFound("record", itemName)
}

func (s *stubRepo) ListRange(ctx context.Context, from, to time.Time) ([]inventory.Record, error) {
	s.rangeCalls++
	return s.records, nil
}

func (s *stubRepo) GetStats(ctx context.Context) (inventory.Stats, error) {
	return s.stats, nil
}

// mapCache is an in-memory BundleCache.
type mapCache struct {
	entries map[string]*Bundle
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*Bundle)}
}

func (c *mapCache) Get(ctx context.Context, key string) (*Bundle, bool, error) {
	b, ok := c.entries[key]
	return b, ok, nil
}

func (c *mapCache) Set(ctx context.Context, key string, b *Bundle, ttl time.Duration) error {
	c.entries[key] = b
	c.sets++
	return nil
}

func TestGetBundle_InvalidRange(t *testing.T) {
	svc := NewService(&stubRepo{}, nil, 0)

	_, err := svc.GetBundle(context.Background(), NewDateRange(date("2026-08-23"), date("2026-08-17")))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestGetBundle_CacheMissThenHit(t *testing.T) {
	repo := &stubRepo{
		records: []inventory.Record{
			rec("A", "2026-08-18", 10, 40, 25, 0, 0, 0),
		},
		stats: inventory.Stats{Count: 1, LastModified: date("2026-08-18")},
	}
	cache := newMapCache()
	svc := NewService(repo, cache, time.Minute)

	first, err := svc.GetBundle(context.Background(), weekRange())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.rangeCalls)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.GetBundle(context.Background(), weekRange())
	require.NoError(t, err)
	// Second call is served from the cache without touching the repo.
	assert.Equal(t, 1, repo.rangeCalls)
	assert.Equal(t, first.RecordCount, second.RecordCount)
}

func TestGetBundle_WriteChangesCacheKey(t *testing.T) {
	repo := &stubRepo{
		records: []inventory.Record{
			rec("A", "2026-08-18", 10, 40, 25, 0, 0, 0),
		},
		stats: inventory.Stats{Count: 1, LastModified: date("2026-08-18")},
	}
	cache := newMapCache()
	svc := NewService(repo, cache, time.Minute)

	_, err := svc.GetBundle(context.Background(), weekRange())
	require.NoError(t, err)

	// A write bumps the record-set version; the stale entry is never reused.
	repo.stats = inventory.Stats{Count: 2, LastModified: date("2026-08-19")}
	repo.records = append(repo.records, rec("B", "2026-08-19", 0, 20, 5, 0, 0, 0))

	b, err := svc.GetBundle(context.Background(), weekRange())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.rangeCalls)
	assert.Equal(t, 2, b.RecordCount)
}

func TestGetBundle_NilCache(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil, 0)

	b, err := svc.GetBundle(context.Background(), weekRange())
	require.NoError(t, err)
	assert.Equal(t, 0, b.RecordCount)
	assert.Equal(t, 1, repo.rangeCalls)
}
