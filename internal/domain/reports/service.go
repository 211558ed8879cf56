package reports

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/inventory"
	"stockbook/pkg/logger"
)

// View names for the per-view API and export paths.
const (
	ViewOutOfStock = "out-of-stock"
	ViewMovements  = "movements"
	ViewBalances   = "balances"
	ViewProduction = "production"
	ViewReturns    = "returns"
	ViewDamaged    = "damaged"
	ViewHistory    = "history"
	ViewWeekly     = "weekly"
)

// ViewNames lists all report views in presentation order.
func ViewNames() []string {
	return []string{
		ViewOutOfStock, ViewMovements, ViewBalances, ViewProduction,
		ViewReturns, ViewDamaged, ViewHistory, ViewWeekly,
	}
}

// BundleCache memoizes computed bundles. The key incorporates the record-set
// version, so a write always invalidates by changing the key.
type BundleCache interface {
	Get(ctx context.Context, key string) (*Bundle, bool, error)
	Set(ctx context.Context, key string, bundle *Bundle, ttl time.Duration) error
}

// Service generates report bundles from the stock ledger.
type Service struct {
	repo     inventory.Repository
	cache    BundleCache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService creates a reports service. cache may be nil to disable memoization.
func NewService(repo inventory.Repository, cache BundleCache, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// GetBundle computes (or recalls) the full report bundle for a date range.
func (s *Service) GetBundle(ctx context.Context, rng DateRange) (*Bundle, error) {
	if rng.From.After(rng.To) {
		return nil, apperror.NewValidation("from must not be after to").
			WithDetail("from", rng.From.Format(inventory.DateLayout)).
			WithDetail("to", rng.To.Format(inventory.DateLayout))
	}

	key := s.cacheKey(ctx, rng)
	if s.cache != nil && key != "" {
		if cached, ok, err := s.cache.Get(ctx, key); err != nil {
			logger.Warn(ctx, "report cache read failed", "key", key, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	records, err := s.repo.ListRange(ctx, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("load records for report: %w", err)
	}

	bundle := Aggregate(records, rng, s.now().UTC())

	if s.cache != nil && key != "" {
		if err := s.cache.Set(ctx, key, bundle, s.cacheTTL); err != nil {
			logger.Warn(ctx, "report cache write failed", "key", key, "error", err)
		}
	}

	return bundle, nil
}

// GetRecordsInRange returns the raw filtered record set (the full-export path).
func (s *Service) GetRecordsInRange(ctx context.Context, rng DateRange) ([]inventory.Record, error) {
	if rng.From.After(rng.To) {
		return nil, apperror.NewValidation("from must not be after to")
	}
	return s.repo.ListRange(ctx, rng.From, rng.To)
}

// cacheKey derives a memoization key from the range and the record-set
// version. Empty string disables caching for this call.
func (s *Service) cacheKey(ctx context.Context, rng DateRange) string {
	if s.cache == nil {
		return ""
	}
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		logger.Warn(ctx, "record stats unavailable, skipping report cache", "error", err)
		return ""
	}
	return fmt.Sprintf("reports:%s:%d:%d", rng, stats.Count, stats.LastModified.UnixNano())
}
