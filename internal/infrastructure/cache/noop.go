package cache

import (
	"context"
	"time"

	"stockbook/internal/domain/reports"
)

// NoopBundleCache disables caching. Used when no Redis address is configured,
// for example in the worker and seed commands.
type NoopBundleCache struct{}

var _ reports.BundleCache = NoopBundleCache{}

func NewNoop() NoopBundleCache { return NoopBundleCache{} }

func (NoopBundleCache) Get(ctx context.Context, key string) (*reports.Bundle, bool, error) {
	return nil, false, nil
}

func (NoopBundleCache) Set(ctx context.Context, key string, b *reports.Bundle, ttl time.Duration) error {
	return nil
}
