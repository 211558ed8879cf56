package inventory

import (
	"context"
	"time"
)

// Stats summarizes the record set for cache keying.
type Stats struct {
	Count        int64     `db:"count"`
	LastModified time.Time `db:"last_modified"`
}

// Repository defines data access for inventory records.
type Repository interface {
	// Create inserts a new record.
	Create(ctx context.Context, rec *Record) error

	// Update modifies an existing record by ID.
	Update(ctx context.Context, rec *Record) error

	// ListRecent returns the most recent records ordered by date descending.
	ListRecent(ctx context.Context, limit int) ([]Record, error)

	// Search returns records whose item name contains term (case-insensitive),
	// ordered by date descending.
	Search(ctx context.Context, term string, limit int) ([]Record, error)

	// ListByItem returns a product's records ordered by date descending.
	ListByItem(ctx context.Context, itemName string, limit int) ([]Record, error)

	// GetLatestByItem returns the chronologically latest record for a product,
	// or a NOT_FOUND error when the product has no records.
	GetLatestByItem(ctx context.Context, itemName string) (*Record, error)

	// GetByItemAndDate returns the record for an exact (item, date) pair,
	// or a NOT_FOUND error.
	GetByItemAndDate(ctx context.Context, itemName string, date time.Time) (*Record, error)

	// ListRange returns all records with from <= date <= to (dates inclusive).
	ListRange(ctx context.Context, from, to time.Time) ([]Record, error)

	// GetStats returns record count and last modification instant.
	GetStats(ctx context.Context) (Stats, error)
}
