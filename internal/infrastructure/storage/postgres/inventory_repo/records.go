// Package inventory_repo provides the PostgreSQL implementation of the
// stock record repository.
package inventory_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/inventory"
	"stockbook/internal/infrastructure/storage/postgres"
)

const tableRecords = "inventory_records"

var recordCols = []string{
	"id", "item_name", "date",
	"opening_stock", "new_stock", "issued_production",
	"returns", "rebagging", "damaged",
	"new_balance", "closing_stock",
	"created_at", "updated_at",
}

// RecordRepo implements inventory.Repository on PostgreSQL.
type RecordRepo struct {
	txManager *postgres.TxManager
}

var _ inventory.Repository = (*RecordRepo)(nil)

// NewRecordRepo creates a new record repository.
func NewRecordRepo(txManager *postgres.TxManager) *RecordRepo {
	return &RecordRepo{txManager: txManager}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *RecordRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *RecordRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(recordCols...).
		From(tableRecords)
}

// Create inserts a new stock record.
func (r *RecordRepo) Create(ctx context.Context, rec *inventory.Record) error {
	q := r.Builder().
		Insert(tableRecords).
		SetMap(map[string]any{
			"id":                rec.ID,
			"item_name":         rec.ItemName,
			"date":              rec.Date,
			"opening_stock":     rec.OpeningStock,
			"new_stock":         rec.NewStock,
			"issued_production": rec.IssuedProduction,
			"returns":           rec.Returns,
			"rebagging":         rec.Rebagging,
			"damaged":           rec.Damaged,
			"new_balance":       rec.NewBalance,
			"closing_stock":     rec.ClosingStock,
			"created_at":        rec.CreatedAt,
			"updated_at":        rec.UpdatedAt,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql, args...)
	if err != nil {
		// Unique violation (23505) on (item_name, date)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("record", "item_name and date", rec.ItemName+" "+rec.DateString()).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", tableRecords, err)
	}

	return nil
}

// Update rewrites the movement fields of an existing record.
func (r *RecordRepo) Update(ctx context.Context, rec *inventory.Record) error {
	q := r.Builder().
		Update(tableRecords).
		SetMap(map[string]any{
			"opening_stock":     rec.OpeningStock,
			"new_stock":         rec.NewStock,
			"issued_production": rec.IssuedProduction,
			"returns":           rec.Returns,
			"rebagging":         rec.Rebagging,
			"damaged":           rec.Damaged,
			"new_balance":       rec.NewBalance,
			"closing_stock":     rec.ClosingStock,
			"updated_at":        rec.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": rec.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", tableRecords, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(tableRecords, rec.ID.String())
	}

	return nil
}

// ListRecent returns the newest records, ordered by date then item name.
func (r *RecordRepo) ListRecent(ctx context.Context, limit int) ([]inventory.Record, error) {
	q := r.baseSelect().
		OrderBy("date DESC", "item_name ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return r.selectRecords(ctx, q, "list recent")
}

// Search finds records whose item name contains the term, case-insensitive.
func (r *RecordRepo) Search(ctx context.Context, term string, limit int) ([]inventory.Record, error) {
	return r.selectRecords(ctx, r.buildSearch(term, limit), "search")
}

func (r *RecordRepo) buildSearch(term string, limit int) squirrel.SelectBuilder {
	pattern := "%" + term + "%"
	q := r.baseSelect().
		Where(squirrel.ILike{"item_name": pattern}).
		OrderBy("date DESC", "item_name ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}

// ListByItem returns the history for one product, newest first.
func (r *RecordRepo) ListByItem(ctx context.Context, itemName string, limit int) ([]inventory.Record, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"item_name": itemName}).
		OrderBy("date DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return r.selectRecords(ctx, q, "list by item")
}

// GetLatestByItem returns the most recent record for a product.
func (r *RecordRepo) GetLatestByItem(ctx context.Context, itemName string) (*inventory.Record, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"item_name": itemName}).
		OrderBy("date DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec inventory.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(tableRecords, itemName)
		}
		return nil, fmt.Errorf("get latest by item: %w", err)
	}

	return &rec, nil
}

// GetByItemAndDate returns the record for a product on a specific day.
func (r *RecordRepo) GetByItemAndDate(ctx context.Context, itemName string, date time.Time) (*inventory.Record, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"item_name": itemName}).
		Where(squirrel.Eq{"date": inventory.NormalizeDate(date)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec inventory.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(tableRecords, itemName)
		}
		return nil, fmt.Errorf("get by item and date: %w", err)
	}

	return &rec, nil
}

// ListRange returns all records with date in [from, to], ordered for
// deterministic aggregation.
func (r *RecordRepo) ListRange(ctx context.Context, from, to time.Time) ([]inventory.Record, error) {
	return r.selectRecords(ctx, r.buildListRange(from, to), "list range")
}

func (r *RecordRepo) buildListRange(from, to time.Time) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.GtOrEq{"date": inventory.NormalizeDate(from)}).
		Where(squirrel.LtOrEq{"date": inventory.NormalizeDate(to)}).
		OrderBy("date ASC", "item_name ASC")
}

// GetStats returns the record count and the most recent modification time
// across the whole table. Used for report cache invalidation.
func (r *RecordRepo) GetStats(ctx context.Context) (inventory.Stats, error) {
	q := r.Builder().
		Select(
			"COUNT(*) AS count",
			"COALESCE(MAX(updated_at), 'epoch'::timestamptz) AS last_modified",
		).
		From(tableRecords)

	sql, args, err := q.ToSql()
	if err != nil {
		return inventory.Stats{}, fmt.Errorf("build query: %w", err)
	}

	var stats inventory.Stats
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &stats, sql, args...); err != nil {
		return inventory.Stats{}, fmt.Errorf("get stats: %w", err)
	}

	return stats, nil
}

func (r *RecordRepo) selectRecords(ctx context.Context, q squirrel.SelectBuilder, op string) ([]inventory.Record, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []inventory.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}
