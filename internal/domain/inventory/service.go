package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/tx"
	"stockbook/pkg/logger"
)

// DefaultListLimit caps bulk loads for history and reports.
const DefaultListLimit = 100

// AuditAction classifies a save operation.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
)

// AuditLogger records saves for traceability. Implementations must not fail
// the business operation; errors are logged and swallowed by the caller.
type AuditLogger interface {
	RecordSaved(ctx context.Context, action AuditAction, rec *Record, prev *Record) error
}

// SaveInput carries one day's entry from the form.
// OpeningStock nil means "carry over the previous day's closing stock".
type SaveInput struct {
	ItemName         string
	Date             time.Time
	OpeningStock     *int
	NewStock         int
	IssuedProduction int
	Returns          int
	Rebagging        int
	Damaged          int
}

// Service provides business operations on the stock ledger.
type Service struct {
	repo  Repository
	txm   tx.Manager
	audit AuditLogger
}

// NewService creates a new inventory service. audit may be nil.
func NewService(repo Repository, txm tx.Manager, audit AuditLogger) *Service {
	return &Service{repo: repo, txm: txm, audit: audit}
}

// SaveDailyEntry validates and persists one day's stock movements.
//
// Rules:
//   - opening stock, when not supplied, continues from the product's latest
//     closing stock (zero for a brand-new product);
//   - an entry dated before the product's latest recorded day is rejected;
//   - an entry for an existing (item, date) pair updates it in place.
//
// Returns the stored record and whether it was newly created.
func (s *Service) SaveDailyEntry(ctx context.Context, in SaveInput) (*Record, bool, error) {
	rec := &Record{
		ItemName:         strings.TrimSpace(in.ItemName),
		Date:             NormalizeDate(in.Date),
		NewStock:         in.NewStock,
		IssuedProduction: in.IssuedProduction,
		Returns:          in.Returns,
		Rebagging:        in.Rebagging,
		Damaged:          in.Damaged,
	}
	if in.OpeningStock != nil {
		rec.OpeningStock = *in.OpeningStock
	}
	if err := rec.Validate(ctx); err != nil {
		return nil, false, err
	}

	var created bool
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		latest, err := s.repo.GetLatestByItem(ctx, rec.ItemName)
		if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("lookup latest record: %w", err)
		}

		if latest != nil {
			if rec.Date.Before(latest.Date) {
				return apperror.NewPastDatedEntry(rec.ItemName, rec.DateString(), latest.DateString())
			}
			// Continuity: a new day opens with the previous day's closing stock.
			if in.OpeningStock == nil && rec.Date.After(latest.Date) {
				rec.OpeningStock = latest.ClosingStock
			}
		}

		existing, err := s.repo.GetByItemAndDate(ctx, rec.ItemName, rec.Date)
		if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("lookup existing record: %w", err)
		}

		now := time.Now().UTC()

		if existing != nil {
			// Update in place; same (item, date) never duplicates.
			if in.OpeningStock == nil {
				rec.OpeningStock = existing.OpeningStock
			}
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			rec.UpdatedAt = now
			rec.ComputeDerived()
			if err := s.repo.Update(ctx, rec); err != nil {
				return fmt.Errorf("update record: %w", err)
			}
			s.logAudit(ctx, AuditUpdate, rec, existing)
			return nil
		}

		rec.ID = id.New()
		rec.CreatedAt = now
		rec.UpdatedAt = now
		rec.ComputeDerived()
		if err := s.repo.Create(ctx, rec); err != nil {
			return fmt.Errorf("create record: %w", err)
		}
		created = true
		s.logAudit(ctx, AuditCreate, rec, nil)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	logger.Info(ctx, "saved daily entry",
		"item_name", rec.ItemName,
		"date", rec.DateString(),
		"created", created,
		"closing_stock", rec.ClosingStock,
	)

	return rec, created, nil
}

// ListRecent returns the most recent records (bulk load for history/reports).
func (s *Service) ListRecent(ctx context.Context) ([]Record, error) {
	return s.repo.ListRecent(ctx, DefaultListLimit)
}

// Search finds records by case-insensitive substring of the item name.
// An empty term falls back to the recent list.
func (s *Service) Search(ctx context.Context, term string) ([]Record, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.repo.ListRecent(ctx, DefaultListLimit)
	}
	return s.repo.Search(ctx, term, DefaultListLimit)
}

// History returns a product's movement history, newest first.
func (s *Service) History(ctx context.Context, itemName string) ([]Record, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, apperror.NewValidation("item name is required")
	}
	return s.repo.ListByItem(ctx, itemName, DefaultListLimit)
}

// Latest returns a product's chronologically latest record.
func (s *Service) Latest(ctx context.Context, itemName string) (*Record, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, apperror.NewValidation("item name is required")
	}
	return s.repo.GetLatestByItem(ctx, itemName)
}

// logAudit writes an audit entry; failures never break the save.
func (s *Service) logAudit(ctx context.Context, action AuditAction, rec, prev *Record) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordSaved(ctx, action, rec, prev); err != nil {
		logger.Warn(ctx, "audit write failed",
			"action", string(action),
			"item_name", rec.ItemName,
			"error", err,
		)
	}
}
