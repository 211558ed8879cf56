package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"stockbook/internal/core/id"
	"stockbook/internal/domain/inventory"
)

// CompressionAlgo specifies the compression algorithm used for stored changes.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is a single audit log row describing a record save.
type AuditEntry struct {
	ID                id.ID                  `db:"id"`
	RecordID          id.ID                  `db:"record_id"`
	ItemName          string                 `db:"item_name"`
	Action            inventory.AuditAction  `db:"action"`
	Changes           json.RawMessage        `db:"changes"`
	ChangesCompressed []byte                 `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo        `db:"compression_algo"`
	CreatedAt         time.Time              `db:"created_at"`
}

// AuditService records stock record changes to the sys_audit table.
// Large change payloads are zstd-compressed before storage.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

var _ inventory.AuditLogger = (*AuditService)(nil)

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// RecordSaved logs a create or update of a stock record. For updates,
// only the fields that actually changed are stored.
func (s *AuditService) RecordSaved(ctx context.Context, action inventory.AuditAction, rec, prev *inventory.Record) error {
	changes := diffRecords(prev, rec)
	if len(changes) == 0 {
		return nil
	}

	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	return s.log(ctx, AuditEntry{
		RecordID: rec.ID,
		ItemName: rec.ItemName,
		Action:   action,
		Changes:  changesJSON,
	})
}

// log inserts a single audit entry.
func (s *AuditService) log(ctx context.Context, entry AuditEntry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.compress(&entry)

	sql := `
		INSERT INTO sys_audit (
			id, record_id, item_name, action,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.RecordID, entry.ItemName, entry.Action,
		entry.Changes, entry.ChangesCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)

	return err
}

// History retrieves a product's audit entries, newest first.
func (s *AuditService) History(ctx context.Context, itemName string, limit int) ([]AuditEntry, error) {
	sql := `
		SELECT id, record_id, item_name, action,
			   changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE item_name = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, itemName, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		err := rows.Scan(
			&e.ID, &e.RecordID, &e.ItemName, &e.Action,
			&e.Changes, &e.ChangesCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if err := s.decompress(&e); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// compress moves the change payload into the compressed column once it
// exceeds the threshold.
func (s *AuditService) compress(entry *AuditEntry) {
	entry.CompressionAlgo = CompressionNone
	if len(entry.Changes) > s.compressThreshold {
		entry.ChangesCompressed = s.encoder.EncodeAll(entry.Changes, nil)
		entry.Changes = nil
		entry.CompressionAlgo = CompressionZstd
	}
}

// decompress restores the plain change payload for read paths.
func (s *AuditService) decompress(entry *AuditEntry) error {
	if entry.CompressionAlgo != CompressionZstd || len(entry.ChangesCompressed) == 0 {
		return nil
	}
	decompressed, err := s.decoder.DecodeAll(entry.ChangesCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress changes: %w", err)
	}
	entry.Changes = decompressed
	entry.ChangesCompressed = nil
	return nil
}

// diffRecords builds an old/new map of record fields that differ.
// A nil prev means a create, so every field is reported against nil.
func diffRecords(prev, rec *inventory.Record) map[string]any {
	old := recordFields(prev)
	next := recordFields(rec)

	changes := make(map[string]any)
	for key, newVal := range next {
		oldVal := old[key]
		if oldVal != newVal {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}
	return changes
}

func recordFields(rec *inventory.Record) map[string]any {
	if rec == nil {
		return map[string]any{}
	}
	return map[string]any{
		"item_name":         rec.ItemName,
		"date":              rec.DateString(),
		"opening_stock":     rec.OpeningStock,
		"new_stock":         rec.NewStock,
		"issued_production": rec.IssuedProduction,
		"returns":           rec.Returns,
		"rebagging":         rec.Rebagging,
		"damaged":           rec.Damaged,
		"new_balance":       rec.NewBalance,
		"closing_stock":     rec.ClosingStock,
	}
}
