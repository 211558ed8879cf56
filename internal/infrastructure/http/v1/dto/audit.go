package dto

import (
	"encoding/json"
	"time"

	"stockbook/internal/infrastructure/storage/postgres"
)

// AuditEntryResponse is the wire form of one audit trail entry.
// Changes is the field-level old/new diff recorded at save time.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	RecordID  string          `json:"record_id"`
	ItemName  string          `json:"item_name"`
	Action    string          `json:"action"`
	Changes   json.RawMessage `json:"changes"`
	CreatedAt time.Time       `json:"created_at"`
}

// FromAuditEntry converts a stored audit entry to its wire form.
func FromAuditEntry(e *postgres.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID.String(),
		RecordID:  e.RecordID.String(),
		ItemName:  e.ItemName,
		Action:    string(e.Action),
		Changes:   e.Changes,
		CreatedAt: e.CreatedAt,
	}
}

// FromAuditEntries converts an entry slice, never returning nil.
func FromAuditEntries(entries []postgres.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, FromAuditEntry(&entries[i]))
	}
	return out
}

// AuditResponse wraps a product's audit trail.
type AuditResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
}
