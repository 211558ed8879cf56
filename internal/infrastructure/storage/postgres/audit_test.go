package postgres

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/domain/inventory"
)

func testRecord() *inventory.Record {
	r := &inventory.Record{
		ItemName:         "Layers Mash",
		Date:             time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC),
		OpeningStock:     100,
		NewStock:         40,
		IssuedProduction: 25,
	}
	r.ComputeDerived()
	return r
}

func TestDiffRecords_Create(t *testing.T) {
	rec := testRecord()

	changes := diffRecords(nil, rec)

	// Every populated field shows up against a nil old value.
	require.NotEmpty(t, changes)
	got, ok := changes["new_stock"].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, got["old"])
	assert.Equal(t, 40, got["new"])
}

func TestDiffRecords_UpdateOnlyChangedFields(t *testing.T) {
	prev := testRecord()
	next := testRecord()
	next.IssuedProduction = 30
	next.ComputeDerived()

	changes := diffRecords(prev, next)

	assert.Contains(t, changes, "issued_production")
	assert.Contains(t, changes, "closing_stock")
	assert.NotContains(t, changes, "item_name")
	assert.NotContains(t, changes, "opening_stock")
	assert.NotContains(t, changes, "new_balance")
}

func TestDiffRecords_NoChange(t *testing.T) {
	prev := testRecord()
	next := testRecord()

	assert.Empty(t, diffRecords(prev, next))
}

func TestAuditService_CompressRoundTrip(t *testing.T) {
	svc, err := NewAuditService(nil)
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]any{
		"note": strings.Repeat("movement ", 2000),
	})
	require.NoError(t, err)
	require.Greater(t, len(payload), svc.compressThreshold)

	entry := AuditEntry{Changes: payload}
	svc.compress(&entry)

	assert.Equal(t, CompressionZstd, entry.CompressionAlgo)
	assert.Nil(t, entry.Changes)
	require.NotEmpty(t, entry.ChangesCompressed)
	assert.Less(t, len(entry.ChangesCompressed), len(payload))

	// The readback path must restore the original payload exactly.
	require.NoError(t, svc.decompress(&entry))
	assert.Equal(t, json.RawMessage(payload), entry.Changes)
	assert.Nil(t, entry.ChangesCompressed)
}

func TestAuditService_SmallPayloadStaysPlain(t *testing.T) {
	svc, err := NewAuditService(nil)
	require.NoError(t, err)

	payload := json.RawMessage(`{"new_stock":{"old":null,"new":40}}`)
	entry := AuditEntry{Changes: payload}

	svc.compress(&entry)
	assert.Equal(t, CompressionNone, entry.CompressionAlgo)
	assert.Equal(t, payload, entry.Changes)
	assert.Empty(t, entry.ChangesCompressed)

	// decompress must be a no-op for plain entries.
	require.NoError(t, svc.decompress(&entry))
	assert.Equal(t, payload, entry.Changes)
}
