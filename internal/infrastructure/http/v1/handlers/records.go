package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/inventory"
	"stockbook/internal/infrastructure/http/v1/dto"
	"stockbook/internal/infrastructure/storage/postgres"
)

// AuditReader exposes the stored audit trail for the read endpoint.
type AuditReader interface {
	History(ctx context.Context, itemName string, limit int) ([]postgres.AuditEntry, error)
}

// RecordsHandler serves the stock record endpoints.
type RecordsHandler struct {
	*BaseHandler
	service *inventory.Service
	audit   AuditReader
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(service *inventory.Service, audit AuditReader) *RecordsHandler {
	return &RecordsHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
		audit:       audit,
	}
}

// List returns the most recent records.
// GET /api/v1/records
func (h *RecordsHandler) List(c *gin.Context) {
	records, err := h.service.ListRecent(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.RecordsResponse{Records: dto.FromRecords(records)})
}

// Save upserts one day's entry for a product.
// POST /api/v1/records
func (h *RecordsHandler) Save(c *gin.Context) {
	var req dto.SaveRecordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	rec, created, err := h.service.SaveDailyEntry(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromRecord(rec)
	if created {
		h.Created(c, resp)
		return
	}
	h.OK(c, resp)
}

// Search finds records by item name substring.
// GET /api/v1/records/search?q=
func (h *RecordsHandler) Search(c *gin.Context) {
	records, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.RecordsResponse{Records: dto.FromRecords(records)})
}

// History returns a product's movement history, newest first.
// GET /api/v1/records/:item/history
func (h *RecordsHandler) History(c *gin.Context) {
	records, err := h.service.History(c.Request.Context(), c.Param("item"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.RecordsResponse{Records: dto.FromRecords(records)})
}

// Audit returns a product's audit trail, newest first.
// GET /api/v1/records/:item/audit
func (h *RecordsHandler) Audit(c *gin.Context) {
	entries, err := h.audit.History(c.Request.Context(), c.Param("item"), inventory.DefaultListLimit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.AuditResponse{Entries: dto.FromAuditEntries(entries)})
}

// Latest returns a product's most recent record.
// GET /api/v1/records/:item/latest
func (h *RecordsHandler) Latest(c *gin.Context) {
	rec, err := h.service.Latest(c.Request.Context(), c.Param("item"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromRecord(rec))
}
