package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/reports"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves the aggregate report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// Bundle returns the full report bundle for a date range.
// GET /api/v1/reports?from=&to=
func (h *ReportsHandler) Bundle(c *gin.Context) {
	rng, ok := h.bindRange(c)
	if !ok {
		return
	}

	bundle, err := h.service.GetBundle(c.Request.Context(), rng)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, bundle)
}

// View returns a single report view.
// GET /api/v1/reports/:view?from=&to=
func (h *ReportsHandler) View(c *gin.Context) {
	view := c.Param("view")

	rng, ok := h.bindRange(c)
	if !ok {
		return
	}

	bundle, err := h.service.GetBundle(c.Request.Context(), rng)
	if err != nil {
		h.Error(c, err)
		return
	}

	data, ok := bundle.View(view)
	if !ok {
		h.Error(c, apperror.NewNotFound("report view", view).
			WithDetail("available", reports.ViewNames()))
		return
	}

	h.OK(c, dto.ViewResponse{
		View: view,
		From: bundle.From,
		To:   bundle.To,
		Data: data,
	})
}

// ExportCSV streams one view as a CSV attachment.
// GET /api/v1/reports/:view/export.csv
func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	view := c.Param("view")

	rng, ok := h.bindRange(c)
	if !ok {
		return
	}

	bundle, err := h.service.GetBundle(c.Request.Context(), rng)
	if err != nil {
		h.Error(c, err)
		return
	}

	filename, data, err := reports.ExportCSV(bundle, view)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportRawCSV streams the raw filtered record set as a CSV attachment.
// GET /api/v1/reports/export.csv
func (h *ReportsHandler) ExportRawCSV(c *gin.Context) {
	rng, ok := h.bindRange(c)
	if !ok {
		return
	}

	records, err := h.service.GetRecordsInRange(c.Request.Context(), rng)
	if err != nil {
		h.Error(c, err)
		return
	}

	filename, data := reports.ExportRawCSV(records, rng)

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportXLSX streams the full bundle as a workbook attachment.
// GET /api/v1/reports/export.xlsx
func (h *ReportsHandler) ExportXLSX(c *gin.Context) {
	rng, ok := h.bindRange(c)
	if !ok {
		return
	}

	bundle, err := h.service.GetBundle(c.Request.Context(), rng)
	if err != nil {
		h.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteXLSX(bundle, &buf); err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	filename := "stock_reports_" + rng.String() + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ReportsHandler) bindRange(c *gin.Context) (reports.DateRange, bool) {
	var q dto.RangeQuery
	if !h.BindQuery(c, &q) {
		return reports.DateRange{}, false
	}

	rng, err := q.ToDateRange(time.Now().UTC())
	if err != nil {
		h.Error(c, err)
		return reports.DateRange{}, false
	}
	return rng, true
}
