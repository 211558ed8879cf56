// Package export writes report files to disk for scheduled delivery.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stockbook/internal/domain/inventory"
	"stockbook/internal/domain/reports"
	"stockbook/pkg/logger"
)

// Exporter renders report bundles into CSV and XLSX files under a directory.
type Exporter struct {
	service *reports.Service
	dir     string
}

// NewExporter creates an exporter writing into dir (created on demand).
func NewExporter(service *reports.Service, dir string) *Exporter {
	return &Exporter{service: service, dir: dir}
}

// PreviousWeek returns the Monday-to-Sunday range immediately before now.
func PreviousWeek(now time.Time) reports.DateRange {
	today := inventory.NormalizeDate(now)
	// time.Weekday: Sunday = 0
	daysSinceMonday := (int(today.Weekday()) + 6) % 7
	thisMonday := today.AddDate(0, 0, -daysSinceMonday)
	from := thisMonday.AddDate(0, 0, -7)
	to := thisMonday.AddDate(0, 0, -1)
	return reports.NewDateRange(from, to)
}

// ExportRange writes every view's CSV, the raw record CSV and the full
// workbook for the range. Returns the paths written.
func (e *Exporter) ExportRange(ctx context.Context, rng reports.DateRange) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	bundle, err := e.service.GetBundle(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("build report bundle: %w", err)
	}

	var written []string

	for _, view := range reports.ViewNames() {
		filename, data, err := reports.ExportCSV(bundle, view)
		if err != nil {
			return written, fmt.Errorf("render %s csv: %w", view, err)
		}
		path := filepath.Join(e.dir, filename)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	records, err := e.service.GetRecordsInRange(ctx, rng)
	if err != nil {
		return written, fmt.Errorf("load records for raw export: %w", err)
	}
	rawName, rawData := reports.ExportRawCSV(records, rng)
	rawPath := filepath.Join(e.dir, rawName)
	if err := os.WriteFile(rawPath, rawData, 0o644); err != nil {
		return written, fmt.Errorf("write %s: %w", rawPath, err)
	}
	written = append(written, rawPath)

	xlsxPath := filepath.Join(e.dir, "stock_reports_"+rng.String()+".xlsx")
	f, err := os.Create(xlsxPath)
	if err != nil {
		return written, fmt.Errorf("create %s: %w", xlsxPath, err)
	}
	if err := reports.WriteXLSX(bundle, f); err != nil {
		f.Close()
		return written, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return written, fmt.Errorf("close %s: %w", xlsxPath, err)
	}
	written = append(written, xlsxPath)

	logger.Info(ctx, "report export complete",
		"range", rng.String(),
		"files", len(written),
		"dir", e.dir,
	)

	return written, nil
}
