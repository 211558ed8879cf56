package dto

import (
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/inventory"
	"stockbook/internal/domain/reports"
)

// RangeQuery carries the report date range from the query string.
// Missing bounds default to the last seven days ending today.
type RangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// ToDateRange parses and defaults the range.
func (q *RangeQuery) ToDateRange(now time.Time) (reports.DateRange, error) {
	to := inventory.NormalizeDate(now)
	from := to.AddDate(0, 0, -6)

	if q.To != "" {
		parsed, err := inventory.ParseDate(q.To)
		if err != nil {
			return reports.DateRange{}, apperror.NewValidation("invalid to date, expected YYYY-MM-DD").
				WithDetail("to", q.To)
		}
		to = parsed
	}
	if q.From != "" {
		parsed, err := inventory.ParseDate(q.From)
		if err != nil {
			return reports.DateRange{}, apperror.NewValidation("invalid from date, expected YYYY-MM-DD").
				WithDetail("from", q.From)
		}
		from = parsed
	}

	return reports.NewDateRange(from, to), nil
}

// ViewResponse wraps a single report view.
type ViewResponse struct {
	View string `json:"view"`
	From string `json:"from"`
	To   string `json:"to"`
	Data any    `json:"data"`
}
