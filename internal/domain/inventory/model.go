// Package inventory provides the daily stock movement ledger.
// One record tracks one product's movements for one calendar day.
package inventory

import (
	"context"
	"strings"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Record is one product's stock movements for one day.
// (item_name, date) is unique; saving the same day again updates in place.
// All quantities are whole units and never negative.
type Record struct {
	ID       id.ID     `db:"id" json:"id"`
	ItemName string    `db:"item_name" json:"item_name"`
	Date     time.Time `db:"date" json:"date"`

	OpeningStock     int `db:"opening_stock" json:"opening_stock"`
	NewStock         int `db:"new_stock" json:"new_stock"`
	IssuedProduction int `db:"issued_production" json:"issued_production"`
	Returns          int `db:"returns" json:"returns"`
	Rebagging        int `db:"rebagging" json:"rebagging"`
	Damaged          int `db:"damaged" json:"damaged"`

	// Derived at write time, stored for read paths.
	NewBalance   int `db:"new_balance" json:"new_balance"`
	ClosingStock int `db:"closing_stock" json:"closing_stock"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NormalizeDate truncates a timestamp to a UTC calendar date.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DateString formats the record date as YYYY-MM-DD.
func (r *Record) DateString() string {
	return r.Date.Format(DateLayout)
}

// ComputeDerived recalculates new_balance and closing_stock from the movement
// fields. Closing stock is clamped at zero; negative stock is not representable.
func (r *Record) ComputeDerived() {
	r.NewBalance = r.OpeningStock + r.NewStock
	closing := r.NewBalance - r.IssuedProduction + r.Returns + r.Rebagging - r.Damaged
	if closing < 0 {
		closing = 0
	}
	r.ClosingStock = closing
}

// TotalIn returns stock received during the day.
func (r *Record) TotalIn() int {
	return r.NewStock + r.Returns + r.Rebagging
}

// TotalOut returns stock that left during the day.
func (r *Record) TotalOut() int {
	return r.IssuedProduction + r.Damaged
}

// NetChange returns the day's stock-in minus stock-out.
func (r *Record) NetChange() int {
	return r.TotalIn() - r.TotalOut()
}

// TotalActivity returns the sum of all six movement fields, used for
// activity-level classification.
func (r *Record) TotalActivity() int {
	return r.OpeningStock + r.NewStock + r.IssuedProduction + r.Returns + r.Rebagging + r.Damaged
}

// Validate checks required fields and quantity bounds.
func (r *Record) Validate(ctx context.Context) error {
	if strings.TrimSpace(r.ItemName) == "" {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "item_name")
	}
	if r.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	for field, qty := range map[string]int{
		"opening_stock":     r.OpeningStock,
		"new_stock":         r.NewStock,
		"issued_production": r.IssuedProduction,
		"returns":           r.Returns,
		"rebagging":         r.Rebagging,
		"damaged":           r.Damaged,
	} {
		if qty < 0 {
			return apperror.NewValidation("quantity must not be negative").
				WithDetail("field", field).
				WithDetail("value", qty)
		}
	}

	return nil
}
