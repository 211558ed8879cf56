package dto

import (
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/inventory"
)

// SaveRecordRequest is one day's entry for a product.
// OpeningStock omitted means "continue from the previous day's closing stock".
type SaveRecordRequest struct {
	ItemName         string `json:"item_name" binding:"required"`
	Date             string `json:"date" binding:"required"`
	OpeningStock     *int   `json:"opening_stock" binding:"omitempty,min=0"`
	NewStock         int    `json:"new_stock" binding:"min=0"`
	IssuedProduction int    `json:"issued_production" binding:"min=0"`
	Returns          int    `json:"returns" binding:"min=0"`
	Rebagging        int    `json:"rebagging" binding:"min=0"`
	Damaged          int    `json:"damaged" binding:"min=0"`
}

// ToInput converts the request into a service input.
func (r *SaveRecordRequest) ToInput() (inventory.SaveInput, error) {
	date, err := inventory.ParseDate(r.Date)
	if err != nil {
		return inventory.SaveInput{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("date", r.Date)
	}
	return inventory.SaveInput{
		ItemName:         r.ItemName,
		Date:             date,
		OpeningStock:     r.OpeningStock,
		NewStock:         r.NewStock,
		IssuedProduction: r.IssuedProduction,
		Returns:          r.Returns,
		Rebagging:        r.Rebagging,
		Damaged:          r.Damaged,
	}, nil
}

// RecordResponse is the wire form of one stock record.
type RecordResponse struct {
	ID               string    `json:"id"`
	ItemName         string    `json:"item_name"`
	Date             string    `json:"date"`
	OpeningStock     int       `json:"opening_stock"`
	NewStock         int       `json:"new_stock"`
	IssuedProduction int       `json:"issued_production"`
	Returns          int       `json:"returns"`
	Rebagging        int       `json:"rebagging"`
	Damaged          int       `json:"damaged"`
	NewBalance       int       `json:"new_balance"`
	ClosingStock     int       `json:"closing_stock"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FromRecord converts a domain record to its wire form.
func FromRecord(rec *inventory.Record) RecordResponse {
	return RecordResponse{
		ID:               rec.ID.String(),
		ItemName:         rec.ItemName,
		Date:             rec.DateString(),
		OpeningStock:     rec.OpeningStock,
		NewStock:         rec.NewStock,
		IssuedProduction: rec.IssuedProduction,
		Returns:          rec.Returns,
		Rebagging:        rec.Rebagging,
		Damaged:          rec.Damaged,
		NewBalance:       rec.NewBalance,
		ClosingStock:     rec.ClosingStock,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

// FromRecords converts a record slice, never returning nil.
func FromRecords(records []inventory.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for i := range records {
		out = append(out, FromRecord(&records[i]))
	}
	return out
}

// RecordsResponse wraps a record list.
type RecordsResponse struct {
	Records []RecordResponse `json:"records"`
}
