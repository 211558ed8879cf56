// Package reports derives aggregate report views from the stock ledger.
// Every view is a pure function of the record set and a date range.
package reports

import (
	"time"

	"stockbook/internal/domain/inventory"
)

// DateRange is an inclusive calendar date range. Comparison is by date,
// never by timestamp.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange normalizes both bounds to calendar dates.
func NewDateRange(from, to time.Time) DateRange {
	return DateRange{
		From: inventory.NormalizeDate(from),
		To:   inventory.NormalizeDate(to),
	}
}

// Contains reports whether d falls within the range (both ends inclusive).
func (r DateRange) Contains(d time.Time) bool {
	d = inventory.NormalizeDate(d)
	return !d.Before(r.From) && !d.After(r.To)
}

// String renders the range for filenames and cache keys.
func (r DateRange) String() string {
	return r.From.Format(inventory.DateLayout) + "_" + r.To.Format(inventory.DateLayout)
}

// Movement classification and activity-level tags.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	ActivityHigh   = "high"
	ActivityMedium = "medium"
	ActivityLow    = "low"
)

// OutOfStockItem is a product whose latest record in range closed at zero.
type OutOfStockItem struct {
	ItemName       string `json:"item_name"`
	LastStock      int    `json:"last_stock"`
	LastDate       string `json:"last_date"`
	DaysSinceStock int    `json:"days_since_stock"`
}

// DailyActivity is the per-record breakdown inside a movement row.
type DailyActivity struct {
	ItemName         string `json:"item_name"`
	OpeningStock     int    `json:"opening_stock"`
	NewStock         int    `json:"new_stock"`
	IssuedProduction int    `json:"issued_production"`
	Returns          int    `json:"returns"`
	Rebagging        int    `json:"rebagging"`
	Damaged          int    `json:"damaged"`
	ClosingStock     int    `json:"closing_stock"`
	NetChange        int    `json:"net_change"`
}

// MovementRow aggregates one date's activity across all products.
type MovementRow struct {
	Date            string          `json:"date"`
	TotalIn         int             `json:"total_in"`
	TotalOut        int             `json:"total_out"`
	NetChange       int             `json:"net_change"`
	ProductCount    int             `json:"product_count"`
	DailyActivities []DailyActivity `json:"daily_activities"`
}

// BalanceRow compares a product's first and last record in range.
type BalanceRow struct {
	ItemName     string `json:"item_name"`
	OpeningStock int    `json:"opening_stock"`
	ClosingStock int    `json:"closing_stock"`
	NetChange    int    `json:"net_change"`
	MovementType string `json:"movement_type"`
}

// ProductionRow summarizes issued-to-production per product.
type ProductionRow struct {
	ItemName      string  `json:"item_name"`
	TotalIssued   int     `json:"total_issued"`
	AvgDailyUsage float64 `json:"avg_daily_usage"`
	RecordCount   int     `json:"record_count"`
	LastDate      string  `json:"last_date"`
	LastStock     int     `json:"last_stock"`
}

// ReturnsRow summarizes returns and rebagging per product.
type ReturnsRow struct {
	ItemName   string  `json:"item_name"`
	Returns    int     `json:"returns"`
	Rebagging  int     `json:"rebagging"`
	NewStock   int     `json:"new_stock"`
	ReturnRate float64 `json:"return_rate"`
}

// DamagedRow summarizes damaged stock per product.
type DamagedRow struct {
	ItemName         string  `json:"item_name"`
	Damaged          int     `json:"damaged"`
	NewStock         int     `json:"new_stock"`
	DamagePercentage float64 `json:"damage_percentage"`
}

// HistoryRow summarizes a product's recording activity and trend.
type HistoryRow struct {
	ItemName    string `json:"item_name"`
	RecordCount int    `json:"record_count"`
	FirstDate   string `json:"first_date"`
	LastDate    string `json:"last_date"`
	StockTrend  string `json:"stock_trend"`
}

// WeeklyProductRow is one product's period movement in the weekly summary.
type WeeklyProductRow struct {
	ItemName      string  `json:"item_name"`
	OpeningStock  int     `json:"opening_stock"`
	ClosingStock  int     `json:"closing_stock"`
	NetChange     int     `json:"net_change"`
	TotalIssued   int     `json:"total_issued"`
	AvgDailyUsage float64 `json:"avg_daily_usage"`
	TotalActivity int     `json:"total_activity"`
	ActivityLevel string  `json:"activity_level"`
}

// WeeklyDayRow is one day's roll-up in the weekly summary.
type WeeklyDayRow struct {
	Date           string `json:"date"`
	Weekday        string `json:"weekday"`
	TotalIn        int    `json:"total_in"`
	TotalOut       int    `json:"total_out"`
	NetChange      int    `json:"net_change"`
	ProductCount   int    `json:"product_count"`
	MostActiveItem string `json:"most_active_item"`
	TopItem        string `json:"top_item"`
	TopItemNet     int    `json:"top_item_net"`
}

// WeeklySummary is the period roll-up. Week boundaries are the min/max dates
// present in the filtered set, not calendar weeks.
//
// NetChange here is total new stock minus total issued, deliberately narrower
// than the per-date movements formula; both definitions are kept distinct.
type WeeklySummary struct {
	WeekStart      string             `json:"week_start"`
	WeekEnd        string             `json:"week_end"`
	TotalStockIn   int                `json:"total_stock_in"`
	TotalStockOut  int                `json:"total_stock_out"`
	TotalReturns   int                `json:"total_returns"`
	TotalRebagging int                `json:"total_rebagging"`
	TotalDamaged   int                `json:"total_damaged"`
	NetChange      int                `json:"net_change"`
	Products       []WeeklyProductRow `json:"products"`
	Days           []WeeklyDayRow     `json:"days"`
	ReturnRate     float64            `json:"return_rate"`
	DamageRate     float64            `json:"damage_rate"`
	RebaggingRate  float64            `json:"rebagging_rate"`
	StockTurnover  float64            `json:"stock_turnover"`
}

// Bundle is the fixed-shape output of one aggregation run.
// Empty input yields empty views, never an error.
type Bundle struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	GeneratedAt time.Time `json:"generated_at"`
	RecordCount int       `json:"record_count"`

	OutOfStock       []OutOfStockItem `json:"out_of_stock"`
	Movements        []MovementRow    `json:"movements"`
	Balances         []BalanceRow     `json:"balances"`
	Production       []ProductionRow  `json:"production"`
	ReturnsRebagging []ReturnsRow     `json:"returns_rebagging"`
	Damaged          []DamagedRow     `json:"damaged"`
	History          []HistoryRow     `json:"history"`
	Weekly           WeeklySummary    `json:"weekly"`
}

// View returns a single named view from the bundle.
// The second result is false for an unknown view name.
func (b *Bundle) View(name string) (any, bool) {
	switch name {
	case ViewOutOfStock:
		return b.OutOfStock, true
	case ViewMovements:
		return b.Movements, true
	case ViewBalances:
		return b.Balances, true
	case ViewProduction:
		return b.Production, true
	case ViewReturns:
		return b.ReturnsRebagging, true
	case ViewDamaged:
		return b.Damaged, true
	case ViewHistory:
		return b.History, true
	case ViewWeekly:
		return b.Weekly, true
	default:
		return nil, false
	}
}
