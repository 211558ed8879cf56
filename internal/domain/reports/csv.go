package reports

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/inventory"
)

// ExportCSV serializes one report view as CSV: a comma-joined header row
// followed by value rows. Numeric fields are unquoted; item names are quoted
// only in the raw full-export path (see ExportRawCSV). The filename embeds
// the bundle's date range.
func ExportCSV(b *Bundle, view string) (filename string, data []byte, err error) {
	var rows [][]string

	switch view {
	case ViewOutOfStock:
		rows = append(rows, []string{"item_name", "last_stock", "last_date", "days_since_stock"})
		for _, it := range b.OutOfStock {
			rows = append(rows, []string{
				it.ItemName, itoa(it.LastStock), it.LastDate, itoa(it.DaysSinceStock),
			})
		}
	case ViewMovements:
		rows = append(rows, []string{"date", "total_in", "total_out", "net_change", "product_count"})
		for _, m := range b.Movements {
			rows = append(rows, []string{
				m.Date, itoa(m.TotalIn), itoa(m.TotalOut), itoa(m.NetChange), itoa(m.ProductCount),
			})
		}
	case ViewBalances:
		rows = append(rows, []string{"item_name", "opening_stock", "closing_stock", "net_change", "movement_type"})
		for _, r := range b.Balances {
			rows = append(rows, []string{
				r.ItemName, itoa(r.OpeningStock), itoa(r.ClosingStock), itoa(r.NetChange), r.MovementType,
			})
		}
	case ViewProduction:
		rows = append(rows, []string{"item_name", "total_issued", "avg_daily_usage", "record_count", "last_date", "last_stock"})
		for _, r := range b.Production {
			rows = append(rows, []string{
				r.ItemName, itoa(r.TotalIssued), ftoa(r.AvgDailyUsage), itoa(r.RecordCount), r.LastDate, itoa(r.LastStock),
			})
		}
	case ViewReturns:
		rows = append(rows, []string{"item_name", "returns", "rebagging", "new_stock", "return_rate"})
		for _, r := range b.ReturnsRebagging {
			rows = append(rows, []string{
				r.ItemName, itoa(r.Returns), itoa(r.Rebagging), itoa(r.NewStock), ftoa(r.ReturnRate),
			})
		}
	case ViewDamaged:
		rows = append(rows, []string{"item_name", "damaged", "new_stock", "damage_percentage"})
		for _, r := range b.Damaged {
			rows = append(rows, []string{
				r.ItemName, itoa(r.Damaged), itoa(r.NewStock), ftoa(r.DamagePercentage),
			})
		}
	case ViewHistory:
		rows = append(rows, []string{"item_name", "record_count", "first_date", "last_date", "stock_trend"})
		for _, r := range b.History {
			rows = append(rows, []string{
				r.ItemName, itoa(r.RecordCount), r.FirstDate, r.LastDate, r.StockTrend,
			})
		}
	case ViewWeekly:
		rows = append(rows, []string{
			"week_start", "week_end", "total_stock_in", "total_stock_out",
			"total_returns", "total_rebagging", "total_damaged", "net_change",
			"return_rate", "damage_rate", "rebagging_rate", "stock_turnover",
		})
		w := b.Weekly
		rows = append(rows, []string{
			w.WeekStart, w.WeekEnd, itoa(w.TotalStockIn), itoa(w.TotalStockOut),
			itoa(w.TotalReturns), itoa(w.TotalRebagging), itoa(w.TotalDamaged), itoa(w.NetChange),
			ftoa(w.ReturnRate), ftoa(w.DamageRate), ftoa(w.RebaggingRate), ftoa(w.StockTurnover),
		})
	default:
		return "", nil, apperror.NewValidation("unknown report view").WithDetail("view", view)
	}

	name := strings.ReplaceAll(view, "-", "_") + "_" + b.From + "_" + b.To + ".csv"
	return name, joinRows(rows), nil
}

// ExportRawCSV serializes the filtered record set. Item names are quoted here
// (and only here) because free-form product names may contain commas.
func ExportRawCSV(records []inventory.Record, rng DateRange) (filename string, data []byte) {
	rows := [][]string{{
		"item_name", "date", "opening_stock", "new_stock", "issued_production",
		"returns", "rebagging", "damaged", "new_balance", "closing_stock", "timestamp",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			`"` + r.ItemName + `"`, r.DateString(),
			itoa(r.OpeningStock), itoa(r.NewStock), itoa(r.IssuedProduction),
			itoa(r.Returns), itoa(r.Rebagging), itoa(r.Damaged),
			itoa(r.NewBalance), itoa(r.ClosingStock),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return "stock_records_" + rng.String() + ".csv", joinRows(rows)
}

func joinRows(rows [][]string) []byte {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// ftoa renders rates and averages with two decimal places so exports stay
// byte-stable across runs.
func ftoa(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
