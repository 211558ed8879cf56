package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/domain/inventory"
)

func TestExportCSV_HeadersAndFilenames(t *testing.T) {
	b := Aggregate(nil, weekRange(), date("2026-08-24"))

	tests := []struct {
		view       string
		filename   string
		wantHeader string
	}{
		{ViewOutOfStock, "out_of_stock_2026-08-17_2026-08-23.csv", "item_name,last_stock,last_date,days_since_stock"},
		{ViewMovements, "movements_2026-08-17_2026-08-23.csv", "date,total_in,total_out,net_change,product_count"},
		{ViewBalances, "balances_2026-08-17_2026-08-23.csv", "item_name,opening_stock,closing_stock,net_change,movement_type"},
		{ViewProduction, "production_2026-08-17_2026-08-23.csv", "item_name,total_issued,avg_daily_usage,record_count,last_date,last_stock"},
		{ViewReturns, "returns_2026-08-17_2026-08-23.csv", "item_name,returns,rebagging,new_stock,return_rate"},
		{ViewDamaged, "damaged_2026-08-17_2026-08-23.csv", "item_name,damaged,new_stock,damage_percentage"},
		{ViewHistory, "history_2026-08-17_2026-08-23.csv", "item_name,record_count,first_date,last_date,stock_trend"},
	}

	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			filename, data, err := ExportCSV(b, tt.view)
			require.NoError(t, err)
			assert.Equal(t, tt.filename, filename)

			lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
			assert.Equal(t, tt.wantHeader, lines[0])
		})
	}
}

func TestExportCSV_UnknownView(t *testing.T) {
	b := Aggregate(nil, weekRange(), date("2026-08-24"))
	_, _, err := ExportCSV(b, "bogus")
	require.Error(t, err)
}

func TestExportCSV_ValuesUnquoted(t *testing.T) {
	records := []inventory.Record{
		rec("Layers Mash", "2026-08-18", 10, 40, 25, 0, 0, 0),
	}
	b := Aggregate(records, weekRange(), date("2026-08-24"))

	_, data, err := ExportCSV(b, ViewBalances)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	// Closing 25, opening 10: net +15, increasing; no quoting in view exports.
	assert.Equal(t, "Layers Mash,10,25,15,increasing", lines[1])
}

func TestExportCSV_RatesHaveTwoDecimals(t *testing.T) {
	records := []inventory.Record{
		rec("A", "2026-08-17", 0, 3, 0, 1, 0, 0),
	}
	b := Aggregate(records, weekRange(), date("2026-08-24"))

	_, data, err := ExportCSV(b, ViewReturns)
	require.NoError(t, err)

	// 1/3 of new stock returned: rate renders as 33.33, not a long float tail.
	assert.Contains(t, string(data), ",33.33\n")
}

func TestExportCSV_WeeklySingleRow(t *testing.T) {
	records := []inventory.Record{
		rec("A", "2026-08-18", 10, 40, 25, 2, 1, 3),
	}
	b := Aggregate(records, weekRange(), date("2026-08-24"))

	filename, data, err := ExportCSV(b, ViewWeekly)
	require.NoError(t, err)
	assert.Equal(t, "weekly_2026-08-17_2026-08-23.csv", filename)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "2026-08-18,2026-08-18,40,25,2,1,3,15,"))
}

func TestExportRawCSV(t *testing.T) {
	r := rec("Broiler, Starter", "2026-08-18", 10, 40, 25, 2, 1, 3)
	r.UpdatedAt = time.Date(2026, 8, 18, 9, 30, 0, 0, time.UTC)

	filename, data := ExportRawCSV([]inventory.Record{r}, weekRange())
	assert.Equal(t, "stock_records_2026-08-17_2026-08-23.csv", filename)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"item_name,date,opening_stock,new_stock,issued_production,returns,rebagging,damaged,new_balance,closing_stock,timestamp",
		lines[0])
	// Item names are quoted in the raw export because they may contain commas.
	assert.Equal(t, `"Broiler, Starter",2026-08-18,10,40,25,2,1,3,50,25,2026-08-18T09:30:00Z`, lines[1])
}

func TestExportRawCSV_Empty(t *testing.T) {
	_, data := ExportRawCSV(nil, weekRange())
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 1)
}
