package reports

import (
	"sort"
	"time"

	"stockbook/internal/domain/inventory"
)

// Aggregate computes the full report bundle for records within rng.
// It is a pure function: no I/O, no shared state; now anchors the
// days-since-stock calculation.
func Aggregate(records []inventory.Record, rng DateRange, now time.Time) *Bundle {
	filtered := FilterByRange(records, rng)
	byItem := groupByItem(filtered)
	byDate := groupByDate(filtered)

	b := &Bundle{
		From:        rng.From.Format(inventory.DateLayout),
		To:          rng.To.Format(inventory.DateLayout),
		GeneratedAt: now,
		RecordCount: len(filtered),

		OutOfStock:       outOfStock(byItem, now),
		Movements:        movements(byDate),
		Balances:         balances(byItem),
		Production:       production(byItem),
		ReturnsRebagging: returnsRebagging(byItem),
		Damaged:          damaged(byItem),
		History:          history(byItem),
		Weekly:           weekly(filtered, byItem, byDate),
	}

	return b
}

// FilterByRange keeps records with rng.From <= date <= rng.To.
// Filtering is idempotent: aggregating an already-filtered set is equivalent.
func FilterByRange(records []inventory.Record, rng DateRange) []inventory.Record {
	out := make([]inventory.Record, 0, len(records))
	for _, r := range records {
		if rng.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// groupByItem partitions records per product, each bucket sorted
// chronologically.
func groupByItem(records []inventory.Record) map[string][]inventory.Record {
	buckets := make(map[string][]inventory.Record)
	for _, r := range records {
		buckets[r.ItemName] = append(buckets[r.ItemName], r)
	}
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Date.Before(bucket[j].Date)
		})
	}
	return buckets
}

// groupByDate partitions records per calendar day, each bucket sorted by
// item name for deterministic output.
func groupByDate(records []inventory.Record) map[string][]inventory.Record {
	buckets := make(map[string][]inventory.Record)
	for _, r := range records {
		key := r.DateString()
		buckets[key] = append(buckets[key], r)
	}
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].ItemName < bucket[j].ItemName
		})
	}
	return buckets
}

func sortedKeys(buckets map[string][]inventory.Record) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// outOfStock lists products whose latest record closed at zero, longest
// unstocked first.
func outOfStock(byItem map[string][]inventory.Record, now time.Time) []OutOfStockItem {
	today := inventory.NormalizeDate(now)
	items := make([]OutOfStockItem, 0)

	for _, name := range sortedKeys(byItem) {
		bucket := byItem[name]
		last := bucket[len(bucket)-1]
		if last.ClosingStock != 0 {
			continue
		}
		days := int(today.Sub(last.Date).Hours() / 24)
		items = append(items, OutOfStockItem{
			ItemName:       name,
			LastStock:      last.ClosingStock,
			LastDate:       last.DateString(),
			DaysSinceStock: days,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DaysSinceStock > items[j].DaysSinceStock
	})
	return items
}

// movements rolls up stock-in/stock-out per date, ascending by date.
func movements(byDate map[string][]inventory.Record) []MovementRow {
	rows := make([]MovementRow, 0, len(byDate))

	for _, date := range sortedKeys(byDate) {
		bucket := byDate[date]
		row := MovementRow{
			Date:            date,
			ProductCount:    len(bucket),
			DailyActivities: make([]DailyActivity, 0, len(bucket)),
		}
		for _, r := range bucket {
			row.TotalIn += r.TotalIn()
			row.TotalOut += r.TotalOut()
			row.DailyActivities = append(row.DailyActivities, DailyActivity{
				ItemName:         r.ItemName,
				OpeningStock:     r.OpeningStock,
				NewStock:         r.NewStock,
				IssuedProduction: r.IssuedProduction,
				Returns:          r.Returns,
				Rebagging:        r.Rebagging,
				Damaged:          r.Damaged,
				ClosingStock:     r.ClosingStock,
				NetChange:        r.NetChange(),
			})
		}
		row.NetChange = row.TotalIn - row.TotalOut
		rows = append(rows, row)
	}

	return rows
}

// balances compares each product's first and last record in range, largest
// absolute change first.
func balances(byItem map[string][]inventory.Record) []BalanceRow {
	rows := make([]BalanceRow, 0, len(byItem))

	for _, name := range sortedKeys(byItem) {
		bucket := byItem[name]
		first, last := bucket[0], bucket[len(bucket)-1]
		net := last.ClosingStock - first.OpeningStock
		rows = append(rows, BalanceRow{
			ItemName:     name,
			OpeningStock: first.OpeningStock,
			ClosingStock: last.ClosingStock,
			NetChange:    net,
			MovementType: classifyTrend(net),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return abs(rows[i].NetChange) > abs(rows[j].NetChange)
	})
	return rows
}

// production sums issued-to-production per product; products with no issue
// are excluded. Average is over records present, not calendar days.
func production(byItem map[string][]inventory.Record) []ProductionRow {
	rows := make([]ProductionRow, 0)

	for _, name := range sortedKeys(byItem) {
		bucket := byItem[name]
		total := 0
		for _, r := range bucket {
			total += r.IssuedProduction
		}
		if total <= 0 {
			continue
		}
		last := bucket[len(bucket)-1]
		rows = append(rows, ProductionRow{
			ItemName:      name,
			TotalIssued:   total,
			AvgDailyUsage: float64(total) / float64(len(bucket)),
			RecordCount:   len(bucket),
			LastDate:      last.DateString(),
			LastStock:     last.ClosingStock,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalIssued > rows[j].TotalIssued
	})
	return rows
}

// returnsRebagging sums returns and rebagging per product; products with
// neither are excluded. Return rate is a percentage of new stock received.
func returnsRebagging(byItem map[string][]inventory.Record) []ReturnsRow {
	rows := make([]ReturnsRow, 0)

	for _, name := range sortedKeys(byItem) {
		bucket := byItem[name]
		var returns, rebagging, newStock int
		for _, r := range bucket {
			returns += r.Returns
			rebagging += r.Rebagging
			newStock += r.NewStock
		}
		if returns <= 0 && rebagging <= 0 {
			continue
		}
		rows = append(rows, ReturnsRow{
			ItemName:   name,
			Returns:    returns,
			Rebagging:  rebagging,
			NewStock:   newStock,
			ReturnRate: percentage(returns, newStock),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Returns+rows[i].Rebagging > rows[j].Returns+rows[j].Rebagging
	})
	return rows
}

// damaged sums damaged stock per product; products without damage are
// excluded. Highest damage percentage first.
func damaged(byItem map[string][]inventory.Record) []DamagedRow {
	rows := make([]DamagedRow, 0)

	for _, name := range sortedKeys(byItem) {
		bucket := byItem[name]
		var dmg, newStock int
		for _, r := range bucket {
			dmg += r.Damaged
			newStock += r.NewStock
		}
		if dmg <= 0 {
			continue
		}
		rows = append(rows, DamagedRow{
			ItemName:         name,
			Damaged:          dmg,
			NewStock:         newStock,
			DamagePercentage: percentage(dmg, newStock),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DamagePercentage > rows[j].DamagePercentage
	})
	return rows
}

// history summarizes recording activity per product, most records first.
// The trend compares the last record's closing stock to the first record's
// opening stock.
func history(byItem map[string][]inventory.Record) []HistoryRow {
	rows := make([]HistoryRow, 0, len(byItem))

	for _, name := range sortedKeys(byItem) {
		bucket := byItem[name]
		first, last := bucket[0], bucket[len(bucket)-1]
		rows = append(rows, HistoryRow{
			ItemName:    name,
			RecordCount: len(bucket),
			FirstDate:   first.DateString(),
			LastDate:    last.DateString(),
			StockTrend:  classifyTrend(last.ClosingStock - first.OpeningStock),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RecordCount > rows[j].RecordCount
	})
	return rows
}

// weekly builds the period summary. Boundaries are the min/max dates present
// in the filtered set; the net-change total is new stock minus issued only.
func weekly(filtered []inventory.Record, byItem, byDate map[string][]inventory.Record) WeeklySummary {
	w := WeeklySummary{
		Products: make([]WeeklyProductRow, 0, len(byItem)),
		Days:     make([]WeeklyDayRow, 0, len(byDate)),
	}
	if len(filtered) == 0 {
		return w
	}

	minDate, maxDate := filtered[0].Date, filtered[0].Date
	for _, r := range filtered {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
		w.TotalStockIn += r.NewStock
		w.TotalStockOut += r.IssuedProduction
		w.TotalReturns += r.Returns
		w.TotalRebagging += r.Rebagging
		w.TotalDamaged += r.Damaged
	}
	w.WeekStart = minDate.Format(inventory.DateLayout)
	w.WeekEnd = maxDate.Format(inventory.DateLayout)
	w.NetChange = w.TotalStockIn - w.TotalStockOut

	// Per-product rows; zero-activity rows are dropped.
	for _, name := range sortedKeys(byItem) {
		bucket := byItem[name]
		first, last := bucket[0], bucket[len(bucket)-1]
		var issued, activity int
		for _, r := range bucket {
			issued += r.IssuedProduction
			activity += r.TotalActivity()
		}
		if activity == 0 {
			continue
		}
		w.Products = append(w.Products, WeeklyProductRow{
			ItemName:      name,
			OpeningStock:  first.OpeningStock,
			ClosingStock:  last.ClosingStock,
			NetChange:     last.ClosingStock - first.OpeningStock,
			TotalIssued:   issued,
			AvgDailyUsage: float64(issued) / float64(len(bucket)),
			TotalActivity: activity,
			ActivityLevel: classifyActivity(activity),
		})
	}
	sort.SliceStable(w.Products, func(i, j int) bool {
		return w.Products[i].TotalActivity > w.Products[j].TotalActivity
	})

	// Per-day rows with most-active and top-net-change products.
	for _, date := range sortedKeys(byDate) {
		bucket := byDate[date]
		day := WeeklyDayRow{
			Date:         date,
			ProductCount: len(bucket),
		}
		if t, err := inventory.ParseDate(date); err == nil {
			day.Weekday = t.Weekday().String()
		}

		var bestActivity int
		topSet := false
		for _, r := range bucket {
			day.TotalIn += r.TotalIn()
			day.TotalOut += r.TotalOut()

			if act := r.TotalActivity(); act > bestActivity {
				bestActivity = act
				day.MostActiveItem = r.ItemName
			}

			// Top product by net change; equal nets keep the earlier
			// (name-sorted) product, matching the reduce order.
			net := r.NetChange()
			if !topSet || net > day.TopItemNet {
				day.TopItemNet = net
				day.TopItem = r.ItemName
				topSet = true
			}
		}
		day.NetChange = day.TotalIn - day.TotalOut
		w.Days = append(w.Days, day)
	}

	// Efficiency metrics as percentages of total stock-in.
	w.ReturnRate = percentage(w.TotalReturns, w.TotalStockIn)
	w.DamageRate = percentage(w.TotalDamaged, w.TotalStockIn)
	w.RebaggingRate = percentage(w.TotalRebagging, w.TotalStockIn)
	w.StockTurnover = float64(w.TotalStockOut) / float64(max(w.TotalStockIn, 1))

	return w
}

func classifyTrend(net int) string {
	switch {
	case net > 0:
		return TrendIncreasing
	case net < 0:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func classifyActivity(total int) string {
	switch {
	case total > 100:
		return ActivityHigh
	case total > 50:
		return ActivityMedium
	default:
		return ActivityLow
	}
}

// percentage returns part/whole*100, or exactly 0 when whole is 0.
// Never produces NaN or Inf.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
