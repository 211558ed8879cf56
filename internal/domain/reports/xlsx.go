package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders the full bundle as a workbook with one sheet per view.
func WriteXLSX(b *Bundle, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, view := range ViewNames() {
		sheet := sheetName(view)
		if i == 0 {
			// Rename the default sheet instead of leaving an empty Sheet1.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}

		if err := fillSheet(f, sheet, b, view); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, b *Bundle, view string) error {
	switch view {
	case ViewOutOfStock:
		setRow(f, sheet, 1, "ItemName", "LastStock", "LastDate", "DaysSinceStock")
		for i, it := range b.OutOfStock {
			setRow(f, sheet, i+2, it.ItemName, it.LastStock, it.LastDate, it.DaysSinceStock)
		}
	case ViewMovements:
		setRow(f, sheet, 1, "Date", "TotalIn", "TotalOut", "NetChange", "ProductCount")
		for i, m := range b.Movements {
			setRow(f, sheet, i+2, m.Date, m.TotalIn, m.TotalOut, m.NetChange, m.ProductCount)
		}
	case ViewBalances:
		setRow(f, sheet, 1, "ItemName", "OpeningStock", "ClosingStock", "NetChange", "MovementType")
		for i, r := range b.Balances {
			setRow(f, sheet, i+2, r.ItemName, r.OpeningStock, r.ClosingStock, r.NetChange, r.MovementType)
		}
	case ViewProduction:
		setRow(f, sheet, 1, "ItemName", "TotalIssued", "AvgDailyUsage", "RecordCount", "LastDate", "LastStock")
		for i, r := range b.Production {
			setRow(f, sheet, i+2, r.ItemName, r.TotalIssued, r.AvgDailyUsage, r.RecordCount, r.LastDate, r.LastStock)
		}
	case ViewReturns:
		setRow(f, sheet, 1, "ItemName", "Returns", "Rebagging", "NewStock", "ReturnRate")
		for i, r := range b.ReturnsRebagging {
			setRow(f, sheet, i+2, r.ItemName, r.Returns, r.Rebagging, r.NewStock, r.ReturnRate)
		}
	case ViewDamaged:
		setRow(f, sheet, 1, "ItemName", "Damaged", "NewStock", "DamagePercentage")
		for i, r := range b.Damaged {
			setRow(f, sheet, i+2, r.ItemName, r.Damaged, r.NewStock, r.DamagePercentage)
		}
	case ViewHistory:
		setRow(f, sheet, 1, "ItemName", "RecordCount", "FirstDate", "LastDate", "StockTrend")
		for i, r := range b.History {
			setRow(f, sheet, i+2, r.ItemName, r.RecordCount, r.FirstDate, r.LastDate, r.StockTrend)
		}
	case ViewWeekly:
		w := b.Weekly
		setRow(f, sheet, 1, "WeekStart", "WeekEnd", "TotalStockIn", "TotalStockOut",
			"TotalReturns", "TotalRebagging", "TotalDamaged", "NetChange",
			"ReturnRate", "DamageRate", "RebaggingRate", "StockTurnover")
		setRow(f, sheet, 2, w.WeekStart, w.WeekEnd, w.TotalStockIn, w.TotalStockOut,
			w.TotalReturns, w.TotalRebagging, w.TotalDamaged, w.NetChange,
			w.ReturnRate, w.DamageRate, w.RebaggingRate, w.StockTurnover)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func sheetName(view string) string {
	switch view {
	case ViewOutOfStock:
		return "Out Of Stock"
	case ViewMovements:
		return "Movements"
	case ViewBalances:
		return "Balances"
	case ViewProduction:
		return "Production"
	case ViewReturns:
		return "Returns Rebagging"
	case ViewDamaged:
		return "Damaged"
	case ViewHistory:
		return "History"
	case ViewWeekly:
		return "Weekly Summary"
	default:
		return view
	}
}
