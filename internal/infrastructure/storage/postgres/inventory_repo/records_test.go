package inventory_repo

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSearch(t *testing.T) {
	repo := NewRecordRepo(nil)

	sql, args, err := repo.buildSearch("mash", 100).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT " + strings.Join(recordCols, ", ") +
		" FROM inventory_records WHERE item_name ILIKE $1 ORDER BY date DESC, item_name ASC LIMIT 100"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 1 || args[0] != "%mash%" {
		t.Errorf("Args mismatch\nwant: [%%mash%%]\ngot:  %v", args)
	}
}

func TestBuildSearch_NoLimit(t *testing.T) {
	repo := NewRecordRepo(nil)

	sql, _, err := repo.buildSearch("mash", 0).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if strings.Contains(sql, "LIMIT") {
		t.Errorf("expected no LIMIT clause, got: %s", sql)
	}
}

func TestBuildListRange(t *testing.T) {
	repo := NewRecordRepo(nil)
	from := time.Date(2026, 8, 17, 10, 30, 0, 0, time.UTC)
	to := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	sql, args, err := repo.buildListRange(from, to).ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	if !strings.Contains(sql, "WHERE date >= $1 AND date <= $2") {
		t.Errorf("unexpected WHERE clause: %s", sql)
	}
	if !strings.HasSuffix(sql, "ORDER BY date ASC, item_name ASC") {
		t.Errorf("unexpected ORDER BY: %s", sql)
	}

	// Bounds are normalized to UTC midnight regardless of the input time.
	wantFrom := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	if len(args) != 2 || !args[0].(time.Time).Equal(wantFrom) {
		t.Errorf("Args mismatch\nwant from: %v\ngot:       %v", wantFrom, args)
	}
}
