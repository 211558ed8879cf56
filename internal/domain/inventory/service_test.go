package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	records []Record
}

func (f *fakeRepo) Create(ctx context.Context, rec *Record) error {
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, rec *Record) error {
	for i := range f.records {
		if f.records[i].ID == rec.ID {
			f.records[i] = *rec
			return nil
		}
	}
	return apperror.NewNotFound("record", rec.ID.String())
}

func (f *fakeRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	out := make([]Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeRepo) Search(ctx context.Context, term string, limit int) ([]Record, error) {
	var out []Record
	for _, r := range f.records {
		if containsFold(r.ItemName, term) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByItem(ctx context.Context, itemName string, limit int) ([]Record, error) {
	var out []Record
	for _, r := range f.records {
		if r.ItemName == itemName {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetLatestByItem(ctx context.Context, itemName string) (*Record, error) {
	var latest *Record
	for i := range f.records {
		r := &f.records[i]
		if r.ItemName != itemName {
			continue
		}
		if latest == nil || r.Date.After(latest.Date) {
			latest = r
		}
	}
	if latest == nil {
		return nil, apperror.NewNotFound("record", itemName)
	}
	out := *latest
	return &out, nil
}

func (f *fakeRepo) GetByItemAndDate(ctx context.Context, itemName string, dt time.Time) (*Record, error) {
	for i := range f.records {
		r := f.records[i]
		if r.ItemName == itemName && r.Date.Equal(NormalizeDate(dt)) {
			return &r, nil
		}
	}
	return nil, apperror.NewNotFound("record", itemName)
}

func (f *fakeRepo) ListRange(ctx context.Context, from, to time.Time) ([]Record, error) {
	var out []Record
	for _, r := range f.records {
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetStats(ctx context.Context) (Stats, error) {
	var last time.Time
	for _, r := range f.records {
		if r.UpdatedAt.After(last) {
			last = r.UpdatedAt
		}
	}
	return Stats{Count: int64(len(f.records)), LastModified: last}, nil
}

func containsFold(s, substr string) bool {
	return len(substr) == 0 ||
		(len(s) >= len(substr) && indexFold(s, substr) >= 0)
}

func indexFold(s, substr string) int {
	lower := func(b byte) byte {
		if b >= 'A' && b <= 'Z' {
			return b + 'a' - 'A'
		}
		return b
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		match := true
		for j := 0; j < len(substr); j++ {
			if lower(s[i+j]) != lower(substr[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// fakeTxManager runs the function without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingAudit captures audit calls.
type recordingAudit struct {
	actions []AuditAction
	fail    bool
}

func (a *recordingAudit) RecordSaved(ctx context.Context, action AuditAction, rec, prev *Record) error {
	a.actions = append(a.actions, action)
	if a.fail {
		return errors.New("audit sink down")
	}
	return nil
}

func newTestService() (*Service, *fakeRepo, *recordingAudit) {
	repo := &fakeRepo{}
	audit := &recordingAudit{}
	return NewService(repo, fakeTxManager{}, audit), repo, audit
}

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSaveDailyEntry_NewProduct(t *testing.T) {
	svc, repo, audit := newTestService()
	ctx := context.Background()

	rec, created, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName:         "Layers Mash",
		Date:             day("2026-08-18"),
		NewStock:         40,
		IssuedProduction: 25,
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, rec.ID.String() == "00000000-0000-0000-0000-000000000000")
	// Brand-new product with no opening supplied starts from zero.
	assert.Equal(t, 0, rec.OpeningStock)
	assert.Equal(t, 40, rec.NewBalance)
	assert.Equal(t, 15, rec.ClosingStock)
	assert.Len(t, repo.records, 1)
	assert.Equal(t, []AuditAction{AuditCreate}, audit.actions)
}

func TestSaveDailyEntry_ContinuityCarriesClosingStock(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	opening := 100
	_, _, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName:         "Layers Mash",
		Date:             day("2026-08-18"),
		OpeningStock:     &opening,
		NewStock:         40,
		IssuedProduction: 25,
	})
	require.NoError(t, err)

	rec, created, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName:         "Layers Mash",
		Date:             day("2026-08-19"),
		IssuedProduction: 15,
	})
	require.NoError(t, err)
	assert.True(t, created)
	// Previous day closed at 115; the new day opens there.
	assert.Equal(t, 115, rec.OpeningStock)
	assert.Equal(t, 100, rec.ClosingStock)
}

func TestSaveDailyEntry_ExplicitOpeningWins(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	opening := 100
	_, _, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName:     "Layers Mash",
		Date:         day("2026-08-18"),
		OpeningStock: &opening,
	})
	require.NoError(t, err)

	corrected := 70
	rec, _, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName:     "Layers Mash",
		Date:         day("2026-08-19"),
		OpeningStock: &corrected,
	})
	require.NoError(t, err)
	assert.Equal(t, 70, rec.OpeningStock)
}

func TestSaveDailyEntry_PastDatedRejected(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName: "Layers Mash",
		Date:     day("2026-08-18"),
		NewStock: 10,
	})
	require.NoError(t, err)

	_, _, err = svc.SaveDailyEntry(ctx, SaveInput{
		ItemName: "Layers Mash",
		Date:     day("2026-08-17"),
		NewStock: 5,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePastDatedEntry, appErr.Code)
	assert.Equal(t, "2026-08-18", appErr.Details["latest_date"])
}

func TestSaveDailyEntry_SameDayUpdatesInPlace(t *testing.T) {
	svc, repo, audit := newTestService()
	ctx := context.Background()

	opening := 100
	first, created, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName:     "Layers Mash",
		Date:         day("2026-08-18"),
		OpeningStock: &opening,
		NewStock:     40,
	})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName:         "Layers Mash",
		Date:             day("2026-08-18"),
		NewStock:         40,
		IssuedProduction: 30,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	// Opening stock is kept from the stored record when not resupplied.
	assert.Equal(t, 100, second.OpeningStock)
	assert.Equal(t, 110, second.ClosingStock)
	assert.Len(t, repo.records, 1)
	assert.Equal(t, []AuditAction{AuditCreate, AuditUpdate}, audit.actions)
}

func TestSaveDailyEntry_ValidationFailure(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName: "",
		Date:     day("2026-08-18"),
	})
	require.Error(t, err)
	assert.Empty(t, repo.records)
}

func TestSaveDailyEntry_AuditFailureDoesNotBreakSave(t *testing.T) {
	svc, repo, audit := newTestService()
	audit.fail = true
	ctx := context.Background()

	_, created, err := svc.SaveDailyEntry(ctx, SaveInput{
		ItemName: "Layers Mash",
		Date:     day("2026-08-18"),
		NewStock: 10,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, repo.records, 1)
}

func TestSearch_EmptyTermFallsBackToRecent(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	repo.records = []Record{
		{ItemName: "Layers Mash", Date: day("2026-08-18")},
		{ItemName: "Broiler Starter", Date: day("2026-08-18")},
	}

	got, err := svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Search(ctx, "broiler")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Broiler Starter", got[0].ItemName)
}

func TestHistoryAndLatest_RequireItemName(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.History(ctx, "  ")
	require.Error(t, err)

	_, err = svc.Latest(ctx, "")
	require.Error(t, err)
}
