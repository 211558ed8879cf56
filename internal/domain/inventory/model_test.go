package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
)

func TestComputeDerived(t *testing.T) {
	tests := []struct {
		name        string
		rec         Record
		wantBalance int
		wantClosing int
	}{
		{
			name:        "plain day",
			rec:         Record{OpeningStock: 100, NewStock: 40, IssuedProduction: 25},
			wantBalance: 140,
			wantClosing: 115,
		},
		{
			name: "all movements",
			rec: Record{
				OpeningStock: 10, NewStock: 40, IssuedProduction: 25,
				Returns: 2, Rebagging: 1, Damaged: 3,
			},
			wantBalance: 50,
			wantClosing: 25,
		},
		{
			name:        "clamped at zero",
			rec:         Record{OpeningStock: 5, IssuedProduction: 20},
			wantBalance: 5,
			wantClosing: 0,
		},
		{
			name:        "empty record",
			rec:         Record{},
			wantBalance: 0,
			wantClosing: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rec.ComputeDerived()
			assert.Equal(t, tt.wantBalance, tt.rec.NewBalance)
			assert.Equal(t, tt.wantClosing, tt.rec.ClosingStock)
		})
	}
}

func TestMovementHelpers(t *testing.T) {
	r := Record{
		OpeningStock: 10, NewStock: 40, IssuedProduction: 25,
		Returns: 2, Rebagging: 1, Damaged: 3,
	}

	assert.Equal(t, 43, r.TotalIn())
	assert.Equal(t, 28, r.TotalOut())
	assert.Equal(t, 15, r.NetChange())
	assert.Equal(t, 81, r.TotalActivity())
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	stamp := time.Date(2026, 8, 18, 23, 45, 12, 500, loc)

	got := NormalizeDate(stamp)
	assert.Equal(t, time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), got)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		r := Record{ItemName: "Layers Mash", Date: day, NewStock: 10}
		assert.NoError(t, r.Validate(ctx))
	})

	t.Run("missing item name", func(t *testing.T) {
		r := Record{ItemName: "   ", Date: day}
		err := r.Validate(ctx)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Equal(t, "item_name", appErr.Details["field"])
	})

	t.Run("missing date", func(t *testing.T) {
		r := Record{ItemName: "Layers Mash"}
		err := r.Validate(ctx)
		require.Error(t, err)
	})

	t.Run("negative quantity", func(t *testing.T) {
		r := Record{ItemName: "Layers Mash", Date: day, Damaged: -1}
		err := r.Validate(ctx)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-08-18")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("18/08/2026")
	assert.Error(t, err)
}
