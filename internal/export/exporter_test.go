package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreviousWeek(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantFrom string
		wantTo   string
	}{
		{
			name:     "monday morning",
			now:      time.Date(2026, 8, 24, 6, 0, 0, 0, time.UTC),
			wantFrom: "2026-08-17",
			wantTo:   "2026-08-23",
		},
		{
			name:     "mid week",
			now:      time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC),
			wantFrom: "2026-08-17",
			wantTo:   "2026-08-23",
		},
		{
			name:     "sunday still reports the week before",
			now:      time.Date(2026, 8, 23, 23, 59, 0, 0, time.UTC),
			wantFrom: "2026-08-10",
			wantTo:   "2026-08-16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := PreviousWeek(tt.now)
			assert.Equal(t, tt.wantFrom, rng.From.Format("2006-01-02"))
			assert.Equal(t, tt.wantTo, rng.To.Format("2006-01-02"))
			assert.Equal(t, time.Monday, rng.From.Weekday())
			assert.Equal(t, time.Sunday, rng.To.Weekday())
		})
	}
}
