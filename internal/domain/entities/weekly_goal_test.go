package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "monday maps to itself",
			in:        day(2026, time.March, 2),
			wantStart: day(2026, time.March, 2),
			wantEnd:   day(2026, time.March, 8),
		},
		{
			name:      "midweek maps back to monday",
			in:        day(2026, time.March, 5),
			wantStart: day(2026, time.March, 2),
			wantEnd:   day(2026, time.March, 8),
		},
		{
			name:      "sunday belongs to the preceding monday",
			in:        day(2026, time.March, 8),
			wantStart: day(2026, time.March, 2),
			wantEnd:   day(2026, time.March, 8),
		},
		{
			name:      "time of day is ignored",
			in:        time.Date(2026, time.March, 4, 17, 30, 0, 0, time.UTC),
			wantStart: day(2026, time.March, 2),
			wantEnd:   day(2026, time.March, 8),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(tt.in)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
