package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:05")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 5, m)

	for _, bad := range []string{"", "7", "25:00", "09:60", "nine"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestNextOccurrence(t *testing.T) {
	// Monday
	now := time.Date(2026, time.October, 19, 8, 30, 0, 0, time.UTC)
	all := []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}

	tests := []struct {
		name     string
		hour     int
		minute   int
		weekdays []time.Weekday
		want     time.Time
		wantOK   bool
	}{
		{
			name: "later_today", hour: 9, minute: 0, weekdays: all,
			want: time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC), wantOK: true,
		},
		{
			name: "already_passed_today", hour: 8, minute: 0, weekdays: all,
			want: time.Date(2026, time.October, 20, 8, 0, 0, 0, time.UTC), wantOK: true,
		},
		{
			name: "exactly_now_is_not_next", hour: 8, minute: 30, weekdays: all,
			want: time.Date(2026, time.October, 20, 8, 30, 0, 0, time.UTC), wantOK: true,
		},
		{
			name: "weekend_only", hour: 9, minute: 0, weekdays: []time.Weekday{time.Saturday, time.Sunday},
			want: time.Date(2026, time.October, 24, 9, 0, 0, 0, time.UTC), wantOK: true,
		},
		{
			name: "same_weekday_passed_wraps_a_week", hour: 7, minute: 0, weekdays: []time.Weekday{time.Monday},
			want: time.Date(2026, time.October, 26, 7, 0, 0, 0, time.UTC), wantOK: true,
		},
		{
			name: "no_weekdays", hour: 9, minute: 0, weekdays: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(now, tt.hour, tt.minute, tt.weekdays)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
