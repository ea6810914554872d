package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationHours(t *testing.T) {
	t.Run("derives decimal hours", func(t *testing.T) {
		cases := []struct {
			start, end string
			want       float64
		}{
			{"09:00", "10:30", 1.5},
			{"08:00", "08:45", 0.75},
			{"00:00", "23:59", 23.983333333333334},
			{"13:15", "13:16", 1.0 / 60},
		}
		for _, tc := range cases {
			got, err := DurationHours(tc.start, tc.end)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9, "%s-%s", tc.start, tc.end)
		}
	})

	t.Run("rejects reversed and zero-length spans", func(t *testing.T) {
		for _, tc := range [][2]string{
			{"10:30", "09:00"},
			{"09:00", "09:00"},
		} {
			_, err := DurationHours(tc[0], tc[1])
			assert.ErrorIs(t, err, ErrInvalidRange)
		}
	})

	t.Run("rejects malformed clock times", func(t *testing.T) {
		for _, tc := range [][2]string{
			{"9am", "10:00"},
			{"09:00", "25:00"},
			{"", "10:00"},
			{"09:00", ""},
		} {
			_, err := DurationHours(tc[0], tc[1])
			assert.ErrorIs(t, err, ErrInvalidRange)
		}
	})
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 1.98, RoundHours(1.983333333))
	assert.Equal(t, 3.5, RoundHours(3.5))
	assert.Equal(t, 0.02, RoundHours(1.0/60))
	assert.Equal(t, 0.0, RoundHours(0))
}

func TestTotalHours(t *testing.T) {
	entries := []TimeEntry{
		{Hours: 1.5},
		{Hours: 1.25},
		{Hours: 0.75},
	}
	assert.InDelta(t, 3.5, TotalHours(entries), 1e-9)
	assert.Zero(t, TotalHours(nil))
}

func TestTimeEntryClaimed(t *testing.T) {
	entry := TimeEntry{}
	assert.False(t, entry.Claimed())

	runID := "run-1"
	entry.BillingRunID = &runID
	assert.True(t, entry.Claimed())
}
