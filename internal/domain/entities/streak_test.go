package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStreakRecordLog(t *testing.T) {
	t.Run("first log starts the streak", func(t *testing.T) {
		s := NewStreak(1)
		s.RecordLog(day(2026, time.March, 2))

		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, 1, s.LongestStreak)
		require.NotNil(t, s.LastLogDate)
		assert.Equal(t, day(2026, time.March, 2), *s.LastLogDate)
	})

	t.Run("consecutive days extend the streak", func(t *testing.T) {
		s := NewStreak(1)
		s.RecordLog(day(2026, time.March, 2))
		s.RecordLog(day(2026, time.March, 3))
		s.RecordLog(day(2026, time.March, 4))

		assert.Equal(t, 3, s.CurrentStreak)
		assert.Equal(t, 3, s.LongestStreak)
	})

	t.Run("second log on the same day is a no-op", func(t *testing.T) {
		s := NewStreak(1)
		s.RecordLog(day(2026, time.March, 2))
		s.RecordLog(day(2026, time.March, 2).Add(18 * time.Hour))

		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, day(2026, time.March, 2), *s.LastLogDate)
	})

	t.Run("gap resets the streak but keeps the longest", func(t *testing.T) {
		s := NewStreak(1)
		s.RecordLog(day(2026, time.March, 2))
		s.RecordLog(day(2026, time.March, 3))
		s.RecordLog(day(2026, time.March, 4))
		s.RecordLog(day(2026, time.March, 10))

		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, 3, s.LongestStreak)
		assert.Equal(t, day(2026, time.March, 10), *s.LastLogDate)
	})

	t.Run("timestamps are truncated to the UTC day", func(t *testing.T) {
		s := NewStreak(1)
		s.RecordLog(time.Date(2026, time.March, 2, 23, 45, 0, 0, time.UTC))

		assert.Equal(t, day(2026, time.March, 2), *s.LastLogDate)
	})
}

func TestStreakRecordVerified(t *testing.T) {
	s := NewStreak(7)
	s.RecordVerified(day(2026, time.March, 2))
	s.RecordVerified(day(2026, time.March, 5))

	assert.Equal(t, 2, s.TotalVerifiedDays)
	require.NotNil(t, s.LastVerifiedDate)
	assert.Equal(t, day(2026, time.March, 5), *s.LastVerifiedDate)
}
