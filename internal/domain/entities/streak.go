package entities

import "time"

// Streak tracks check-in consistency for a resolution. One row per
// resolution, created together with it.
type Streak struct {
	ID                int64      `json:"id"`
	ResolutionID      int64      `json:"resolution_id"`
	CurrentStreak     int        `json:"current_streak"`
	LongestStreak     int        `json:"longest_streak"`
	TotalVerifiedDays int        `json:"total_verified_days"`
	LastLogDate       *time.Time `json:"last_log_date"`
	LastVerifiedDate  *time.Time `json:"last_verified_date"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func NewStreak(resolutionID int64) *Streak {
	return &Streak{ResolutionID: resolutionID}
}

// RecordLog advances the streak for a check-in on the given UTC day.
// A log on the day after the previous one (or the very first log) extends the
// streak; a gap resets it to 1; a second log on the same day is a no-op.
func (s *Streak) RecordLog(today time.Time) {
	today = truncateToDay(today)

	switch {
	case s.LastLogDate == nil:
		s.CurrentStreak++
	case sameDay(*s.LastLogDate, today):
		return
	case sameDay(*s.LastLogDate, today.AddDate(0, 0, -1)):
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}

	s.LastLogDate = &today
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
}

// RecordVerified counts a passed verification quiz on the given UTC day.
func (s *Streak) RecordVerified(today time.Time) {
	today = truncateToDay(today)
	s.TotalVerifiedDays++
	s.LastVerifiedDate = &today
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
