package entities

import "time"

// WeeklyGoal is an AI-suggested focus for one resolution and one week.
type WeeklyGoal struct {
	ID             int64     `json:"id"`
	ResolutionID   int64     `json:"resolution_id"`
	GoalText       string    `json:"goal_text"`
	MicroActions   []string  `json:"micro_actions"`
	MotivationNote *string   `json:"motivation_note"`
	WeekStart      time.Time `json:"week_start"`
	WeekEnd        time.Time `json:"week_end"`
	IsDismissed    bool      `json:"is_dismissed"`
	IsCompleted    bool      `json:"is_completed"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserWeeklyFocus is the aggregated cross-resolution focus for one user-week.
type UserWeeklyFocus struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	FocusText      string    `json:"focus_text"`
	MicroActions   []string  `json:"micro_actions"`
	MotivationNote *string   `json:"motivation_note"`
	WeekStart      time.Time `json:"week_start"`
	WeekEnd        time.Time `json:"week_end"`
	IsDismissed    bool      `json:"is_dismissed"`
	CreatedAt      time.Time `json:"created_at"`
}

// WeekBounds returns the Monday and Sunday of the week containing t, in UTC.
func WeekBounds(t time.Time) (start, end time.Time) {
	day := truncateToDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start = day.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 6)
	return start, end
}
