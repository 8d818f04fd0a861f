package entities

import "time"

// NorthStarGoal is the long-term transformation vision for a resolution.
// One per resolution; regenerating replaces it in place.
type NorthStarGoal struct {
	ID                 int64     `json:"id"`
	ResolutionID       int64     `json:"resolution_id"`
	GoalStatement      string    `json:"goal_statement"`
	TargetDate         time.Time `json:"target_date"`
	KeyTransformations []string  `json:"key_transformations"`
	IdentityShift      *string   `json:"identity_shift"`
	WhyItMatters       *string   `json:"why_it_matters"`
	IsAIGenerated      bool      `json:"is_ai_generated"`
	IsEdited           bool      `json:"is_edited"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// EndOfYear returns December 31 of the year containing t, in UTC.
func EndOfYear(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}
