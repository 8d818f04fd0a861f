package entities

import "time"

// Progress log input types.
const (
	InputTypeText  = "text"
	InputTypeVoice = "voice"
)

// ProgressLog is a single day's check-in for a resolution. At most one log
// exists per resolution per UTC day.
type ProgressLog struct {
	ID                int64     `json:"id"`
	ResolutionID      int64     `json:"resolution_id"`
	Date              time.Time `json:"date"` // UTC day the progress belongs to
	Content           string    `json:"content"`
	InputType         string    `json:"input_type"`
	SourceReference   *string   `json:"source_reference"`
	DurationMinutes   *int      `json:"duration_minutes"`
	ConceptsClaimed   []string  `json:"concepts_claimed"`
	Verified          bool      `json:"verified"`
	VerificationScore *float64  `json:"verification_score"`
	QuizCompleted     bool      `json:"quiz_completed"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewProgressLog(resolutionID int64, date time.Time, content, inputType string) *ProgressLog {
	if inputType == "" {
		inputType = InputTypeText
	}
	return &ProgressLog{
		ResolutionID:    resolutionID,
		Date:            date,
		Content:         content,
		InputType:       inputType,
		ConceptsClaimed: []string{},
	}
}
