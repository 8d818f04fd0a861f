package entities

import "time"

// Verification quiz types. Contextual quizzes are grounded in the source the
// user referenced; teach-back quizzes are open-ended.
const (
	QuizTypeContextual = "contextual"
	QuizTypeTeachBack  = "teach_back"
)

// Verification question types.
const (
	QuestionConcept     = "concept"
	QuestionApplication = "application"
	QuestionComparison  = "comparison"
	QuestionRecall      = "recall"
	QuestionTeachBack   = "teach_back"
)

// QuizQuestion is a single question inside a verification quiz. Stored as
// JSONB alongside the quiz.
type QuizQuestion struct {
	ID           int      `json:"id"`
	QuestionType string   `json:"question_type"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options,omitempty"`
	Concept      string   `json:"concept,omitempty"`
}

// QuizAnswer is the user's submitted answer keyed by question ID.
type QuizAnswer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// VerificationQuiz checks comprehension of a single progress log. One quiz
// per log; it is generated once and graded once.
type VerificationQuiz struct {
	ID            int64          `json:"id"`
	ProgressLogID int64          `json:"progress_log_id"`
	Questions     []QuizQuestion `json:"questions"`
	Responses     []QuizAnswer   `json:"responses,omitempty"`
	QuizType      string         `json:"quiz_type"`
	Score         *float64       `json:"score"`
	Passed        *bool          `json:"passed"`
	IsCompleted   bool           `json:"is_completed"`
	CompletedAt   *time.Time     `json:"completed_at"`
	CreatedAt     time.Time      `json:"created_at"`
}

func NewVerificationQuiz(progressLogID int64, questions []QuizQuestion, quizType string) *VerificationQuiz {
	return &VerificationQuiz{
		ProgressLogID: progressLogID,
		Questions:     questions,
		QuizType:      quizType,
	}
}

// Complete records the grading outcome and freezes the quiz.
func (q *VerificationQuiz) Complete(responses []QuizAnswer, score float64, passed bool) {
	q.Responses = responses
	q.Score = &score
	q.Passed = &passed
	q.IsCompleted = true
	now := time.Now().UTC()
	q.CompletedAt = &now
}
