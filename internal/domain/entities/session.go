package entities

import "time"

// Legacy syllabus flow: a resolution can carry a generated syllabus broken
// into numbered daily sessions, each with its own quiz.

// SyllabusDay is one day of a generated syllabus, stored as JSONB inside the
// syllabus content.
type SyllabusDay struct {
	Day              int      `json:"day"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Concepts         []string `json:"concepts"`
	EstimatedMinutes int      `json:"estimated_minutes"`
}

// Syllabus is the generated day-by-day curriculum for a resolution.
type Syllabus struct {
	ID            int64         `json:"id"`
	ResolutionID  int64         `json:"resolution_id"`
	Title         string        `json:"title"`
	Days          []SyllabusDay `json:"days"`
	TotalDays     int           `json:"total_days"`
	GeneratedAt   time.Time     `json:"generated_at"`
	LastAdaptedAt *time.Time    `json:"last_adapted_at"`
}

// DailySession is one day's learning session materialized from the syllabus.
type DailySession struct {
	ID                 int64      `json:"id"`
	ResolutionID       int64      `json:"resolution_id"`
	DayNumber          int        `json:"day_number"`
	Title              string     `json:"title"`
	Content            string     `json:"content"`
	Summary            string     `json:"summary"`
	Concepts           []string   `json:"concepts"`
	IsCompleted        bool       `json:"is_completed"`
	CompletedAt        *time.Time `json:"completed_at"`
	IsReinforcement    bool       `json:"is_reinforcement"`
	ReinforcedConcepts []string   `json:"reinforced_concepts,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Session quiz question types.
const (
	SessionQuestionMultipleChoice = "multiple_choice"
	SessionQuestionTrueFalse      = "true_false"
	SessionQuestionShortAnswer    = "short_answer"
)

// SessionQuiz is the active-recall quiz attached to a daily session.
type SessionQuiz struct {
	ID          int64                 `json:"id"`
	SessionID   int64                 `json:"session_id"`
	Questions   []SessionQuizQuestion `json:"questions"`
	IsCompleted bool                  `json:"is_completed"`
	Score       *float64              `json:"score"` // percentage 0..100
	Passed      *bool                 `json:"passed"`
	CompletedAt *time.Time            `json:"completed_at"`
	CreatedAt   time.Time             `json:"created_at"`
}

// SessionQuizQuestion is a graded question with a known correct answer.
type SessionQuizQuestion struct {
	ID            int64    `json:"id"`
	QuizID        int64    `json:"quiz_id"`
	QuestionType  string   `json:"question_type"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"-"` // never sent to the client before submission
	Concept       string   `json:"concept"`
	Difficulty    string   `json:"difficulty"`
	Order         int      `json:"order"`
}

// SessionQuizResponse is the graded record of one submitted answer.
type SessionQuizResponse struct {
	ID         int64     `json:"id"`
	QuizID     int64     `json:"quiz_id"`
	QuestionID int64     `json:"question_id"`
	UserAnswer string    `json:"user_answer"`
	IsCorrect  bool      `json:"is_correct"`
	Feedback   string    `json:"feedback"`
	CreatedAt  time.Time `json:"created_at"`
}

// LearningMetric tracks per-concept mastery across session quizzes.
type LearningMetric struct {
	ID                 int64      `json:"id"`
	ResolutionID       int64      `json:"resolution_id"`
	Concept            string     `json:"concept"`
	MasteryScore       float64    `json:"mastery_score"` // correct/attempts
	Attempts           int        `json:"attempts"`
	CorrectCount       int        `json:"correct_count"`
	NeedsReinforcement bool       `json:"needs_reinforcement"`
	LastTestedAt       *time.Time `json:"last_tested_at"`
}

// RecordAttempt folds one quiz answer into the metric.
// Mastery below 0.7 flags the concept for reinforcement.
func (m *LearningMetric) RecordAttempt(correct bool, at time.Time) {
	m.Attempts++
	if correct {
		m.CorrectCount++
	}
	m.MasteryScore = float64(m.CorrectCount) / float64(m.Attempts)
	m.NeedsReinforcement = m.MasteryScore < 0.7
	m.LastTestedAt = &at
}

// ContentChunk is a piece of uploaded learning material kept for syllabus
// generation context.
type ContentChunk struct {
	ID           int64     `json:"id"`
	ResolutionID int64     `json:"resolution_id"`
	Source       string    `json:"source"`
	Content      string    `json:"content"`
	ChunkIndex   int       `json:"chunk_index"`
	CreatedAt    time.Time `json:"created_at"`
}
