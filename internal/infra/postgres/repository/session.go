package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres"
)

var (
	ErrSessionNotFound            = errors.New("daily session not found")
	ErrSessionQuizNotFound        = errors.New("session quiz not found")
	ErrSessionQuizAlreadyComplete = errors.New("session quiz already completed")
)

// SessionRepository provides access to daily learning sessions, their quizzes
// and the per-concept learning metrics they feed.
type SessionRepository struct {
	db postgres.DBTX
}

// NewSessionRepository creates a new SessionRepository with the provided database pool.
func NewSessionRepository(db postgres.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, resolution_id, day_number, title, content, summary, concepts,
	is_completed, completed_at, is_reinforcement, reinforced_concepts, created_at
`

func scanSession(row pgx.Row) (*entities.DailySession, error) {
	var s entities.DailySession
	err := row.Scan(
		&s.ID,
		&s.ResolutionID,
		&s.DayNumber,
		&s.Title,
		&s.Content,
		&s.Summary,
		&s.Concepts,
		&s.IsCompleted,
		&s.CompletedAt,
		&s.IsReinforcement,
		&s.ReinforcedConcepts,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession materializes one syllabus day as a session.
func (r *SessionRepository) CreateSession(ctx context.Context, s *entities.DailySession) error {
	query := `
		INSERT INTO daily_sessions (resolution_id, day_number, title, content, summary, concepts, is_reinforcement, reinforced_concepts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		s.ResolutionID,
		s.DayNumber,
		s.Title,
		s.Content,
		s.Summary,
		s.Concepts,
		s.IsReinforcement,
		s.ReinforcedConcepts,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create daily session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID, scoped to the owner.
func (r *SessionRepository) GetSession(ctx context.Context, id, userID int64) (*entities.DailySession, error) {
	query := `
		SELECT s.id, s.resolution_id, s.day_number, s.title, s.content, s.summary, s.concepts,
			s.is_completed, s.completed_at, s.is_reinforcement, s.reinforced_concepts, s.created_at
		FROM daily_sessions s
		JOIN resolutions res ON res.id = s.resolution_id
		WHERE s.id = $1 AND res.user_id = $2
	`

	s, err := scanSession(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get daily session: %w", err)
	}

	return s, nil
}

// GetSessionByDay retrieves the session for a specific syllabus day.
func (r *SessionRepository) GetSessionByDay(ctx context.Context, resolutionID int64, dayNumber int) (*entities.DailySession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM daily_sessions
		WHERE resolution_id = $1 AND day_number = $2 AND NOT is_reinforcement
		ORDER BY created_at DESC
		LIMIT 1
	`

	s, err := scanSession(r.db.QueryRow(ctx, query, resolutionID, dayNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session by day: %w", err)
	}

	return s, nil
}

// ListSessions retrieves all sessions for a resolution in day order.
func (r *SessionRepository) ListSessions(ctx context.Context, resolutionID int64) ([]*entities.DailySession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM daily_sessions
		WHERE resolution_id = $1
		ORDER BY day_number, created_at
	`

	rows, err := r.db.Query(ctx, query, resolutionID)
	if err != nil {
		return nil, fmt.Errorf("list daily sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*entities.DailySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// DeleteSessions removes all sessions for a resolution. Regenerating a
// syllabus rebuilds the session plan from scratch.
func (r *SessionRepository) DeleteSessions(ctx context.Context, resolutionID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM daily_sessions WHERE resolution_id = $1`, resolutionID)
	if err != nil {
		return fmt.Errorf("delete daily sessions: %w", err)
	}
	return nil
}

// CompleteSession marks a session finished.
func (r *SessionRepository) CompleteSession(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE daily_sessions SET is_completed = TRUE, completed_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("complete daily session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// CreateQuiz inserts a quiz and its questions for a session.
func (r *SessionRepository) CreateQuiz(ctx context.Context, quiz *entities.SessionQuiz) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO session_quizzes (session_id) VALUES ($1) RETURNING id, created_at`,
		quiz.SessionID,
	).Scan(&quiz.ID, &quiz.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session quiz: %w", err)
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.QuizID = quiz.ID
		err := r.db.QueryRow(ctx,
			`INSERT INTO session_quiz_questions (quiz_id, question_type, question_text, options, correct_answer, concept, difficulty, ord)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id`,
			q.QuizID, q.QuestionType, q.QuestionText, q.Options, q.CorrectAnswer, q.Concept, q.Difficulty, q.Order,
		).Scan(&q.ID)
		if err != nil {
			return fmt.Errorf("create quiz question: %w", err)
		}
	}

	return nil
}

// GetQuizBySession retrieves the quiz and its questions for a session.
func (r *SessionRepository) GetQuizBySession(ctx context.Context, sessionID int64) (*entities.SessionQuiz, error) {
	var quiz entities.SessionQuiz
	err := r.db.QueryRow(ctx,
		`SELECT id, session_id, is_completed, score, passed, completed_at, created_at
		 FROM session_quizzes WHERE session_id = $1`,
		sessionID,
	).Scan(&quiz.ID, &quiz.SessionID, &quiz.IsCompleted, &quiz.Score, &quiz.Passed, &quiz.CompletedAt, &quiz.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionQuizNotFound
		}
		return nil, fmt.Errorf("get session quiz: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, quiz_id, question_type, question_text, options, correct_answer, concept, difficulty, ord
		 FROM session_quiz_questions
		 WHERE quiz_id = $1
		 ORDER BY ord`,
		quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q entities.SessionQuizQuestion
		err := rows.Scan(&q.ID, &q.QuizID, &q.QuestionType, &q.QuestionText, &q.Options, &q.CorrectAnswer, &q.Concept, &q.Difficulty, &q.Order)
		if err != nil {
			return nil, fmt.Errorf("scan quiz question: %w", err)
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &quiz, nil
}

// CompleteQuiz records the final score and all graded responses. A completed
// quiz stays completed.
func (r *SessionRepository) CompleteQuiz(ctx context.Context, quiz *entities.SessionQuiz, responses []*entities.SessionQuizResponse) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE session_quizzes SET is_completed = TRUE, score = $1, passed = $2, completed_at = $3
		 WHERE id = $4 AND NOT is_completed`,
		quiz.Score, quiz.Passed, quiz.CompletedAt, quiz.ID)
	if err != nil {
		return fmt.Errorf("complete session quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionQuizAlreadyComplete
	}

	for _, resp := range responses {
		err := r.db.QueryRow(ctx,
			`INSERT INTO session_quiz_responses (quiz_id, question_id, user_answer, is_correct, feedback)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			resp.QuizID, resp.QuestionID, resp.UserAnswer, resp.IsCorrect, resp.Feedback,
		).Scan(&resp.ID, &resp.CreatedAt)
		if err != nil {
			return fmt.Errorf("create quiz response: %w", err)
		}
	}

	return nil
}

// RecordMetric folds one answer into the per-concept mastery row, creating it
// on first attempt.
func (r *SessionRepository) RecordMetric(ctx context.Context, resolutionID int64, concept string, correct bool, at time.Time) (*entities.LearningMetric, error) {
	var m entities.LearningMetric
	err := r.db.QueryRow(ctx,
		`SELECT id, resolution_id, concept, mastery_score, attempts, correct_count, needs_reinforcement, last_tested_at
		 FROM learning_metrics
		 WHERE resolution_id = $1 AND concept = $2`,
		resolutionID, concept,
	).Scan(&m.ID, &m.ResolutionID, &m.Concept, &m.MasteryScore, &m.Attempts, &m.CorrectCount, &m.NeedsReinforcement, &m.LastTestedAt)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		m = entities.LearningMetric{ResolutionID: resolutionID, Concept: concept}
		m.RecordAttempt(correct, at)
		insertErr := r.db.QueryRow(ctx,
			`INSERT INTO learning_metrics (resolution_id, concept, mastery_score, attempts, correct_count, needs_reinforcement, last_tested_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			m.ResolutionID, m.Concept, m.MasteryScore, m.Attempts, m.CorrectCount, m.NeedsReinforcement, m.LastTestedAt,
		).Scan(&m.ID)
		if insertErr != nil {
			return nil, fmt.Errorf("create learning metric: %w", insertErr)
		}
		return &m, nil

	case err != nil:
		return nil, fmt.Errorf("get learning metric: %w", err)
	}

	m.RecordAttempt(correct, at)
	_, err = r.db.Exec(ctx,
		`UPDATE learning_metrics SET mastery_score = $1, attempts = $2, correct_count = $3, needs_reinforcement = $4, last_tested_at = $5
		 WHERE id = $6`,
		m.MasteryScore, m.Attempts, m.CorrectCount, m.NeedsReinforcement, m.LastTestedAt, m.ID)
	if err != nil {
		return nil, fmt.Errorf("update learning metric: %w", err)
	}

	return &m, nil
}

// ListWeakConcepts retrieves concepts flagged for reinforcement, weakest first.
func (r *SessionRepository) ListWeakConcepts(ctx context.Context, resolutionID int64, limit int) ([]*entities.LearningMetric, error) {
	query := `
		SELECT id, resolution_id, concept, mastery_score, attempts, correct_count, needs_reinforcement, last_tested_at
		FROM learning_metrics
		WHERE resolution_id = $1 AND needs_reinforcement
		ORDER BY mastery_score
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, resolutionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list weak concepts: %w", err)
	}
	defer rows.Close()

	var metrics []*entities.LearningMetric
	for rows.Next() {
		var m entities.LearningMetric
		err := rows.Scan(&m.ID, &m.ResolutionID, &m.Concept, &m.MasteryScore, &m.Attempts, &m.CorrectCount, &m.NeedsReinforcement, &m.LastTestedAt)
		if err != nil {
			return nil, fmt.Errorf("scan learning metric: %w", err)
		}
		metrics = append(metrics, &m)
	}

	return metrics, rows.Err()
}

// ListMetrics retrieves all mastery rows for a resolution.
func (r *SessionRepository) ListMetrics(ctx context.Context, resolutionID int64) ([]*entities.LearningMetric, error) {
	query := `
		SELECT id, resolution_id, concept, mastery_score, attempts, correct_count, needs_reinforcement, last_tested_at
		FROM learning_metrics
		WHERE resolution_id = $1
		ORDER BY concept
	`

	rows, err := r.db.Query(ctx, query, resolutionID)
	if err != nil {
		return nil, fmt.Errorf("list learning metrics: %w", err)
	}
	defer rows.Close()

	var metrics []*entities.LearningMetric
	for rows.Next() {
		var m entities.LearningMetric
		err := rows.Scan(&m.ID, &m.ResolutionID, &m.Concept, &m.MasteryScore, &m.Attempts, &m.CorrectCount, &m.NeedsReinforcement, &m.LastTestedAt)
		if err != nil {
			return nil, fmt.Errorf("scan learning metric: %w", err)
		}
		metrics = append(metrics, &m)
	}

	return metrics, rows.Err()
}
