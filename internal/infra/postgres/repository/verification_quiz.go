package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres"
)

var (
	ErrQuizNotFound         = errors.New("verification quiz not found")
	ErrQuizAlreadyCompleted = errors.New("verification quiz already completed")
)

// VerificationQuizRepository provides access to verification quizzes.
type VerificationQuizRepository struct {
	db postgres.DBTX
}

// NewVerificationQuizRepository creates a new VerificationQuizRepository with the provided database pool.
func NewVerificationQuizRepository(db postgres.DBTX) *VerificationQuizRepository {
	return &VerificationQuizRepository{db: db}
}

const verificationQuizColumns = `
	id, progress_log_id, questions, responses, quiz_type, score, passed,
	is_completed, completed_at, created_at
`

func scanVerificationQuiz(row pgx.Row) (*entities.VerificationQuiz, error) {
	var quiz entities.VerificationQuiz
	err := row.Scan(
		&quiz.ID,
		&quiz.ProgressLogID,
		&quiz.Questions,
		&quiz.Responses,
		&quiz.QuizType,
		&quiz.Score,
		&quiz.Passed,
		&quiz.IsCompleted,
		&quiz.CompletedAt,
		&quiz.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// Create inserts a freshly generated quiz. A quiz already existing for the
// log is returned instead; generation happens at most once per log.
func (r *VerificationQuizRepository) Create(ctx context.Context, quiz *entities.VerificationQuiz) error {
	query := `
		INSERT INTO verification_quizzes (progress_log_id, questions, quiz_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (progress_log_id) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, quiz.ProgressLogID, quiz.Questions, quiz.QuizType).
		Scan(&quiz.ID, &quiz.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, getErr := r.GetByLogID(ctx, quiz.ProgressLogID)
			if getErr != nil {
				return getErr
			}
			*quiz = *existing
			return nil
		}
		return fmt.Errorf("create verification quiz: %w", err)
	}

	return nil
}

// GetByID retrieves a quiz owned by the user, resolved through its log.
func (r *VerificationQuizRepository) GetByID(ctx context.Context, id, userID int64) (*entities.VerificationQuiz, error) {
	query := `
		SELECT q.id, q.progress_log_id, q.questions, q.responses, q.quiz_type,
			q.score, q.passed, q.is_completed, q.completed_at, q.created_at
		FROM verification_quizzes q
		JOIN progress_logs p ON p.id = q.progress_log_id
		JOIN resolutions res ON res.id = p.resolution_id
		WHERE q.id = $1 AND res.user_id = $2
	`

	quiz, err := scanVerificationQuiz(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get verification quiz: %w", err)
	}

	return quiz, nil
}

// GetByLogID retrieves the quiz attached to a progress log.
func (r *VerificationQuizRepository) GetByLogID(ctx context.Context, progressLogID int64) (*entities.VerificationQuiz, error) {
	query := `
		SELECT ` + verificationQuizColumns + `
		FROM verification_quizzes
		WHERE progress_log_id = $1
	`

	quiz, err := scanVerificationQuiz(r.db.QueryRow(ctx, query, progressLogID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get verification quiz: %w", err)
	}

	return quiz, nil
}

// Complete persists the grading outcome. Grading an already completed quiz
// is rejected so scores are immutable.
func (r *VerificationQuizRepository) Complete(ctx context.Context, quiz *entities.VerificationQuiz) error {
	query := `
		UPDATE verification_quizzes SET
			responses = $1,
			score = $2,
			passed = $3,
			is_completed = TRUE,
			completed_at = $4
		WHERE id = $5 AND NOT is_completed
	`

	tag, err := r.db.Exec(ctx, query,
		quiz.Responses,
		quiz.Score,
		quiz.Passed,
		quiz.CompletedAt,
		quiz.ID,
	)
	if err != nil {
		return fmt.Errorf("complete verification quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuizAlreadyCompleted
	}

	return nil
}
