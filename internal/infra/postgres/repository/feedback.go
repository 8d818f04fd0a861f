package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackRepository provides access to feedback on AI-generated content.
type FeedbackRepository struct {
	db postgres.DBTX
}

// NewFeedbackRepository creates a new FeedbackRepository with the provided database pool.
func NewFeedbackRepository(db postgres.DBTX) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a feedback record.
func (r *FeedbackRepository) Create(ctx context.Context, fb *entities.AIFeedback) error {
	query := `
		INSERT INTO ai_feedback (user_id, content_type, content_id, rating, feedback_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		fb.UserID,
		fb.ContentType,
		fb.ContentID,
		fb.Rating,
		fb.FeedbackText,
	).Scan(&fb.ID, &fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}

	return nil
}

// GetByID retrieves one feedback record owned by the user.
func (r *FeedbackRepository) GetByID(ctx context.Context, id, userID int64) (*entities.AIFeedback, error) {
	query := `
		SELECT id, user_id, content_type, content_id, rating, feedback_text,
			was_regenerated, regenerated_content_id, created_at
		FROM ai_feedback
		WHERE id = $1 AND user_id = $2
	`

	var fb entities.AIFeedback
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&fb.ID,
		&fb.UserID,
		&fb.ContentType,
		&fb.ContentID,
		&fb.Rating,
		&fb.FeedbackText,
		&fb.WasRegenerated,
		&fb.RegeneratedContentID,
		&fb.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}

	return &fb, nil
}

// MarkRegenerated links a feedback record to the content produced in response.
func (r *FeedbackRepository) MarkRegenerated(ctx context.Context, id, regeneratedContentID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE ai_feedback SET was_regenerated = TRUE, regenerated_content_id = $1 WHERE id = $2`,
		regeneratedContentID, id)
	if err != nil {
		return fmt.Errorf("mark feedback regenerated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

// ListByContent retrieves feedback left on one piece of content, newest first.
func (r *FeedbackRepository) ListByContent(ctx context.Context, userID int64, contentType string, contentID int64) ([]*entities.AIFeedback, error) {
	query := `
		SELECT id, user_id, content_type, content_id, rating, feedback_text,
			was_regenerated, regenerated_content_id, created_at
		FROM ai_feedback
		WHERE user_id = $1 AND content_type = $2 AND content_id = $3
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, contentType, contentID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var items []*entities.AIFeedback
	for rows.Next() {
		var fb entities.AIFeedback
		err := rows.Scan(
			&fb.ID,
			&fb.UserID,
			&fb.ContentType,
			&fb.ContentID,
			&fb.Rating,
			&fb.FeedbackText,
			&fb.WasRegenerated,
			&fb.RegeneratedContentID,
			&fb.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		items = append(items, &fb)
	}

	return items, rows.Err()
}
