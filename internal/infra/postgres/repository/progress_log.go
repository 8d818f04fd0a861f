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
	ErrProgressLogNotFound = errors.New("progress log not found")
	ErrAlreadyLoggedToday  = errors.New("already logged progress for today")
)

// ProgressLogRepository provides access to daily check-ins in the database.
type ProgressLogRepository struct {
	db postgres.DBTX
}

// NewProgressLogRepository creates a new ProgressLogRepository with the provided database pool.
func NewProgressLogRepository(db postgres.DBTX) *ProgressLogRepository {
	return &ProgressLogRepository{db: db}
}

const progressLogColumns = `
	p.id, p.resolution_id, p.log_date, p.content, p.input_type, p.source_reference,
	p.duration_minutes, p.concepts_claimed, p.verified, p.verification_score,
	COALESCE(q.is_completed, FALSE), p.created_at
`

const progressLogJoin = ` LEFT JOIN verification_quizzes q ON q.progress_log_id = p.id `

func scanProgressLog(row pgx.Row) (*entities.ProgressLog, error) {
	var log entities.ProgressLog
	err := row.Scan(
		&log.ID,
		&log.ResolutionID,
		&log.Date,
		&log.Content,
		&log.InputType,
		&log.SourceReference,
		&log.DurationMinutes,
		&log.ConceptsClaimed,
		&log.Verified,
		&log.VerificationScore,
		&log.QuizCompleted,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// Create inserts today's check-in. A second log for the same resolution and
// day violates the unique index and is reported as ErrAlreadyLoggedToday.
func (r *ProgressLogRepository) Create(ctx context.Context, log *entities.ProgressLog) error {
	query := `
		INSERT INTO progress_logs (resolution_id, log_date, content, input_type, source_reference, duration_minutes, concepts_claimed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (resolution_id, log_date) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		log.ResolutionID,
		log.Date,
		log.Content,
		log.InputType,
		log.SourceReference,
		log.DurationMinutes,
		log.ConceptsClaimed,
	).Scan(&log.ID, &log.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAlreadyLoggedToday
		}
		return fmt.Errorf("create progress log: %w", err)
	}

	return nil
}

// GetByID retrieves a log scoped through its resolution to the owner.
func (r *ProgressLogRepository) GetByID(ctx context.Context, id, userID int64) (*entities.ProgressLog, error) {
	query := `
		SELECT ` + progressLogColumns + `
		FROM progress_logs p` + progressLogJoin + `
		JOIN resolutions res ON res.id = p.resolution_id
		WHERE p.id = $1 AND res.user_id = $2
	`

	log, err := scanProgressLog(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressLogNotFound
		}
		return nil, fmt.Errorf("get progress log: %w", err)
	}

	return log, nil
}

// GetByDate retrieves the log for a specific UTC day, if any.
func (r *ProgressLogRepository) GetByDate(ctx context.Context, resolutionID int64, day time.Time) (*entities.ProgressLog, error) {
	query := `
		SELECT ` + progressLogColumns + `
		FROM progress_logs p` + progressLogJoin + `
		WHERE p.resolution_id = $1 AND p.log_date = $2
	`

	log, err := scanProgressLog(r.db.QueryRow(ctx, query, resolutionID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressLogNotFound
		}
		return nil, fmt.Errorf("get progress log by date: %w", err)
	}

	return log, nil
}

// ListByResolution retrieves recent logs, newest first.
func (r *ProgressLogRepository) ListByResolution(ctx context.Context, resolutionID int64, limit int) ([]*entities.ProgressLog, error) {
	query := `
		SELECT ` + progressLogColumns + `
		FROM progress_logs p` + progressLogJoin + `
		WHERE p.resolution_id = $1
		ORDER BY p.log_date DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, resolutionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list progress logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*entities.ProgressLog, 0, limit)
	for rows.Next() {
		log, err := scanProgressLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// ListVerifiedConcepts collects concepts from recent verified logs, excluding
// one log. Feeds prior context into verification quiz generation.
func (r *ProgressLogRepository) ListVerifiedConcepts(ctx context.Context, resolutionID, excludeLogID int64, limit int) ([]string, error) {
	query := `
		SELECT concepts_claimed
		FROM progress_logs
		WHERE resolution_id = $1 AND id <> $2 AND verified
		ORDER BY log_date DESC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, resolutionID, excludeLogID, limit)
	if err != nil {
		return nil, fmt.Errorf("list verified concepts: %w", err)
	}
	defer rows.Close()

	var concepts []string
	for rows.Next() {
		var claimed []string
		if err := rows.Scan(&claimed); err != nil {
			return nil, fmt.Errorf("scan concepts: %w", err)
		}
		concepts = append(concepts, claimed...)
	}

	return concepts, rows.Err()
}

// Update persists verification outcome fields.
func (r *ProgressLogRepository) Update(ctx context.Context, log *entities.ProgressLog) error {
	query := `
		UPDATE progress_logs SET
			content = $1,
			concepts_claimed = $2,
			verified = $3,
			verification_score = $4
		WHERE id = $5
	`

	tag, err := r.db.Exec(ctx, query,
		log.Content,
		log.ConceptsClaimed,
		log.Verified,
		log.VerificationScore,
		log.ID,
	)
	if err != nil {
		return fmt.Errorf("update progress log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProgressLogNotFound
	}

	return nil
}

// CountSince counts logs on or after the given day.
func (r *ProgressLogRepository) CountSince(ctx context.Context, resolutionID int64, day time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM progress_logs WHERE resolution_id = $1 AND log_date >= $2`,
		resolutionID, day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count progress logs: %w", err)
	}
	return n, nil
}

// ListVerificationScores returns scores of recently graded logs, newest first.
func (r *ProgressLogRepository) ListVerificationScores(ctx context.Context, resolutionID int64, limit int) ([]float64, error) {
	query := `
		SELECT verification_score
		FROM progress_logs
		WHERE resolution_id = $1 AND verification_score IS NOT NULL
		ORDER BY log_date DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, resolutionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list verification scores: %w", err)
	}
	defer rows.Close()

	scores := make([]float64, 0, limit)
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, s)
	}

	return scores, rows.Err()
}
