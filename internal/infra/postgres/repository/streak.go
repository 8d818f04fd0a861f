package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres"
)

var ErrStreakNotFound = errors.New("streak not found")

// StreakRepository provides access to per-resolution streaks.
type StreakRepository struct {
	db postgres.DBTX
}

// NewStreakRepository creates a new StreakRepository with the provided database pool.
func NewStreakRepository(db postgres.DBTX) *StreakRepository {
	return &StreakRepository{db: db}
}

const streakColumns = `
	id, resolution_id, current_streak, longest_streak, total_verified_days,
	last_log_date, last_verified_date, updated_at
`

func scanStreak(row pgx.Row) (*entities.Streak, error) {
	var s entities.Streak
	err := row.Scan(
		&s.ID,
		&s.ResolutionID,
		&s.CurrentStreak,
		&s.LongestStreak,
		&s.TotalVerifiedDays,
		&s.LastLogDate,
		&s.LastVerifiedDate,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a zeroed streak row for a new resolution.
func (r *StreakRepository) Create(ctx context.Context, streak *entities.Streak) error {
	query := `
		INSERT INTO streaks (resolution_id)
		VALUES ($1)
		RETURNING id, updated_at
	`

	err := r.db.QueryRow(ctx, query, streak.ResolutionID).Scan(&streak.ID, &streak.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create streak: %w", err)
	}

	return nil
}

// GetByResolution retrieves the streak for a resolution.
func (r *StreakRepository) GetByResolution(ctx context.Context, resolutionID int64) (*entities.Streak, error) {
	query := `
		SELECT ` + streakColumns + `
		FROM streaks
		WHERE resolution_id = $1
	`

	streak, err := scanStreak(r.db.QueryRow(ctx, query, resolutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStreakNotFound
		}
		return nil, fmt.Errorf("get streak: %w", err)
	}

	return streak, nil
}

// Update persists streak counters after a check-in or verification.
func (r *StreakRepository) Update(ctx context.Context, streak *entities.Streak) error {
	query := `
		UPDATE streaks SET
			current_streak = $1,
			longest_streak = $2,
			total_verified_days = $3,
			last_log_date = $4,
			last_verified_date = $5,
			updated_at = NOW()
		WHERE id = $6
	`

	tag, err := r.db.Exec(ctx, query,
		streak.CurrentStreak,
		streak.LongestStreak,
		streak.TotalVerifiedDays,
		streak.LastLogDate,
		streak.LastVerifiedDate,
		streak.ID,
	)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStreakNotFound
	}

	return nil
}
