package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres"
)

var ErrNorthStarNotFound = errors.New("north star goal not found")

// NorthStarRepository provides access to long-term north star goals.
type NorthStarRepository struct {
	db postgres.DBTX
}

// NewNorthStarRepository creates a new NorthStarRepository with the provided database pool.
func NewNorthStarRepository(db postgres.DBTX) *NorthStarRepository {
	return &NorthStarRepository{db: db}
}

const northStarColumns = `
	id, resolution_id, goal_statement, target_date, key_transformations,
	identity_shift, why_it_matters, is_ai_generated, is_edited, created_at, updated_at
`

func scanNorthStar(row pgx.Row) (*entities.NorthStarGoal, error) {
	var g entities.NorthStarGoal
	err := row.Scan(
		&g.ID,
		&g.ResolutionID,
		&g.GoalStatement,
		&g.TargetDate,
		&g.KeyTransformations,
		&g.IdentityShift,
		&g.WhyItMatters,
		&g.IsAIGenerated,
		&g.IsEdited,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Upsert writes the goal for a resolution, replacing any previous one.
// Regeneration and manual edits both land here.
func (r *NorthStarRepository) Upsert(ctx context.Context, goal *entities.NorthStarGoal) error {
	query := `
		INSERT INTO north_star_goals (resolution_id, goal_statement, target_date, key_transformations, identity_shift, why_it_matters, is_ai_generated, is_edited)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (resolution_id) DO UPDATE SET
			goal_statement = EXCLUDED.goal_statement,
			target_date = EXCLUDED.target_date,
			key_transformations = EXCLUDED.key_transformations,
			identity_shift = EXCLUDED.identity_shift,
			why_it_matters = EXCLUDED.why_it_matters,
			is_ai_generated = EXCLUDED.is_ai_generated,
			is_edited = EXCLUDED.is_edited,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		goal.ResolutionID,
		goal.GoalStatement,
		goal.TargetDate,
		goal.KeyTransformations,
		goal.IdentityShift,
		goal.WhyItMatters,
		goal.IsAIGenerated,
		goal.IsEdited,
	).Scan(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert north star goal: %w", err)
	}

	return nil
}

// GetByResolution retrieves the goal for a resolution, if one exists.
func (r *NorthStarRepository) GetByResolution(ctx context.Context, resolutionID int64) (*entities.NorthStarGoal, error) {
	query := `
		SELECT ` + northStarColumns + `
		FROM north_star_goals
		WHERE resolution_id = $1
	`

	goal, err := scanNorthStar(r.db.QueryRow(ctx, query, resolutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNorthStarNotFound
		}
		return nil, fmt.Errorf("get north star goal: %w", err)
	}

	return goal, nil
}
