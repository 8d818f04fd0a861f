package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres"
)

var ErrResolutionNotFound = errors.New("resolution not found")

// ResolutionRepository provides access to resolutions in the database.
// All reads are scoped by owner; a resolution belonging to another user is
// reported as not found.
type ResolutionRepository struct {
	db postgres.DBTX
}

// NewResolutionRepository creates a new ResolutionRepository with the provided database pool.
func NewResolutionRepository(db postgres.DBTX) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

const resolutionColumns = `
	id, user_id, goal_statement, category, skill_level, cadence, status,
	current_milestone, current_day, roadmap_generated, roadmap_needs_refresh,
	roadmap_mode, goal_likelihood_score, next_roadmap_refresh, created_at, updated_at
`

func scanResolution(row pgx.Row) (*entities.Resolution, error) {
	var res entities.Resolution
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.GoalStatement,
		&res.Category,
		&res.SkillLevel,
		&res.Cadence,
		&res.Status,
		&res.CurrentMilestone,
		&res.CurrentDay,
		&res.RoadmapGenerated,
		&res.RoadmapNeedsRefresh,
		&res.RoadmapMode,
		&res.GoalLikelihoodScore,
		&res.NextRoadmapRefresh,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create inserts a new resolution and fills in the generated ID and timestamps.
func (r *ResolutionRepository) Create(ctx context.Context, res *entities.Resolution) error {
	query := `
		INSERT INTO resolutions (user_id, goal_statement, category, skill_level, cadence, status, roadmap_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		res.UserID,
		res.GoalStatement,
		res.Category,
		res.SkillLevel,
		res.Cadence,
		res.Status,
		res.RoadmapMode,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create resolution: %w", err)
	}

	return nil
}

// GetByID retrieves a resolution owned by the given user.
func (r *ResolutionRepository) GetByID(ctx context.Context, id, userID int64) (*entities.Resolution, error) {
	query := `SELECT ` + resolutionColumns + ` FROM resolutions WHERE id = $1 AND user_id = $2`

	res, err := scanResolution(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResolutionNotFound
		}
		return nil, fmt.Errorf("get resolution: %w", err)
	}

	return res, nil
}

// ListByUser retrieves all resolutions for the user, newest first.
func (r *ResolutionRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Resolution, error) {
	query := `SELECT ` + resolutionColumns + ` FROM resolutions WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*entities.Resolution
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		resolutions = append(resolutions, res)
	}

	return resolutions, rows.Err()
}

// ListActiveByUser retrieves the user's active resolutions, oldest first.
func (r *ResolutionRepository) ListActiveByUser(ctx context.Context, userID int64) ([]*entities.Resolution, error) {
	query := `SELECT ` + resolutionColumns + ` FROM resolutions WHERE user_id = $1 AND status = 'active' ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list active resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*entities.Resolution
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		resolutions = append(resolutions, res)
	}

	return resolutions, rows.Err()
}

// Update persists resolution fields that change after creation.
func (r *ResolutionRepository) Update(ctx context.Context, res *entities.Resolution) error {
	query := `
		UPDATE resolutions SET
			skill_level = $1,
			cadence = $2,
			status = $3,
			current_milestone = $4,
			current_day = $5,
			roadmap_generated = $6,
			roadmap_needs_refresh = $7,
			roadmap_mode = $8,
			goal_likelihood_score = $9,
			next_roadmap_refresh = $10,
			updated_at = NOW()
		WHERE id = $11 AND user_id = $12
	`

	tag, err := r.db.Exec(ctx, query,
		res.SkillLevel,
		res.Cadence,
		res.Status,
		res.CurrentMilestone,
		res.CurrentDay,
		res.RoadmapGenerated,
		res.RoadmapNeedsRefresh,
		res.RoadmapMode,
		res.GoalLikelihoodScore,
		res.NextRoadmapRefresh,
		res.ID,
		res.UserID,
	)
	if err != nil {
		return fmt.Errorf("update resolution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrResolutionNotFound
	}

	return nil
}

// Delete removes a resolution and everything hanging off it (cascades).
func (r *ResolutionRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resolutions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete resolution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrResolutionNotFound
	}

	return nil
}

// ListDueForRefresh returns IDs of resolutions whose next scheduled roadmap
// refresh has passed and are not yet flagged.
func (r *ResolutionRepository) ListDueForRefresh(ctx context.Context, limit int) ([]int64, error) {
	query := `
		SELECT id
		FROM resolutions
		WHERE status = 'active'
		  AND roadmap_mode = 'ai_generated'
		  AND roadmap_generated
		  AND NOT roadmap_needs_refresh
		  AND next_roadmap_refresh IS NOT NULL
		  AND next_roadmap_refresh <= NOW()
		ORDER BY next_roadmap_refresh
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list due for refresh: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan resolution id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// MarkNeedsRefresh flags a resolution's roadmap as stale.
func (r *ResolutionRepository) MarkNeedsRefresh(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE resolutions SET roadmap_needs_refresh = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark needs refresh: %w", err)
	}
	return nil
}
