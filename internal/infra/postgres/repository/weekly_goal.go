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
	ErrWeeklyGoalNotFound  = errors.New("weekly goal not found")
	ErrWeeklyFocusNotFound = errors.New("weekly focus not found")
)

// WeeklyGoalRepository provides access to per-resolution weekly goals and the
// cross-resolution user focus.
type WeeklyGoalRepository struct {
	db postgres.DBTX
}

// NewWeeklyGoalRepository creates a new WeeklyGoalRepository with the provided database pool.
func NewWeeklyGoalRepository(db postgres.DBTX) *WeeklyGoalRepository {
	return &WeeklyGoalRepository{db: db}
}

const weeklyGoalColumns = `
	id, resolution_id, goal_text, micro_actions, motivation_note,
	week_start, week_end, is_dismissed, is_completed, created_at
`

func scanWeeklyGoal(row pgx.Row) (*entities.WeeklyGoal, error) {
	var g entities.WeeklyGoal
	err := row.Scan(
		&g.ID,
		&g.ResolutionID,
		&g.GoalText,
		&g.MicroActions,
		&g.MotivationNote,
		&g.WeekStart,
		&g.WeekEnd,
		&g.IsDismissed,
		&g.IsCompleted,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a weekly goal for the current week.
func (r *WeeklyGoalRepository) Create(ctx context.Context, goal *entities.WeeklyGoal) error {
	query := `
		INSERT INTO weekly_goals (resolution_id, goal_text, micro_actions, motivation_note, week_start, week_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		goal.ResolutionID,
		goal.GoalText,
		goal.MicroActions,
		goal.MotivationNote,
		goal.WeekStart,
		goal.WeekEnd,
	).Scan(&goal.ID, &goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("create weekly goal: %w", err)
	}

	return nil
}

// GetCurrent retrieves the non-dismissed goal covering the given week start.
func (r *WeeklyGoalRepository) GetCurrent(ctx context.Context, resolutionID int64, weekStart time.Time) (*entities.WeeklyGoal, error) {
	query := `
		SELECT ` + weeklyGoalColumns + `
		FROM weekly_goals
		WHERE resolution_id = $1 AND week_start = $2 AND NOT is_dismissed
		ORDER BY created_at DESC
		LIMIT 1
	`

	goal, err := scanWeeklyGoal(r.db.QueryRow(ctx, query, resolutionID, weekStart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWeeklyGoalNotFound
		}
		return nil, fmt.Errorf("get weekly goal: %w", err)
	}

	return goal, nil
}

// GetByID retrieves a goal scoped through its resolution to the owner.
func (r *WeeklyGoalRepository) GetByID(ctx context.Context, id, userID int64) (*entities.WeeklyGoal, error) {
	query := `
		SELECT g.id, g.resolution_id, g.goal_text, g.micro_actions, g.motivation_note,
			g.week_start, g.week_end, g.is_dismissed, g.is_completed, g.created_at
		FROM weekly_goals g
		JOIN resolutions res ON res.id = g.resolution_id
		WHERE g.id = $1 AND res.user_id = $2
	`

	goal, err := scanWeeklyGoal(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWeeklyGoalNotFound
		}
		return nil, fmt.Errorf("get weekly goal: %w", err)
	}

	return goal, nil
}

// SetDismissed flips the dismissed flag.
func (r *WeeklyGoalRepository) SetDismissed(ctx context.Context, id int64, dismissed bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE weekly_goals SET is_dismissed = $1 WHERE id = $2`, dismissed, id)
	if err != nil {
		return fmt.Errorf("dismiss weekly goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWeeklyGoalNotFound
	}
	return nil
}

// SetCompleted flips the completed flag.
func (r *WeeklyGoalRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE weekly_goals SET is_completed = $1 WHERE id = $2`, completed, id)
	if err != nil {
		return fmt.Errorf("complete weekly goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWeeklyGoalNotFound
	}
	return nil
}

const weeklyFocusColumns = `
	id, user_id, focus_text, micro_actions, motivation_note,
	week_start, week_end, is_dismissed, created_at
`

func scanWeeklyFocus(row pgx.Row) (*entities.UserWeeklyFocus, error) {
	var f entities.UserWeeklyFocus
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.FocusText,
		&f.MicroActions,
		&f.MotivationNote,
		&f.WeekStart,
		&f.WeekEnd,
		&f.IsDismissed,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFocus inserts the aggregated focus for one user-week.
func (r *WeeklyGoalRepository) CreateFocus(ctx context.Context, focus *entities.UserWeeklyFocus) error {
	query := `
		INSERT INTO user_weekly_focus (user_id, focus_text, micro_actions, motivation_note, week_start, week_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		focus.UserID,
		focus.FocusText,
		focus.MicroActions,
		focus.MotivationNote,
		focus.WeekStart,
		focus.WeekEnd,
	).Scan(&focus.ID, &focus.CreatedAt)
	if err != nil {
		return fmt.Errorf("create weekly focus: %w", err)
	}

	return nil
}

// GetCurrentFocus retrieves the non-dismissed focus covering the given week start.
func (r *WeeklyGoalRepository) GetCurrentFocus(ctx context.Context, userID int64, weekStart time.Time) (*entities.UserWeeklyFocus, error) {
	query := `
		SELECT ` + weeklyFocusColumns + `
		FROM user_weekly_focus
		WHERE user_id = $1 AND week_start = $2 AND NOT is_dismissed
		ORDER BY created_at DESC
		LIMIT 1
	`

	focus, err := scanWeeklyFocus(r.db.QueryRow(ctx, query, userID, weekStart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWeeklyFocusNotFound
		}
		return nil, fmt.Errorf("get weekly focus: %w", err)
	}

	return focus, nil
}

// DismissFocus marks the focus dismissed for the rest of its week.
func (r *WeeklyGoalRepository) DismissFocus(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_weekly_focus SET is_dismissed = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("dismiss weekly focus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWeeklyFocusNotFound
	}
	return nil
}
