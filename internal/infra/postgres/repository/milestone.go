package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres"
)

var ErrMilestoneNotFound = errors.New("milestone not found")

// MilestoneRepository provides access to roadmap milestones in the database.
type MilestoneRepository struct {
	db postgres.DBTX
}

// NewMilestoneRepository creates a new MilestoneRepository with the provided database pool.
func NewMilestoneRepository(db postgres.DBTX) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

const milestoneColumns = `
	id, resolution_id, ord, title, description, verification_criteria,
	target_date, status, is_edited, completed_at, created_at
`

func scanMilestone(row pgx.Row) (*entities.Milestone, error) {
	var m entities.Milestone
	err := row.Scan(
		&m.ID,
		&m.ResolutionID,
		&m.Order,
		&m.Title,
		&m.Description,
		&m.VerificationCriteria,
		&m.TargetDate,
		&m.Status,
		&m.IsEdited,
		&m.CompletedAt,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a milestone and fills in the generated ID.
func (r *MilestoneRepository) Create(ctx context.Context, m *entities.Milestone) error {
	query := `
		INSERT INTO milestones (resolution_id, ord, title, description, verification_criteria, target_date, status, is_edited)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		m.ResolutionID,
		m.Order,
		m.Title,
		m.Description,
		m.VerificationCriteria,
		m.TargetDate,
		m.Status,
		m.IsEdited,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		return fmt.Errorf("create milestone: %w", err)
	}

	return nil
}

// GetByID retrieves a milestone, scoped through its resolution to the owner.
func (r *MilestoneRepository) GetByID(ctx context.Context, id, userID int64) (*entities.Milestone, error) {
	query := `
		SELECT m.id, m.resolution_id, m.ord, m.title, m.description, m.verification_criteria,
		       m.target_date, m.status, m.is_edited, m.completed_at, m.created_at
		FROM milestones m
		JOIN resolutions res ON res.id = m.resolution_id
		WHERE m.id = $1 AND res.user_id = $2
	`

	m, err := scanMilestone(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("get milestone: %w", err)
	}

	return m, nil
}

// ListByResolution retrieves all milestones for a resolution in roadmap order.
func (r *MilestoneRepository) ListByResolution(ctx context.Context, resolutionID int64) ([]*entities.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE resolution_id = $1 ORDER BY ord`

	rows, err := r.db.Query(ctx, query, resolutionID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	var milestones []*entities.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		milestones = append(milestones, m)
	}

	return milestones, rows.Err()
}

// Update persists edits to a milestone.
func (r *MilestoneRepository) Update(ctx context.Context, m *entities.Milestone) error {
	query := `
		UPDATE milestones SET
			ord = $1,
			title = $2,
			description = $3,
			verification_criteria = $4,
			target_date = $5,
			status = $6,
			is_edited = $7,
			completed_at = $8
		WHERE id = $9
	`

	tag, err := r.db.Exec(ctx, query,
		m.Order,
		m.Title,
		m.Description,
		m.VerificationCriteria,
		m.TargetDate,
		m.Status,
		m.IsEdited,
		m.CompletedAt,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("update milestone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMilestoneNotFound
	}

	return nil
}

// DeleteUncompleted removes every milestone of a resolution that has not been
// completed. Used when a roadmap is regenerated or replaced manually;
// completed milestones are history and stay.
func (r *MilestoneRepository) DeleteUncompleted(ctx context.Context, resolutionID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM milestones WHERE resolution_id = $1 AND status <> 'completed'`, resolutionID)
	if err != nil {
		return fmt.Errorf("delete uncompleted milestones: %w", err)
	}
	return nil
}

// CountCompleted returns how many milestones of the resolution are done.
func (r *MilestoneRepository) CountCompleted(ctx context.Context, resolutionID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM milestones WHERE resolution_id = $1 AND status = 'completed'`,
		resolutionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed milestones: %w", err)
	}
	return n, nil
}
