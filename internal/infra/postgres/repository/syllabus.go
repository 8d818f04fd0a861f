package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres"
)

var ErrSyllabusNotFound = errors.New("syllabus not found")

// SyllabusRepository provides access to generated syllabi and uploaded
// learning material.
type SyllabusRepository struct {
	db postgres.DBTX
}

// NewSyllabusRepository creates a new SyllabusRepository with the provided database pool.
func NewSyllabusRepository(db postgres.DBTX) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

// Upsert writes the syllabus for a resolution, replacing any previous one.
// Adaptation rewrites the day plan in place.
func (r *SyllabusRepository) Upsert(ctx context.Context, s *entities.Syllabus) error {
	query := `
		INSERT INTO syllabi (resolution_id, title, days, total_days)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (resolution_id) DO UPDATE SET
			title = EXCLUDED.title,
			days = EXCLUDED.days,
			total_days = EXCLUDED.total_days,
			last_adapted_at = NOW()
		RETURNING id, generated_at, last_adapted_at
	`

	err := r.db.QueryRow(ctx, query, s.ResolutionID, s.Title, s.Days, s.TotalDays).
		Scan(&s.ID, &s.GeneratedAt, &s.LastAdaptedAt)
	if err != nil {
		return fmt.Errorf("upsert syllabus: %w", err)
	}

	return nil
}

// GetByResolution retrieves the syllabus for a resolution.
func (r *SyllabusRepository) GetByResolution(ctx context.Context, resolutionID int64) (*entities.Syllabus, error) {
	query := `
		SELECT id, resolution_id, title, days, total_days, generated_at, last_adapted_at
		FROM syllabi
		WHERE resolution_id = $1
	`

	var s entities.Syllabus
	err := r.db.QueryRow(ctx, query, resolutionID).Scan(
		&s.ID,
		&s.ResolutionID,
		&s.Title,
		&s.Days,
		&s.TotalDays,
		&s.GeneratedAt,
		&s.LastAdaptedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSyllabusNotFound
		}
		return nil, fmt.Errorf("get syllabus: %w", err)
	}

	return &s, nil
}

// AddChunks stores uploaded material split into ordered chunks.
func (r *SyllabusRepository) AddChunks(ctx context.Context, chunks []*entities.ContentChunk) error {
	for _, c := range chunks {
		err := r.db.QueryRow(ctx,
			`INSERT INTO content_chunks (resolution_id, source, content, chunk_index)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			c.ResolutionID, c.Source, c.Content, c.ChunkIndex,
		).Scan(&c.ID, &c.CreatedAt)
		if err != nil {
			return fmt.Errorf("add content chunk: %w", err)
		}
	}
	return nil
}

// ListChunks retrieves stored material in upload order.
func (r *SyllabusRepository) ListChunks(ctx context.Context, resolutionID int64, limit int) ([]*entities.ContentChunk, error) {
	query := `
		SELECT id, resolution_id, source, content, chunk_index, created_at
		FROM content_chunks
		WHERE resolution_id = $1
		ORDER BY chunk_index
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, resolutionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list content chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*entities.ContentChunk
	for rows.Next() {
		var c entities.ContentChunk
		if err := rows.Scan(&c.ID, &c.ResolutionID, &c.Source, &c.Content, &c.ChunkIndex, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan content chunk: %w", err)
		}
		chunks = append(chunks, &c)
	}

	return chunks, rows.Err()
}
