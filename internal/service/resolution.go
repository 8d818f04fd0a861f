package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/neuroresolv/backend/internal/agents"
	"github.com/neuroresolv/backend/internal/domain/entities"
)

// ErrValidation marks a client error; the wrapped message is safe to return.
var ErrValidation = errors.New("validation failed")

type ResolutionRepository interface {
	Create(ctx context.Context, resolution *entities.Resolution) error
	GetByID(ctx context.Context, id, userID int64) (*entities.Resolution, error)
	ListByUser(ctx context.Context, userID int64) ([]*entities.Resolution, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]*entities.Resolution, error)
	Update(ctx context.Context, resolution *entities.Resolution) error
	Delete(ctx context.Context, id, userID int64) error
}

type StreakRepository interface {
	Create(ctx context.Context, streak *entities.Streak) error
	GetByResolution(ctx context.Context, resolutionID int64) (*entities.Streak, error)
	Update(ctx context.Context, streak *entities.Streak) error
}

// ResolutionService manages the lifecycle of resolutions.
type ResolutionService struct {
	resolutions ResolutionRepository
	streaks     StreakRepository
	llm         *agents.Client
}

func NewResolutionService(resolutions ResolutionRepository, streaks StreakRepository, llm *agents.Client) *ResolutionService {
	return &ResolutionService{
		resolutions: resolutions,
		streaks:     streaks,
		llm:         llm,
	}
}

// CreateInput carries the fields of a new resolution.
type CreateInput struct {
	GoalStatement string
	Category      string
	SkillLevel    *string
	Cadence       string
}

func (in CreateInput) validate() error {
	if len(in.GoalStatement) < 10 || len(in.GoalStatement) > 1000 {
		return fmt.Errorf("%w: goal_statement must be between 10 and 1000 characters", ErrValidation)
	}
	if !entities.ValidCategory(in.Category) {
		return fmt.Errorf("%w: invalid category", ErrValidation)
	}
	if !entities.ValidCadence(in.Cadence) {
		return fmt.Errorf("%w: invalid cadence", ErrValidation)
	}
	if in.SkillLevel != nil && !entities.ValidSkillLevel(*in.SkillLevel) {
		return fmt.Errorf("%w: invalid skill_level", ErrValidation)
	}
	return nil
}

// Create validates and stores a new resolution with its streak row.
func (s *ResolutionService) Create(ctx context.Context, userID int64, in CreateInput) (*entities.Resolution, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	resolution := entities.NewResolution(userID, in.GoalStatement, in.Category, in.Cadence, in.SkillLevel)
	if err := s.resolutions.Create(ctx, resolution); err != nil {
		return nil, err
	}

	if err := s.streaks.Create(ctx, entities.NewStreak(resolution.ID)); err != nil {
		return nil, err
	}

	return resolution, nil
}

func (s *ResolutionService) List(ctx context.Context, userID int64) ([]*entities.Resolution, error) {
	return s.resolutions.ListByUser(ctx, userID)
}

func (s *ResolutionService) Get(ctx context.Context, id, userID int64) (*entities.Resolution, error) {
	return s.resolutions.GetByID(ctx, id, userID)
}

// UpdateInput carries the mutable resolution fields; nil leaves a field as is.
type UpdateInput struct {
	Status     *string
	Cadence    *string
	SkillLevel *string
}

// Update applies a partial update to an owned resolution.
func (s *ResolutionService) Update(ctx context.Context, id, userID int64, in UpdateInput) (*entities.Resolution, error) {
	resolution, err := s.resolutions.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		switch *in.Status {
		case entities.ResolutionActive, entities.ResolutionPaused, entities.ResolutionCompleted, entities.ResolutionAbandoned:
			resolution.Status = *in.Status
		default:
			return nil, fmt.Errorf("%w: invalid status", ErrValidation)
		}
	}
	if in.Cadence != nil {
		if !entities.ValidCadence(*in.Cadence) {
			return nil, fmt.Errorf("%w: invalid cadence", ErrValidation)
		}
		resolution.Cadence = *in.Cadence
	}
	if in.SkillLevel != nil {
		if !entities.ValidSkillLevel(*in.SkillLevel) {
			return nil, fmt.Errorf("%w: invalid skill_level", ErrValidation)
		}
		resolution.SkillLevel = in.SkillLevel
	}

	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}

	return resolution, nil
}

func (s *ResolutionService) Delete(ctx context.Context, id, userID int64) error {
	return s.resolutions.Delete(ctx, id, userID)
}

// Negotiate runs the AI reality check on a proposed resolution. The result
// never blocks creation.
func (s *ResolutionService) Negotiate(ctx context.Context, in CreateInput) (*agents.FeasibilityResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	level := ""
	if in.SkillLevel != nil {
		level = *in.SkillLevel
	}

	return s.llm.AnalyzeFeasibility(ctx, in.GoalStatement, in.Category, level, in.Cadence), nil
}
