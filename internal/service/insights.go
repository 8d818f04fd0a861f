package service

import (
	"context"
	"fmt"
	"time"

	"github.com/neuroresolv/backend/internal/agents"
	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres/repository"
)

type WeeklyGoalRepository interface {
	Create(ctx context.Context, goal *entities.WeeklyGoal) error
	GetCurrent(ctx context.Context, resolutionID int64, weekStart time.Time) (*entities.WeeklyGoal, error)
	GetByID(ctx context.Context, id, userID int64) (*entities.WeeklyGoal, error)
	SetDismissed(ctx context.Context, id int64, dismissed bool) error
	SetCompleted(ctx context.Context, id int64, completed bool) error
	CreateFocus(ctx context.Context, focus *entities.UserWeeklyFocus) error
	GetCurrentFocus(ctx context.Context, userID int64, weekStart time.Time) (*entities.UserWeeklyFocus, error)
	DismissFocus(ctx context.Context, id, userID int64) error
}

type NorthStarRepository interface {
	Upsert(ctx context.Context, goal *entities.NorthStarGoal) error
	GetByResolution(ctx context.Context, resolutionID int64) (*entities.NorthStarGoal, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, fb *entities.AIFeedback) error
	GetByID(ctx context.Context, id, userID int64) (*entities.AIFeedback, error)
	MarkRegenerated(ctx context.Context, id, regeneratedContentID int64) error
	ListByContent(ctx context.Context, userID int64, contentType string, contentID int64) ([]*entities.AIFeedback, error)
}

// InsightsService owns the motivational layer: weekly goals, the aggregated
// weekly focus, north-star visions and feedback-driven regeneration.
type InsightsService struct {
	resolutions ResolutionRepository
	milestones  MilestoneRepository
	logs        progressHistory
	goals       WeeklyGoalRepository
	northStars  NorthStarRepository
	feedback    FeedbackRepository
	roadmaps    *RoadmapService
	llm         *agents.Client
}

func NewInsightsService(
	resolutions ResolutionRepository,
	milestones MilestoneRepository,
	logs progressHistory,
	goals WeeklyGoalRepository,
	northStars NorthStarRepository,
	feedback FeedbackRepository,
	roadmaps *RoadmapService,
	llm *agents.Client,
) *InsightsService {
	return &InsightsService{
		resolutions: resolutions,
		milestones:  milestones,
		logs:        logs,
		goals:       goals,
		northStars:  northStars,
		feedback:    feedback,
		roadmaps:    roadmaps,
		llm:         llm,
	}
}

// GenerateWeeklyGoal creates this week's goal for a resolution, replacing the
// current one if it exists.
func (s *InsightsService) GenerateWeeklyGoal(ctx context.Context, resolutionID, userID int64) (*entities.WeeklyGoal, error) {
	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	recentLogs, err := s.logs.ListByResolution(ctx, resolutionID, 5)
	if err != nil {
		return nil, err
	}

	active, err := s.resolutions.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	others := make([]*entities.Resolution, 0, len(active))
	for _, r := range active {
		if r.ID != resolutionID {
			others = append(others, r)
		}
	}

	result := s.llm.GenerateWeeklyGoal(ctx, resolution, recentLogs, others)

	weekStart, weekEnd := entities.WeekBounds(time.Now())
	if current, err := s.goals.GetCurrent(ctx, resolutionID, weekStart); err == nil {
		if err := s.goals.SetDismissed(ctx, current.ID, true); err != nil {
			return nil, err
		}
	} else if !isNotFound(err) {
		return nil, err
	}

	return s.createWeeklyGoal(ctx, resolutionID, result, weekStart, weekEnd)
}

func (s *InsightsService) createWeeklyGoal(ctx context.Context, resolutionID int64, result *agents.WeeklyGoalResult, weekStart, weekEnd time.Time) (*entities.WeeklyGoal, error) {
	goal := &entities.WeeklyGoal{
		ResolutionID: resolutionID,
		GoalText:     result.GoalText,
		MicroActions: result.MicroActions,
		WeekStart:    weekStart,
		WeekEnd:      weekEnd,
	}
	if result.MotivationNote != "" {
		goal.MotivationNote = &result.MotivationNote
	}
	if goal.MicroActions == nil {
		goal.MicroActions = []string{}
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// GetWeeklyGoal returns the current week's goal for a resolution.
func (s *InsightsService) GetWeeklyGoal(ctx context.Context, resolutionID, userID int64) (*entities.WeeklyGoal, error) {
	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}

	weekStart, _ := entities.WeekBounds(time.Now())
	return s.goals.GetCurrent(ctx, resolutionID, weekStart)
}

// DismissWeeklyGoal hides a weekly goal for the rest of the week.
func (s *InsightsService) DismissWeeklyGoal(ctx context.Context, id, userID int64) error {
	if _, err := s.goals.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.goals.SetDismissed(ctx, id, true)
}

// CompleteWeeklyGoal marks a weekly goal done.
func (s *InsightsService) CompleteWeeklyGoal(ctx context.Context, id, userID int64) error {
	if _, err := s.goals.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.goals.SetCompleted(ctx, id, true)
}

// GenerateNorthStar builds the end-of-year vision for a resolution and
// upserts it, replacing any previous vision.
func (s *InsightsService) GenerateNorthStar(ctx context.Context, resolutionID, userID int64) (*entities.NorthStarGoal, error) {
	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	milestones, err := s.milestones.ListByResolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}

	targetDate := entities.EndOfYear(time.Now())
	result := s.llm.GenerateNorthStar(ctx, resolution, milestones, targetDate.Format("January 2, 2006"))

	goal := northStarFromResult(resolutionID, result, targetDate)
	if err := s.northStars.Upsert(ctx, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

func northStarFromResult(resolutionID int64, result *agents.NorthStarResult, targetDate time.Time) *entities.NorthStarGoal {
	goal := &entities.NorthStarGoal{
		ResolutionID:       resolutionID,
		GoalStatement:      result.NorthStarStatement,
		TargetDate:         targetDate,
		KeyTransformations: result.KeyTransformations,
		IsAIGenerated:      true,
	}
	if goal.KeyTransformations == nil {
		goal.KeyTransformations = []string{}
	}
	if result.IdentityShift != "" {
		goal.IdentityShift = &result.IdentityShift
	}
	if result.WhyItMatters != "" {
		goal.WhyItMatters = &result.WhyItMatters
	}
	return goal
}

// GetNorthStar returns the vision for a resolution.
func (s *InsightsService) GetNorthStar(ctx context.Context, resolutionID, userID int64) (*entities.NorthStarGoal, error) {
	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}
	return s.northStars.GetByResolution(ctx, resolutionID)
}

// NorthStarEdit carries a user edit; nil leaves a field as is.
type NorthStarEdit struct {
	GoalStatement      *string
	KeyTransformations []string
	IdentityShift      *string
	WhyItMatters       *string
}

// UpdateNorthStar applies a user edit and marks the vision edited.
func (s *InsightsService) UpdateNorthStar(ctx context.Context, resolutionID, userID int64, edit NorthStarEdit) (*entities.NorthStarGoal, error) {
	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}

	goal, err := s.northStars.GetByResolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}

	if edit.GoalStatement != nil {
		goal.GoalStatement = *edit.GoalStatement
	}
	if edit.KeyTransformations != nil {
		goal.KeyTransformations = edit.KeyTransformations
	}
	if edit.IdentityShift != nil {
		goal.IdentityShift = edit.IdentityShift
	}
	if edit.WhyItMatters != nil {
		goal.WhyItMatters = edit.WhyItMatters
	}
	goal.IsEdited = true

	if err := s.northStars.Upsert(ctx, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

// GetWeeklyFocus returns the aggregated cross-resolution focus for the
// current week, generating it on demand when the user has active resolutions.
func (s *InsightsService) GetWeeklyFocus(ctx context.Context, userID int64) (*entities.UserWeeklyFocus, error) {
	weekStart, weekEnd := entities.WeekBounds(time.Now())

	if focus, err := s.goals.GetCurrentFocus(ctx, userID, weekStart); err == nil {
		return focus, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	active, err := s.resolutions.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, repository.ErrWeeklyFocusNotFound
	}

	result := s.llm.GenerateAggregatedFocus(ctx, active)

	focus := &entities.UserWeeklyFocus{
		UserID:       userID,
		FocusText:    result.FocusText,
		MicroActions: result.MicroActions,
		WeekStart:    weekStart,
		WeekEnd:      weekEnd,
	}
	if result.MotivationNote != "" {
		focus.MotivationNote = &result.MotivationNote
	}
	if focus.MicroActions == nil {
		focus.MicroActions = []string{}
	}

	if err := s.goals.CreateFocus(ctx, focus); err != nil {
		return nil, err
	}

	return focus, nil
}

// DismissWeeklyFocus hides the aggregated focus for the rest of the week.
func (s *InsightsService) DismissWeeklyFocus(ctx context.Context, id, userID int64) error {
	return s.goals.DismissFocus(ctx, id, userID)
}

// FeedbackInput is a thumbs up/down on a piece of AI content.
type FeedbackInput struct {
	ContentType  string
	ContentID    int64
	Rating       string
	FeedbackText *string
}

// RecordFeedback stores a reaction to AI-generated content.
func (s *InsightsService) RecordFeedback(ctx context.Context, userID int64, in FeedbackInput) (*entities.AIFeedback, error) {
	if !entities.ValidContentType(in.ContentType) {
		return nil, fmt.Errorf("%w: invalid content_type", ErrValidation)
	}
	if !entities.ValidRating(in.Rating) {
		return nil, fmt.Errorf("%w: invalid rating", ErrValidation)
	}

	fb := &entities.AIFeedback{
		UserID:       userID,
		ContentType:  in.ContentType,
		ContentID:    in.ContentID,
		Rating:       in.Rating,
		FeedbackText: in.FeedbackText,
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}

	return fb, nil
}

// RegeneratedContent is the outcome of a feedback-driven regeneration. Only
// the field matching the feedback's content type is set.
type RegeneratedContent struct {
	ContentType string                  `json:"content_type"`
	Roadmap     *LivingRoadmap          `json:"roadmap,omitempty"`
	WeeklyGoal  *entities.WeeklyGoal    `json:"weekly_goal,omitempty"`
	NorthStar   *entities.NorthStarGoal `json:"north_star,omitempty"`
}

// RegenerateFromFeedback regenerates the content a feedback record points at,
// using the user's feedback text, and links the result back to the record.
// For roadmaps and north stars content_id is the resolution id; for weekly
// goals it is the goal row id.
func (s *InsightsService) RegenerateFromFeedback(ctx context.Context, feedbackID, userID int64) (*RegeneratedContent, error) {
	fb, err := s.feedback.GetByID(ctx, feedbackID, userID)
	if err != nil {
		return nil, err
	}

	feedbackText := ""
	if fb.FeedbackText != nil {
		feedbackText = *fb.FeedbackText
	}

	out := &RegeneratedContent{ContentType: fb.ContentType}
	var regeneratedID int64

	switch fb.ContentType {
	case entities.ContentRoadmap:
		roadmap, err := s.roadmaps.RegenerateWithFeedback(ctx, fb.ContentID, userID, feedbackText)
		if err != nil {
			return nil, err
		}
		out.Roadmap = roadmap
		regeneratedID = fb.ContentID

	case entities.ContentWeeklyGoal:
		original, err := s.goals.GetByID(ctx, fb.ContentID, userID)
		if err != nil {
			return nil, err
		}
		resolution, err := s.resolutions.GetByID(ctx, original.ResolutionID, userID)
		if err != nil {
			return nil, err
		}

		result := s.llm.RegenerateWeeklyGoalWithFeedback(ctx, resolution, original.GoalText, feedbackText)

		if err := s.goals.SetDismissed(ctx, original.ID, true); err != nil {
			return nil, err
		}
		weekStart, weekEnd := entities.WeekBounds(time.Now())
		goal, err := s.createWeeklyGoal(ctx, resolution.ID, result, weekStart, weekEnd)
		if err != nil {
			return nil, err
		}
		out.WeeklyGoal = goal
		regeneratedID = goal.ID

	case entities.ContentNorthStar:
		resolution, err := s.resolutions.GetByID(ctx, fb.ContentID, userID)
		if err != nil {
			return nil, err
		}
		existing, err := s.northStars.GetByResolution(ctx, resolution.ID)
		if err != nil {
			return nil, err
		}

		result := s.llm.RegenerateNorthStarWithFeedback(ctx, resolution, existing.GoalStatement, feedbackText)

		goal := northStarFromResult(resolution.ID, result, existing.TargetDate)
		if err := s.northStars.Upsert(ctx, goal); err != nil {
			return nil, err
		}
		out.NorthStar = goal
		regeneratedID = goal.ID

	default:
		return nil, fmt.Errorf("%w: invalid content_type", ErrValidation)
	}

	if err := s.feedback.MarkRegenerated(ctx, fb.ID, regeneratedID); err != nil {
		return nil, err
	}

	return out, nil
}
