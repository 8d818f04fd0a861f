package service

import (
	"context"
	"fmt"
	"time"

	"github.com/neuroresolv/backend/internal/agents"
	"github.com/neuroresolv/backend/internal/domain/entities"
)

type MilestoneRepository interface {
	Create(ctx context.Context, m *entities.Milestone) error
	GetByID(ctx context.Context, id, userID int64) (*entities.Milestone, error)
	ListByResolution(ctx context.Context, resolutionID int64) ([]*entities.Milestone, error)
	Update(ctx context.Context, m *entities.Milestone) error
	DeleteUncompleted(ctx context.Context, resolutionID int64) error
	CountCompleted(ctx context.Context, resolutionID int64) (int, error)
}

type progressHistory interface {
	ListByResolution(ctx context.Context, resolutionID int64, limit int) ([]*entities.ProgressLog, error)
	CountSince(ctx context.Context, resolutionID int64, day time.Time) (int, error)
	ListVerificationScores(ctx context.Context, resolutionID int64, limit int) ([]float64, error)
}

// RoadmapService owns milestone roadmaps: generation, the living-roadmap
// refresh loop, manual editing and milestone completion.
type RoadmapService struct {
	resolutions ResolutionRepository
	milestones  MilestoneRepository
	logs        progressHistory
	streaks     StreakRepository
	llm         *agents.Client
}

func NewRoadmapService(
	resolutions ResolutionRepository,
	milestones MilestoneRepository,
	logs progressHistory,
	streaks StreakRepository,
	llm *agents.Client,
) *RoadmapService {
	return &RoadmapService{
		resolutions: resolutions,
		milestones:  milestones,
		logs:        logs,
		streaks:     streaks,
		llm:         llm,
	}
}

// LivingRoadmap is the roadmap together with its health indicators.
type LivingRoadmap struct {
	ResolutionID      int64                 `json:"resolution_id"`
	Milestones        []*entities.Milestone `json:"milestones"`
	RoadmapMode       string                `json:"roadmap_mode"`
	NeedsRefresh      bool                  `json:"needs_refresh"`
	LikelihoodScore   *float64              `json:"likelihood_score"`
	NextRefresh       *time.Time            `json:"next_refresh"`
	OverallAssessment string                `json:"overall_assessment"`
}

// Generate builds a fresh AI roadmap, replacing any uncompleted milestones.
// The first milestone starts in progress.
func (s *RoadmapService) Generate(ctx context.Context, resolutionID, userID int64) (*LivingRoadmap, error) {
	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	level := ""
	if resolution.SkillLevel != nil {
		level = *resolution.SkillLevel
	}

	result := s.llm.GenerateRoadmap(ctx, resolution.GoalStatement, resolution.Category, level, resolution.Cadence)

	if err := s.milestones.DeleteUncompleted(ctx, resolutionID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	weeksSoFar := 0
	for i, rm := range result.Milestones {
		m := entities.NewMilestone(resolutionID, rm.Order, rm.Title, rm.Description, rm.VerificationCriteria)
		weeksSoFar += rm.EstimatedWeeks
		target := now.AddDate(0, 0, weeksSoFar*7)
		m.TargetDate = &target
		if i == 0 {
			m.Status = entities.MilestoneInProgress
		}
		if err := s.milestones.Create(ctx, m); err != nil {
			return nil, err
		}
	}

	resolution.RoadmapGenerated = true
	resolution.RoadmapNeedsRefresh = false
	resolution.RoadmapMode = entities.RoadmapModeAI
	resolution.CurrentMilestone = 0
	next := agents.NextRefreshDate(resolution.Cadence, nil, now)
	resolution.NextRoadmapRefresh = &next
	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}

	return s.Get(ctx, resolutionID, userID)
}

// RegenerateWithFeedback rebuilds the roadmap using the pro model and the
// user's feedback text, replacing uncompleted milestones.
func (s *RoadmapService) RegenerateWithFeedback(ctx context.Context, resolutionID, userID int64, feedback string) (*LivingRoadmap, error) {
	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.milestones.ListByResolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(existing))
	for _, m := range existing {
		titles = append(titles, m.Title)
	}

	level := ""
	if resolution.SkillLevel != nil {
		level = *resolution.SkillLevel
	}

	result := s.llm.RegenerateRoadmapWithFeedback(ctx, resolution.GoalStatement, resolution.Category, level, resolution.Cadence, titles, feedback)

	if err := s.milestones.DeleteUncompleted(ctx, resolutionID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	weeksSoFar := 0
	for i, rm := range result.Milestones {
		m := entities.NewMilestone(resolutionID, rm.Order, rm.Title, rm.Description, rm.VerificationCriteria)
		weeksSoFar += rm.EstimatedWeeks
		target := now.AddDate(0, 0, weeksSoFar*7)
		m.TargetDate = &target
		if i == 0 {
			m.Status = entities.MilestoneInProgress
		}
		if err := s.milestones.Create(ctx, m); err != nil {
			return nil, err
		}
	}

	resolution.RoadmapGenerated = true
	resolution.RoadmapNeedsRefresh = false
	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}

	return s.Get(ctx, resolutionID, userID)
}

// Get returns the living roadmap view.
func (s *RoadmapService) Get(ctx context.Context, resolutionID, userID int64) (*LivingRoadmap, error) {
	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	milestones, err := s.milestones.ListByResolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}

	return &LivingRoadmap{
		ResolutionID:      resolutionID,
		Milestones:        milestones,
		RoadmapMode:       resolution.RoadmapMode,
		NeedsRefresh:      resolution.RoadmapNeedsRefresh,
		LikelihoodScore:   resolution.GoalLikelihoodScore,
		NextRefresh:       resolution.NextRoadmapRefresh,
		OverallAssessment: assessmentFor(resolution),
	}, nil
}

func assessmentFor(resolution *entities.Resolution) string {
	if resolution.GoalLikelihoodScore == nil {
		return "Not enough data yet"
	}
	switch score := *resolution.GoalLikelihoodScore; {
	case score >= 0.7:
		return "On track"
	case score >= 0.4:
		return "Making progress"
	default:
		return "Needs adjustment"
	}
}

// Refresh runs the living-roadmap agent over recent activity and applies its
// adjustments. Completed milestones are never touched.
func (s *RoadmapService) Refresh(ctx context.Context, resolutionID, userID int64) (*LivingRoadmap, error) {
	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	milestones, err := s.milestones.ListByResolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logs.ListByResolution(ctx, resolutionID, 10)
	if err != nil {
		return nil, err
	}

	streak, err := s.streaks.GetByResolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}

	scores, err := s.logs.ListVerificationScores(ctx, resolutionID, 20)
	if err != nil {
		return nil, err
	}

	update := s.llm.GenerateLivingRoadmapUpdate(ctx, resolution, milestones, logs, streak, scores)

	byOrder := make(map[int]*entities.Milestone, len(milestones))
	for _, m := range milestones {
		byOrder[m.Order] = m
	}

	for _, adj := range update.Adjustments {
		existing := byOrder[adj.MilestoneOrder]
		if existing != nil && existing.Status == entities.MilestoneCompleted {
			continue
		}

		switch adj.AdjustmentType {
		case "modify":
			if existing == nil || adj.UpdatedMilestone == nil {
				continue
			}
			existing.Title = adj.UpdatedMilestone.Title
			existing.Description = adj.UpdatedMilestone.Description
			existing.VerificationCriteria = adj.UpdatedMilestone.VerificationCriteria
			if err := s.milestones.Update(ctx, existing); err != nil {
				return nil, err
			}
		case "add":
			if adj.UpdatedMilestone == nil {
				continue
			}
			m := entities.NewMilestone(resolutionID, adj.MilestoneOrder,
				adj.UpdatedMilestone.Title, adj.UpdatedMilestone.Description, adj.UpdatedMilestone.VerificationCriteria)
			if err := s.milestones.Create(ctx, m); err != nil {
				return nil, err
			}
		}
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	recentLogs, err := s.logs.CountSince(ctx, resolutionID, weekAgo)
	if err != nil {
		return nil, err
	}

	refreshed, err := s.milestones.ListByResolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}

	likelihood := agents.CalculateGoalLikelihood(streak, refreshed, recentLogs, scores)
	now := time.Now().UTC()
	next := agents.NextRefreshDate(resolution.Cadence, nil, now)

	resolution.GoalLikelihoodScore = &likelihood
	resolution.NextRoadmapRefresh = &next
	resolution.RoadmapNeedsRefresh = false
	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}

	roadmap, err := s.Get(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}
	if update.OverallAssessment != "" {
		roadmap.OverallAssessment = update.OverallAssessment
	}

	return roadmap, nil
}

// SetMode switches how the roadmap is managed.
func (s *RoadmapService) SetMode(ctx context.Context, resolutionID, userID int64, mode string) (*entities.Resolution, error) {
	if !entities.ValidRoadmapMode(mode) {
		return nil, fmt.Errorf("%w: invalid roadmap_mode", ErrValidation)
	}

	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	resolution.RoadmapMode = mode
	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}

	return resolution, nil
}

// ManualMilestoneInput is one user-authored milestone.
type ManualMilestoneInput struct {
	Order                int
	Title                string
	Description          string
	VerificationCriteria string
	TargetDate           *time.Time
}

// SaveManual replaces uncompleted milestones with user-authored ones and
// switches the roadmap to manual mode.
func (s *RoadmapService) SaveManual(ctx context.Context, resolutionID, userID int64, inputs []ManualMilestoneInput) (*LivingRoadmap, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one milestone is required", ErrValidation)
	}
	for _, in := range inputs {
		if in.Title == "" {
			return nil, fmt.Errorf("%w: milestone title is required", ErrValidation)
		}
	}

	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.milestones.DeleteUncompleted(ctx, resolutionID); err != nil {
		return nil, err
	}

	for i, in := range inputs {
		m := entities.NewMilestone(resolutionID, in.Order, in.Title, in.Description, in.VerificationCriteria)
		m.TargetDate = in.TargetDate
		m.IsEdited = true
		if i == 0 {
			m.Status = entities.MilestoneInProgress
		}
		if err := s.milestones.Create(ctx, m); err != nil {
			return nil, err
		}
	}

	resolution.RoadmapGenerated = true
	resolution.RoadmapMode = entities.RoadmapModeManual
	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}

	return s.Get(ctx, resolutionID, userID)
}

// MilestoneEdit carries a partial milestone update; nil leaves a field as is.
type MilestoneEdit struct {
	Title                *string
	Description          *string
	VerificationCriteria *string
	TargetDate           *time.Time
}

// UpdateMilestone applies a user edit, runs it through the refinement agent
// and marks the milestone edited. The agent falls back to the raw edit.
func (s *RoadmapService) UpdateMilestone(ctx context.Context, id, userID int64, edit MilestoneEdit) (*entities.Milestone, error) {
	m, err := s.milestones.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	resolution, err := s.resolutions.GetByID(ctx, m.ResolutionID, userID)
	if err != nil {
		return nil, err
	}

	originalTitle := m.Title
	if edit.Title != nil {
		m.Title = *edit.Title
	}
	if edit.Description != nil {
		m.Description = *edit.Description
	}
	if edit.VerificationCriteria != nil {
		m.VerificationCriteria = *edit.VerificationCriteria
	}
	if edit.TargetDate != nil {
		m.TargetDate = edit.TargetDate
	}

	if edit.Title != nil || edit.Description != nil || edit.VerificationCriteria != nil {
		refined := s.llm.RefineMilestone(ctx, originalTitle, m.Title, m.Description, m.VerificationCriteria, resolution.GoalStatement)
		if refined.RefinedTitle != "" {
			m.Title = refined.RefinedTitle
		}
		if refined.RefinedDescription != "" {
			m.Description = refined.RefinedDescription
		}
		if refined.RefinedCriteria != "" {
			m.VerificationCriteria = refined.RefinedCriteria
		}
	}
	m.IsEdited = true

	if err := s.milestones.Update(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// CompleteMilestone marks a milestone done, advances the resolution's
// current milestone index and promotes the next pending milestone.
func (s *RoadmapService) CompleteMilestone(ctx context.Context, id, userID int64) (*entities.Milestone, error) {
	m, err := s.milestones.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if m.Status == entities.MilestoneCompleted {
		return m, nil
	}

	m.Complete()
	if err := s.milestones.Update(ctx, m); err != nil {
		return nil, err
	}

	resolution, err := s.resolutions.GetByID(ctx, m.ResolutionID, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.milestones.ListByResolution(ctx, m.ResolutionID)
	if err != nil {
		return nil, err
	}

	for _, next := range all {
		if next.Status == entities.MilestonePending {
			next.Status = entities.MilestoneInProgress
			if err := s.milestones.Update(ctx, next); err != nil {
				return nil, err
			}
			break
		}
	}

	resolution.CurrentMilestone++
	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}

	return m, nil
}
