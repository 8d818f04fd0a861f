package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/agents"
	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres/repository"
)

// isNotFound reports whether err is any repository not-found sentinel.
func isNotFound(err error) bool {
	for _, sentinel := range []error{
		repository.ErrProgressLogNotFound,
		repository.ErrQuizNotFound,
		repository.ErrStreakNotFound,
		repository.ErrResolutionNotFound,
		repository.ErrMilestoneNotFound,
		repository.ErrWeeklyGoalNotFound,
		repository.ErrWeeklyFocusNotFound,
		repository.ErrNorthStarNotFound,
		repository.ErrFeedbackNotFound,
		repository.ErrSyllabusNotFound,
		repository.ErrSessionNotFound,
		repository.ErrSessionQuizNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

type ProgressLogRepository interface {
	Create(ctx context.Context, log *entities.ProgressLog) error
	GetByID(ctx context.Context, id, userID int64) (*entities.ProgressLog, error)
	GetByDate(ctx context.Context, resolutionID int64, day time.Time) (*entities.ProgressLog, error)
	ListByResolution(ctx context.Context, resolutionID int64, limit int) ([]*entities.ProgressLog, error)
	ListVerifiedConcepts(ctx context.Context, resolutionID, excludeLogID int64, limit int) ([]string, error)
	Update(ctx context.Context, log *entities.ProgressLog) error
	CountSince(ctx context.Context, resolutionID int64, day time.Time) (int, error)
	ListVerificationScores(ctx context.Context, resolutionID int64, limit int) ([]float64, error)
}

type VerificationQuizRepository interface {
	Create(ctx context.Context, quiz *entities.VerificationQuiz) error
	GetByID(ctx context.Context, id, userID int64) (*entities.VerificationQuiz, error)
	GetByLogID(ctx context.Context, progressLogID int64) (*entities.VerificationQuiz, error)
	Complete(ctx context.Context, quiz *entities.VerificationQuiz) error
}

// ProgressService handles daily check-ins, verification quizzes and streaks.
type ProgressService struct {
	resolutions ResolutionRepository
	logs        ProgressLogRepository
	quizzes     VerificationQuizRepository
	streaks     StreakRepository
	milestones  MilestoneRepository
	llm         *agents.Client
	transcriber *agents.Transcriber
	log         *zap.Logger
}

func NewProgressService(
	resolutions ResolutionRepository,
	logs ProgressLogRepository,
	quizzes VerificationQuizRepository,
	streaks StreakRepository,
	milestones MilestoneRepository,
	llm *agents.Client,
	transcriber *agents.Transcriber,
	log *zap.Logger,
) *ProgressService {
	return &ProgressService{
		resolutions: resolutions,
		logs:        logs,
		quizzes:     quizzes,
		streaks:     streaks,
		milestones:  milestones,
		llm:         llm,
		transcriber: transcriber,
		log:         log,
	}
}

// LogInput carries a new check-in.
type LogInput struct {
	Content         string
	InputType       string
	SourceReference *string
	DurationMinutes *int
}

// LogProgress records today's check-in and advances the streak.
func (s *ProgressService) LogProgress(ctx context.Context, resolutionID, userID int64, in LogInput) (*entities.ProgressLog, error) {
	if in.Content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if in.InputType != "" && in.InputType != entities.InputTypeText && in.InputType != entities.InputTypeVoice {
		return nil, fmt.Errorf("%w: invalid input_type", ErrValidation)
	}

	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}

	today := todayUTC()
	log := entities.NewProgressLog(resolutionID, today, in.Content, in.InputType)
	log.SourceReference = in.SourceReference
	log.DurationMinutes = in.DurationMinutes

	if err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}

	streak, err := s.streaks.GetByResolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}
	streak.RecordLog(today)
	if err := s.streaks.Update(ctx, streak); err != nil {
		return nil, err
	}

	return log, nil
}

// Today returns today's log, or nil if the user has not checked in yet.
func (s *ProgressService) Today(ctx context.Context, resolutionID, userID int64) (*entities.ProgressLog, error) {
	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}

	log, err := s.logs.GetByDate(ctx, resolutionID, todayUTC())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return log, nil
}

// History returns recent logs, newest first.
func (s *ProgressService) History(ctx context.Context, resolutionID, userID int64, limit int) ([]*entities.ProgressLog, error) {
	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	return s.logs.ListByResolution(ctx, resolutionID, limit)
}

// VerifyLog returns the verification quiz for a log, generating it on first
// request. Previously verified concepts are fed as context.
func (s *ProgressService) VerifyLog(ctx context.Context, logID, userID int64) (*entities.VerificationQuiz, error) {
	progressLog, err := s.logs.GetByID(ctx, logID, userID)
	if err != nil {
		return nil, err
	}

	if quiz, err := s.quizzes.GetByLogID(ctx, progressLog.ID); err == nil {
		return quiz, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	resolution, err := s.resolutions.GetByID(ctx, progressLog.ResolutionID, userID)
	if err != nil {
		return nil, err
	}

	previousConcepts, err := s.logs.ListVerifiedConcepts(ctx, resolution.ID, progressLog.ID, 5)
	if err != nil {
		return nil, err
	}
	if len(previousConcepts) > 10 {
		previousConcepts = previousConcepts[:10]
	}

	sourceRef := ""
	if progressLog.SourceReference != nil {
		sourceRef = *progressLog.SourceReference
	}

	generated := s.llm.GenerateVerificationQuiz(ctx, progressLog.Content, sourceRef, resolution.GoalStatement, previousConcepts)

	quizType := entities.QuizTypeTeachBack
	if generated.SearchContext != "" {
		quizType = entities.QuizTypeContextual
	}

	quiz := entities.NewVerificationQuiz(progressLog.ID, generated.Questions, quizType)
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}

	return quiz, nil
}

// QuizResult is the outcome of a graded verification quiz.
type QuizResult struct {
	QuizID         int64                 `json:"quiz_id"`
	Score          float64               `json:"score"` // percentage 0..100
	Passed         bool                  `json:"passed"`
	TotalQuestions int                   `json:"total_questions"`
	CorrectAnswers int                   `json:"correct_answers"`
	Feedback       *agents.GradingResult `json:"feedback"`
	StreakUpdated  bool                  `json:"streak_updated"`
}

// SubmitQuiz grades a verification quiz. Passing marks the log verified and
// counts a verified day; failing triggers advisory recovery analysis.
func (s *ProgressService) SubmitQuiz(ctx context.Context, quizID, userID int64, answers []entities.QuizAnswer) (*QuizResult, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	progressLog, err := s.logs.GetByID(ctx, quiz.ProgressLogID, userID)
	if err != nil {
		return nil, err
	}

	if quiz.IsCompleted {
		return nil, fmt.Errorf("%w: quiz already submitted", ErrValidation)
	}

	resolution, err := s.resolutions.GetByID(ctx, progressLog.ResolutionID, userID)
	if err != nil {
		return nil, err
	}

	gradingContext := fmt.Sprintf("%s - %s", resolution.GoalStatement, truncateContent(progressLog.Content, 200))
	grading := s.llm.GradeVerificationQuiz(ctx, quiz.Questions, answers, gradingContext)

	quiz.Complete(answers, grading.OverallScore, grading.Passed)
	if err := s.quizzes.Complete(ctx, quiz); err != nil {
		return nil, err
	}

	progressLog.Verified = grading.Passed
	progressLog.VerificationScore = &grading.OverallScore
	progressLog.ConceptsClaimed = grading.ConceptsToReinforce
	if progressLog.ConceptsClaimed == nil {
		progressLog.ConceptsClaimed = []string{}
	}
	if err := s.logs.Update(ctx, progressLog); err != nil {
		return nil, err
	}

	streakUpdated := false
	streak, err := s.streaks.GetByResolution(ctx, resolution.ID)
	if err == nil {
		if grading.Passed {
			streak.RecordVerified(todayUTC())
			if err := s.streaks.Update(ctx, streak); err != nil {
				return nil, err
			}
			streakUpdated = true
		} else {
			s.suggestRecovery(ctx, resolution, progressLog, grading)
		}
	} else if !isNotFound(err) {
		return nil, err
	}

	correct := 0
	for _, e := range grading.Evaluations {
		if e.IsCorrect {
			correct++
		}
	}

	return &QuizResult{
		QuizID:         quiz.ID,
		Score:          grading.OverallScore * 100,
		Passed:         grading.Passed,
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: correct,
		Feedback:       grading,
		StreakUpdated:  streakUpdated,
	}, nil
}

// suggestRecovery runs the recovery agent against the in-progress milestone.
// The plan is advisory; failures are only logged.
func (s *ProgressService) suggestRecovery(ctx context.Context, resolution *entities.Resolution, progressLog *entities.ProgressLog, grading *agents.GradingResult) {
	milestones, err := s.milestones.ListByResolution(ctx, resolution.ID)
	if err != nil {
		s.log.Warn("recovery analysis skipped", zap.Error(err))
		return
	}

	var current *entities.Milestone
	for _, m := range milestones {
		if m.Status == entities.MilestoneInProgress {
			current = m
			break
		}
	}
	if current == nil {
		return
	}

	plan := s.llm.AnalyzeFailure(ctx, grading, progressLog.Content, current, resolution.GoalStatement)
	s.log.Info("recovery plan generated",
		zap.Int64("resolution_id", resolution.ID),
		zap.Strings("weak_concepts", plan.WeakConcepts),
		zap.Bool("should_revisit_milestone", plan.ShouldRevisitMilestone),
	)
}

// Overview summarizes roadmap and streak state for one resolution.
type Overview struct {
	ResolutionID        int64  `json:"resolution_id"`
	GoalStatement       string `json:"goal_statement"`
	Category            string `json:"category"`
	CurrentMilestone    int    `json:"current_milestone"`
	TotalMilestones     int    `json:"total_milestones"`
	MilestonesCompleted int    `json:"milestones_completed"`
	CurrentStreak       int    `json:"current_streak"`
	LongestStreak       int    `json:"longest_streak"`
	TotalVerifiedDays   int    `json:"total_verified_days"`
	LogsThisWeek        int    `json:"logs_this_week"`
}

// GetOverview builds the progress overview for a resolution.
func (s *ProgressService) GetOverview(ctx context.Context, resolutionID, userID int64) (*Overview, error) {
	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	milestones, err := s.milestones.ListByResolution(ctx, resolutionID)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, m := range milestones {
		if m.Status == entities.MilestoneCompleted {
			completed++
		}
	}

	streak, err := s.streaks.GetByResolution(ctx, resolutionID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		streak = entities.NewStreak(resolutionID)
	}

	weekStart, _ := entities.WeekBounds(time.Now())
	logsThisWeek, err := s.logs.CountSince(ctx, resolutionID, weekStart)
	if err != nil {
		return nil, err
	}

	return &Overview{
		ResolutionID:        resolution.ID,
		GoalStatement:       resolution.GoalStatement,
		Category:            resolution.Category,
		CurrentMilestone:    resolution.CurrentMilestone,
		TotalMilestones:     len(milestones),
		MilestonesCompleted: completed,
		CurrentStreak:       streak.CurrentStreak,
		LongestStreak:       streak.LongestStreak,
		TotalVerifiedDays:   streak.TotalVerifiedDays,
		LogsThisWeek:        logsThisWeek,
	}, nil
}

// GetStreak returns the streak for an owned resolution.
func (s *ProgressService) GetStreak(ctx context.Context, resolutionID, userID int64) (*entities.Streak, error) {
	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}
	return s.streaks.GetByResolution(ctx, resolutionID)
}

// Transcribe converts a base64 voice note to text.
func (s *ProgressService) Transcribe(ctx context.Context, audioBase64 string) (string, error) {
	text, err := s.transcriber.Transcribe(ctx, audioBase64)
	if err != nil {
		return "", fmt.Errorf("%w: transcription failed: %s", ErrValidation, err)
	}
	return text, nil
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateContent(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
