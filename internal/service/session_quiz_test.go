package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/agents"
	"github.com/neuroresolv/backend/internal/config"
	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/infra/postgres/repository"
)

type fakeResolutionRepo struct {
	resolution *entities.Resolution
}

func (r *fakeResolutionRepo) Create(_ context.Context, res *entities.Resolution) error {
	r.resolution = res
	return nil
}

func (r *fakeResolutionRepo) GetByID(_ context.Context, id, userID int64) (*entities.Resolution, error) {
	if r.resolution == nil || r.resolution.ID != id || r.resolution.UserID != userID {
		return nil, repository.ErrResolutionNotFound
	}
	return r.resolution, nil
}

func (r *fakeResolutionRepo) ListByUser(context.Context, int64) ([]*entities.Resolution, error) {
	return []*entities.Resolution{r.resolution}, nil
}

func (r *fakeResolutionRepo) ListActiveByUser(context.Context, int64) ([]*entities.Resolution, error) {
	return []*entities.Resolution{r.resolution}, nil
}

func (r *fakeResolutionRepo) Update(_ context.Context, res *entities.Resolution) error {
	r.resolution = res
	return nil
}

func (r *fakeResolutionRepo) Delete(context.Context, int64, int64) error { return nil }

type fakeSessionRepo struct {
	session   *entities.DailySession
	quiz      *entities.SessionQuiz
	created   []*entities.DailySession
	responses []*entities.SessionQuizResponse
	metrics   map[string]*entities.LearningMetric
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, s *entities.DailySession) error {
	r.created = append(r.created, s)
	return nil
}

func (r *fakeSessionRepo) GetSession(_ context.Context, id, _ int64) (*entities.DailySession, error) {
	if r.session == nil || r.session.ID != id {
		return nil, repository.ErrSessionNotFound
	}
	return r.session, nil
}

func (r *fakeSessionRepo) GetSessionByDay(_ context.Context, _ int64, day int) (*entities.DailySession, error) {
	if r.session == nil || r.session.DayNumber != day {
		return nil, repository.ErrSessionNotFound
	}
	return r.session, nil
}

func (r *fakeSessionRepo) ListSessions(context.Context, int64) ([]*entities.DailySession, error) {
	return []*entities.DailySession{r.session}, nil
}

func (r *fakeSessionRepo) DeleteSessions(context.Context, int64) error { return nil }

func (r *fakeSessionRepo) CompleteSession(_ context.Context, _ int64, at time.Time) error {
	r.session.IsCompleted = true
	r.session.CompletedAt = &at
	return nil
}

func (r *fakeSessionRepo) CreateQuiz(_ context.Context, quiz *entities.SessionQuiz) error {
	r.quiz = quiz
	return nil
}

func (r *fakeSessionRepo) GetQuizBySession(_ context.Context, sessionID int64) (*entities.SessionQuiz, error) {
	if r.quiz == nil || r.quiz.SessionID != sessionID {
		return nil, repository.ErrSessionQuizNotFound
	}
	return r.quiz, nil
}

func (r *fakeSessionRepo) CompleteQuiz(_ context.Context, quiz *entities.SessionQuiz, responses []*entities.SessionQuizResponse) error {
	r.quiz = quiz
	r.responses = responses
	return nil
}

func (r *fakeSessionRepo) RecordMetric(_ context.Context, resolutionID int64, concept string, correct bool, at time.Time) (*entities.LearningMetric, error) {
	if r.metrics == nil {
		r.metrics = make(map[string]*entities.LearningMetric)
	}
	m, ok := r.metrics[concept]
	if !ok {
		m = &entities.LearningMetric{ResolutionID: resolutionID, Concept: concept}
		r.metrics[concept] = m
	}
	m.RecordAttempt(correct, at)
	return m, nil
}

func (r *fakeSessionRepo) ListWeakConcepts(context.Context, int64, int) ([]*entities.LearningMetric, error) {
	return nil, nil
}

func (r *fakeSessionRepo) ListMetrics(context.Context, int64) ([]*entities.LearningMetric, error) {
	return nil, nil
}

func newSessionFixture(t *testing.T) (*SessionService, *fakeResolutionRepo, *fakeSessionRepo) {
	t.Helper()

	llm, err := agents.New(context.Background(), &config.Config{
		GenerationModel:   "gemini-2.5-flash-lite",
		RegenerationModel: "gemini-2.5-pro",
	}, zap.NewNop())
	require.NoError(t, err)

	resolutions := &fakeResolutionRepo{resolution: &entities.Resolution{
		ID:            10,
		UserID:        1,
		GoalStatement: "Learn conversational Spanish this year",
		CurrentDay:    0,
	}}
	sessions := &fakeSessionRepo{
		session: &entities.DailySession{
			ID:           20,
			ResolutionID: 10,
			DayNumber:    1,
			Title:        "Greetings",
			Content:      "Basic greetings and introductions.",
			Concepts:     []string{"greetings", "introductions"},
		},
		quiz: &entities.SessionQuiz{
			ID:        30,
			SessionID: 20,
			Questions: []entities.SessionQuizQuestion{
				{ID: 1, QuestionType: entities.SessionQuestionMultipleChoice, CorrectAnswer: "Hola", Concept: "greetings"},
				{ID: 2, QuestionType: entities.SessionQuestionTrueFalse, CorrectAnswer: "True", Concept: "greetings"},
				{ID: 3, QuestionType: entities.SessionQuestionMultipleChoice, CorrectAnswer: "Me llamo", Concept: "introductions"},
			},
		},
	}

	svc := NewSessionService(resolutions, nil, sessions, llm, zap.NewNop())
	return svc, resolutions, sessions
}

func TestSubmitSessionQuizPass(t *testing.T) {
	svc, resolutions, sessions := newSessionFixture(t)
	ctx := context.Background()

	result, err := svc.SubmitQuiz(ctx, 20, 1, []SessionAnswer{
		{QuestionID: 1, Answer: "  hola "},
		{QuestionID: 2, Answer: "true"},
		{QuestionID: 3, Answer: "Me llamo"},
	})
	require.NoError(t, err)

	assert.InDelta(t, 100.0, result.Score, 1e-9)
	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, "Correct!", result.Feedback["1"].Feedback)
	assert.Empty(t, result.WeakConcepts)

	// Passing the quiz for the next day advances the resolution.
	assert.Equal(t, 1, resolutions.resolution.CurrentDay)

	require.NotNil(t, sessions.quiz.Score)
	assert.True(t, sessions.quiz.IsCompleted)
	assert.Len(t, sessions.responses, 3)

	// Each concept is counted once, as correct.
	require.Contains(t, sessions.metrics, "greetings")
	assert.Equal(t, 1, sessions.metrics["greetings"].Attempts)
	assert.InDelta(t, 1.0, sessions.metrics["greetings"].MasteryScore, 1e-9)
}

func TestSubmitSessionQuizFail(t *testing.T) {
	svc, resolutions, sessions := newSessionFixture(t)
	ctx := context.Background()

	result, err := svc.SubmitQuiz(ctx, 20, 1, []SessionAnswer{
		{QuestionID: 1, Answer: "Adios"},
		{QuestionID: 2, Answer: "true"},
		{QuestionID: 3, Answer: "Me llamo"},
	})
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.InDelta(t, 200.0/3, result.Score, 0.01)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, "The correct answer was: Hola", result.Feedback["1"].Feedback)
	assert.Contains(t, result.WeakConcepts, "greetings")

	// The day does not advance on a fail.
	assert.Equal(t, 0, resolutions.resolution.CurrentDay)

	// A reinforcement session is scheduled for the same day.
	require.Len(t, sessions.created, 1)
	reinforcement := sessions.created[0]
	assert.Equal(t, "Concept Reinforcement", reinforcement.Title)
	assert.Equal(t, 1, reinforcement.DayNumber)
	assert.True(t, reinforcement.IsReinforcement)
	assert.Equal(t, result.WeakConcepts, reinforcement.ReinforcedConcepts)

	// greetings was both right and wrong in one quiz; strong wins.
	assert.InDelta(t, 1.0, sessions.metrics["greetings"].MasteryScore, 1e-9)
}

func TestSubmitSessionQuizTwice(t *testing.T) {
	svc, _, sessions := newSessionFixture(t)
	ctx := context.Background()

	_, err := svc.SubmitQuiz(ctx, 20, 1, []SessionAnswer{{QuestionID: 1, Answer: "Hola"}})
	require.NoError(t, err)
	require.True(t, sessions.quiz.IsCompleted)

	_, err = svc.SubmitQuiz(ctx, 20, 1, []SessionAnswer{{QuestionID: 1, Answer: "Hola"}})
	assert.ErrorIs(t, err, ErrValidation)
}
