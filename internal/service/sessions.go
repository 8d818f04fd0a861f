package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/agents"
	"github.com/neuroresolv/backend/internal/domain/entities"
)

type SyllabusRepository interface {
	Upsert(ctx context.Context, s *entities.Syllabus) error
	GetByResolution(ctx context.Context, resolutionID int64) (*entities.Syllabus, error)
	AddChunks(ctx context.Context, chunks []*entities.ContentChunk) error
	ListChunks(ctx context.Context, resolutionID int64, limit int) ([]*entities.ContentChunk, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, s *entities.DailySession) error
	GetSession(ctx context.Context, id, userID int64) (*entities.DailySession, error)
	GetSessionByDay(ctx context.Context, resolutionID int64, dayNumber int) (*entities.DailySession, error)
	ListSessions(ctx context.Context, resolutionID int64) ([]*entities.DailySession, error)
	DeleteSessions(ctx context.Context, resolutionID int64) error
	CompleteSession(ctx context.Context, id int64, at time.Time) error
	CreateQuiz(ctx context.Context, quiz *entities.SessionQuiz) error
	GetQuizBySession(ctx context.Context, sessionID int64) (*entities.SessionQuiz, error)
	CompleteQuiz(ctx context.Context, quiz *entities.SessionQuiz, responses []*entities.SessionQuizResponse) error
	RecordMetric(ctx context.Context, resolutionID int64, concept string, correct bool, at time.Time) (*entities.LearningMetric, error)
	ListWeakConcepts(ctx context.Context, resolutionID int64, limit int) ([]*entities.LearningMetric, error)
	ListMetrics(ctx context.Context, resolutionID int64) ([]*entities.LearningMetric, error)
}

const (
	chunkSize    = 1000
	chunkOverlap = 100
)

// SessionService drives the legacy syllabus flow: uploaded material, a
// generated day-by-day curriculum and per-session active-recall quizzes.
type SessionService struct {
	resolutions ResolutionRepository
	syllabi     SyllabusRepository
	sessions    SessionRepository
	llm         *agents.Client
	log         *zap.Logger
}

func NewSessionService(
	resolutions ResolutionRepository,
	syllabi SyllabusRepository,
	sessions SessionRepository,
	llm *agents.Client,
	log *zap.Logger,
) *SessionService {
	return &SessionService{
		resolutions: resolutions,
		syllabi:     syllabi,
		sessions:    sessions,
		llm:         llm,
		log:         log,
	}
}

// UploadResult reports what was stored from an uploaded file.
type UploadResult struct {
	Filename        string `json:"filename"`
	ChunksStored    int    `json:"chunks_stored"`
	TotalCharacters int    `json:"total_characters"`
}

// UploadContent stores learning material for syllabus generation. Only plain
// text formats are processed in this build.
func (s *SessionService) UploadContent(ctx context.Context, resolutionID, userID int64, filename string, content []byte) (*UploadResult, error) {
	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
	default:
		return nil, fmt.Errorf("%w: unsupported file type, please upload TXT or MD files", ErrValidation)
	}

	text := string(content)
	pieces := splitIntoChunks(text, chunkSize, chunkOverlap)

	chunks := make([]*entities.ContentChunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, &entities.ContentChunk{
			ResolutionID: resolutionID,
			Source:       filename,
			Content:      piece,
			ChunkIndex:   i,
		})
	}
	if err := s.syllabi.AddChunks(ctx, chunks); err != nil {
		return nil, err
	}

	return &UploadResult{
		Filename:        filename,
		ChunksStored:    len(chunks),
		TotalCharacters: len(text),
	}, nil
}

// splitIntoChunks breaks text into overlapping pieces, preferring to cut at
// a sentence or line boundary.
func splitIntoChunks(text string, size, overlap int) []string {
	if len(text) <= size {
		if t := strings.TrimSpace(text); t != "" {
			return []string{t}
		}
		return nil
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end < len(text) {
			lastPeriod := strings.LastIndex(text[start:end], ".")
			lastNewline := strings.LastIndex(text[start:end], "\n")
			breakPoint := lastPeriod
			if lastNewline > breakPoint {
				breakPoint = lastNewline
			}
			if breakPoint > 0 {
				end = start + breakPoint + 1
			}
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(text) {
			break
		}
		start = end - overlap
	}

	return chunks
}

// SyllabusInput controls syllabus generation. Zero values fall back to a
// 30-day, 30-minutes-a-day plan.
type SyllabusInput struct {
	DurationDays     int
	DailyTimeMinutes int
}

// GenerateSyllabus builds the curriculum from uploaded material and recreates
// the daily sessions from its days.
func (s *SessionService) GenerateSyllabus(ctx context.Context, resolutionID, userID int64, in SyllabusInput) (*entities.Syllabus, error) {
	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	if in.DurationDays <= 0 {
		in.DurationDays = 30
	}
	if in.DailyTimeMinutes <= 0 {
		in.DailyTimeMinutes = 30
	}

	chunks, err := s.syllabi.ListChunks(ctx, resolutionID, 10)
	if err != nil {
		return nil, err
	}
	var summary strings.Builder
	for _, c := range chunks {
		summary.WriteString(c.Content)
		summary.WriteString("\n\n")
	}

	result := s.llm.GenerateSyllabus(ctx, resolution.GoalStatement, in.DurationDays, in.DailyTimeMinutes, summary.String())

	syllabus := &entities.Syllabus{
		ResolutionID: resolutionID,
		Title:        result.Title,
		Days:         result.Days,
		TotalDays:    result.TotalDays,
	}
	if syllabus.TotalDays == 0 {
		syllabus.TotalDays = in.DurationDays
	}
	if err := s.syllabi.Upsert(ctx, syllabus); err != nil {
		return nil, err
	}

	if err := s.sessions.DeleteSessions(ctx, resolutionID); err != nil {
		return nil, err
	}
	for _, day := range result.Days {
		session := &entities.DailySession{
			ResolutionID: resolutionID,
			DayNumber:    day.Day,
			Title:        day.Title,
			Content:      day.Description,
			Summary:      truncateContent(day.Description, 500),
			Concepts:     day.Concepts,
		}
		if session.Concepts == nil {
			session.Concepts = []string{}
		}
		if err := s.sessions.CreateSession(ctx, session); err != nil {
			return nil, err
		}
	}

	resolution.CurrentDay = 0
	if err := s.resolutions.Update(ctx, resolution); err != nil {
		return nil, err
	}

	return syllabus, nil
}

// GetSyllabus returns the curriculum for a resolution.
func (s *SessionService) GetSyllabus(ctx context.Context, resolutionID, userID int64) (*entities.Syllabus, error) {
	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}
	return s.syllabi.GetByResolution(ctx, resolutionID)
}

// TodaySession returns the next uncompleted day's session, or nil when the
// plan is exhausted or no syllabus exists.
func (s *SessionService) TodaySession(ctx context.Context, resolutionID, userID int64) (*entities.DailySession, error) {
	resolution, err := s.resolutions.GetByID(ctx, resolutionID, userID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetSessionByDay(ctx, resolutionID, resolution.CurrentDay+1)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return session, nil
}

// GetSession returns one session owned by the user.
func (s *SessionService) GetSession(ctx context.Context, id, userID int64) (*entities.DailySession, error) {
	return s.sessions.GetSession(ctx, id, userID)
}

// CompleteSession marks a session finished.
func (s *SessionService) CompleteSession(ctx context.Context, id, userID int64) error {
	if _, err := s.sessions.GetSession(ctx, id, userID); err != nil {
		return err
	}
	return s.sessions.CompleteSession(ctx, id, time.Now().UTC())
}

// GetOrGenerateQuiz returns the quiz for a session, generating it on first
// request from the session content and past mastery.
func (s *SessionService) GetOrGenerateQuiz(ctx context.Context, sessionID, userID int64) (*entities.SessionQuiz, error) {
	session, err := s.sessions.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if quiz, err := s.sessions.GetQuizBySession(ctx, session.ID); err == nil {
		return quiz, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	avgScore := s.averageMastery(ctx, session.ResolutionID)
	generated := s.llm.GenerateSessionQuiz(ctx, session.Title, session.Content, session.Concepts, avgScore)

	quiz := &entities.SessionQuiz{SessionID: session.ID}
	for i, q := range generated.Questions {
		quiz.Questions = append(quiz.Questions, entities.SessionQuizQuestion{
			QuestionType:  q.Type,
			QuestionText:  q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Concept:       q.Concept,
			Difficulty:    q.Difficulty,
			Order:         i + 1,
		})
	}
	if err := s.sessions.CreateQuiz(ctx, quiz); err != nil {
		return nil, err
	}

	return quiz, nil
}

// averageMastery returns the mean mastery percentage across tested concepts,
// or -1 when nothing has been tested yet.
func (s *SessionService) averageMastery(ctx context.Context, resolutionID int64) float64 {
	metrics, err := s.sessions.ListMetrics(ctx, resolutionID)
	if err != nil || len(metrics) == 0 {
		return -1
	}
	total := 0.0
	for _, m := range metrics {
		total += m.MasteryScore
	}
	return total / float64(len(metrics)) * 100
}

// SessionAnswer is one submitted quiz answer.
type SessionAnswer struct {
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
}

// AnswerFeedback is the graded outcome of one answer.
type AnswerFeedback struct {
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
	Concept   string `json:"concept"`
}

// SessionQuizResult is the outcome of a graded session quiz.
type SessionQuizResult struct {
	QuizID         int64                     `json:"quiz_id"`
	Score          float64                   `json:"score"` // percentage 0..100
	Passed         bool                      `json:"passed"`
	TotalQuestions int                       `json:"total_questions"`
	CorrectAnswers int                       `json:"correct_answers"`
	Feedback       map[string]AnswerFeedback `json:"feedback"`
	WeakConcepts   []string                  `json:"weak_concepts"`
}

// SubmitQuiz grades a session quiz. Choice questions are matched exactly,
// short answers go through the grading agent. Passing advances the
// resolution's current day; failing schedules a reinforcement session.
func (s *SessionService) SubmitQuiz(ctx context.Context, sessionID, userID int64, answers []SessionAnswer) (*SessionQuizResult, error) {
	session, err := s.sessions.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	quiz, err := s.sessions.GetQuizBySession(ctx, session.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: quiz not found", ErrValidation)
		}
		return nil, err
	}
	if quiz.IsCompleted {
		return nil, fmt.Errorf("%w: quiz already submitted", ErrValidation)
	}

	byID := make(map[int64]*entities.SessionQuizQuestion, len(quiz.Questions))
	for i := range quiz.Questions {
		byID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	var (
		responses      []*entities.SessionQuizResponse
		feedback       = make(map[string]AnswerFeedback, len(answers))
		correct        int
		weakConcepts   []string
		strongConcepts []string
	)

	for _, answer := range answers {
		question := byID[answer.QuestionID]
		if question == nil {
			continue
		}

		var isCorrect bool
		var note string
		if question.QuestionType == entities.SessionQuestionShortAnswer {
			grade := s.llm.GradeShortAnswer(ctx, question.QuestionText, question.CorrectAnswer, answer.Answer, question.Concept)
			isCorrect = grade.IsCorrect
			note = grade.Feedback
		} else {
			isCorrect = strings.EqualFold(strings.TrimSpace(answer.Answer), strings.TrimSpace(question.CorrectAnswer))
			if isCorrect {
				note = "Correct!"
			} else {
				note = fmt.Sprintf("The correct answer was: %s", question.CorrectAnswer)
			}
		}

		responses = append(responses, &entities.SessionQuizResponse{
			QuizID:     quiz.ID,
			QuestionID: question.ID,
			UserAnswer: answer.Answer,
			IsCorrect:  isCorrect,
			Feedback:   note,
		})

		if isCorrect {
			correct++
			strongConcepts = appendUnique(strongConcepts, question.Concept)
		} else {
			weakConcepts = appendUnique(weakConcepts, question.Concept)
		}

		feedback[fmt.Sprint(question.ID)] = AnswerFeedback{
			IsCorrect: isCorrect,
			Feedback:  note,
			Concept:   question.Concept,
		}
	}

	total := len(quiz.Questions)
	score := 0.0
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}
	passed := score >= 70

	now := time.Now().UTC()
	quiz.IsCompleted = true
	quiz.Score = &score
	quiz.Passed = &passed
	quiz.CompletedAt = &now
	if err := s.sessions.CompleteQuiz(ctx, quiz, responses); err != nil {
		return nil, err
	}

	resolution, err := s.resolutions.GetByID(ctx, session.ResolutionID, userID)
	if err != nil {
		return nil, err
	}
	if passed && session.DayNumber == resolution.CurrentDay+1 {
		resolution.CurrentDay++
		if err := s.resolutions.Update(ctx, resolution); err != nil {
			return nil, err
		}
	}

	s.updateMetrics(ctx, resolution.ID, strongConcepts, weakConcepts, now)

	if !passed && len(weakConcepts) > 0 {
		s.scheduleReinforcement(ctx, resolution, session, score, weakConcepts)
	}

	if weakConcepts == nil {
		weakConcepts = []string{}
	}

	return &SessionQuizResult{
		QuizID:         quiz.ID,
		Score:          score,
		Passed:         passed,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Feedback:       feedback,
		WeakConcepts:   weakConcepts,
	}, nil
}

// updateMetrics folds quiz outcomes into per-concept mastery. A concept
// answered correctly anywhere in the quiz counts as correct.
func (s *SessionService) updateMetrics(ctx context.Context, resolutionID int64, strong, weak []string, at time.Time) {
	seen := make(map[string]bool)
	isStrong := make(map[string]bool, len(strong))
	for _, c := range strong {
		isStrong[c] = true
	}

	for _, concept := range append(append([]string{}, weak...), strong...) {
		if seen[concept] {
			continue
		}
		seen[concept] = true
		if _, err := s.sessions.RecordMetric(ctx, resolutionID, concept, isStrong[concept], at); err != nil {
			s.log.Warn("record learning metric", zap.String("concept", concept), zap.Error(err))
		}
	}
}

// scheduleReinforcement asks the adaptive agent for a recovery plan and
// inserts a reinforcement session for the same day. Failures are only logged.
func (s *SessionService) scheduleReinforcement(ctx context.Context, resolution *entities.Resolution, session *entities.DailySession, score float64, weakConcepts []string) {
	grading := &agents.GradingResult{
		OverallScore:        score / 100,
		Passed:              false,
		ConceptsToReinforce: weakConcepts,
	}
	plan := s.llm.AnalyzeFailure(ctx, grading, session.Content, nil, resolution.GoalStatement)

	var content strings.Builder
	content.WriteString(plan.Analysis)
	for _, rs := range plan.ReviewStrategies {
		content.WriteString("\n\n")
		content.WriteString(rs.Concept)
		content.WriteString(": ")
		content.WriteString(rs.Strategy)
	}

	reinforcement := &entities.DailySession{
		ResolutionID:       resolution.ID,
		DayNumber:          session.DayNumber,
		Title:              "Concept Reinforcement",
		Content:            content.String(),
		Summary:            fmt.Sprintf("Reinforcing concepts: %s", strings.Join(weakConcepts, ", ")),
		Concepts:           weakConcepts,
		IsReinforcement:    true,
		ReinforcedConcepts: weakConcepts,
	}
	if err := s.sessions.CreateSession(ctx, reinforcement); err != nil {
		s.log.Warn("create reinforcement session", zap.Int64("resolution_id", resolution.ID), zap.Error(err))
		return
	}

	s.log.Info("reinforcement session scheduled",
		zap.Int64("resolution_id", resolution.ID),
		zap.Int("day_number", session.DayNumber),
		zap.Strings("weak_concepts", weakConcepts),
	)
}

// History returns all sessions for a resolution in day order.
func (s *SessionService) History(ctx context.Context, resolutionID, userID int64) ([]*entities.DailySession, error) {
	if _, err := s.resolutions.GetByID(ctx, resolutionID, userID); err != nil {
		return nil, err
	}
	return s.sessions.ListSessions(ctx, resolutionID)
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
