package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/domain/entities"
)

const verificationSystemPrompt = `You are an expert learning verifier who creates contextual quiz questions.

Your task is to generate verification questions based on what the user claims to have studied today.
You must validate their understanding, not just their completion.

Rules:
1. Generate 3-5 questions that test genuine understanding
2. Questions should be based on the topic/content the user mentions
3. Include a mix of:
   - Concept explanation (explain X in your own words)
   - Application (how would you use X in situation Y)
   - Comparison (what's the difference between X and Y)
   - Recall (what are the key points of X)
4. If you're unsure about the specific content, fall back to open-ended "teach-back" questions
5. Always include at least one "teach-back" question as the final question

Return JSON:
{
  "questions": [
    {
      "id": 1,
      "question_type": "concept|application|comparison|recall|teach_back",
      "question_text": "The question",
      "options": null,
      "concept": "What concept this tests"
    }
  ],
  "search_context": "Brief context about what was researched to generate these questions"
}`

const gradingSystemPrompt = `You are an expert learning evaluator who grades open-ended responses.

Evaluate each answer for:
1. Accuracy - Is the information correct?
2. Depth - Does it show genuine understanding beyond surface level?
3. Clarity - Is it clearly explained?
4. Completeness - Does it cover the key points?

Return JSON:
{
  "evaluations": [
    {
      "question_id": 1,
      "score": 0.0-1.0,
      "is_correct": true/false,
      "feedback": "Specific feedback",
      "key_points_identified": ["point1", "point2"],
      "missed_concepts": ["concept1"]
    }
  ],
  "overall_score": 0.0-1.0,
  "passed": true/false,
  "summary_feedback": "Overall assessment",
  "concepts_to_reinforce": ["concept1", "concept2"]
}`

// VerificationQuizResult is a generated set of comprehension questions.
type VerificationQuizResult struct {
	Questions     []entities.QuizQuestion `json:"questions"`
	SearchContext string                  `json:"search_context"`
}

// AnswerEvaluation grades one submitted answer.
type AnswerEvaluation struct {
	QuestionID          int      `json:"question_id"`
	Score               float64  `json:"score"`
	IsCorrect           bool     `json:"is_correct"`
	Feedback            string   `json:"feedback"`
	KeyPointsIdentified []string `json:"key_points_identified"`
	MissedConcepts      []string `json:"missed_concepts"`
}

// GradingResult is the full assessment of a verification quiz submission.
type GradingResult struct {
	Evaluations         []AnswerEvaluation `json:"evaluations"`
	OverallScore        float64            `json:"overall_score"`
	Passed              bool               `json:"passed"`
	SummaryFeedback     string             `json:"summary_feedback"`
	ConceptsToReinforce []string           `json:"concepts_to_reinforce"`
}

// GenerateVerificationQuiz builds questions around what the user claims to
// have learned today.
func (c *Client) GenerateVerificationQuiz(ctx context.Context, progressContent, sourceReference, goalContext string, previousConcepts []string) *VerificationQuizResult {
	source := sourceReference
	if source == "" {
		source = "Not specified"
	}

	previous := ""
	if len(previousConcepts) > 0 {
		previous = "CONCEPTS PREVIOUSLY COVERED: " + strings.Join(previousConcepts, ", ")
	}

	prompt := fmt.Sprintf(`Generate verification questions for this learning session:

USER'S PROGRESS LOG: %q

SOURCE REFERENCED: %s

GOAL CONTEXT: %s

%s

Generate questions that verify the user actually learned and understood what they claim.
If you can't determine specific content, use open-ended teach-back questions.`,
		progressContent, source, goalContext, previous)

	var result VerificationQuizResult
	err := c.generateJSON(ctx, c.generationModel, verificationSystemPrompt, prompt, 0.6, &result)
	if err != nil || len(result.Questions) == 0 {
		c.log.Warn("verification quiz generation fell back", zap.Error(err))
		return fallbackVerificationQuiz()
	}

	for i := range result.Questions {
		result.Questions[i].ID = i + 1
	}

	return &result
}

// GradeVerificationQuiz evaluates the submitted answers against the
// questions. Pass threshold is 60%.
func (c *Client) GradeVerificationQuiz(ctx context.Context, questions []entities.QuizQuestion, answers []entities.QuizAnswer, goalContext string) *GradingResult {
	type qaPair struct {
		Question string `json:"question"`
		Type     string `json:"type"`
		Concept  string `json:"concept"`
		Answer   string `json:"answer"`
	}

	byID := make(map[int]string, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a.Answer
	}

	pairs := make([]qaPair, 0, len(questions))
	for _, q := range questions {
		answer, ok := byID[q.ID]
		if !ok {
			answer = "No answer provided"
		}
		pairs = append(pairs, qaPair{
			Question: q.QuestionText,
			Type:     q.QuestionType,
			Concept:  q.Concept,
			Answer:   answer,
		})
	}

	encoded, _ := json.MarshalIndent(pairs, "", "  ")

	prompt := fmt.Sprintf(`Grade these learning verification responses:

CONTEXT: %s

QUESTIONS AND ANSWERS:
%s

Evaluate each answer and provide an overall assessment.
Pass threshold is 60%% overall score.`, goalContext, encoded)

	var result GradingResult
	err := c.generateJSON(ctx, c.generationModel, gradingSystemPrompt, prompt, 0.3, &result)
	if err != nil {
		c.log.Warn("verification grading fell back", zap.Error(err))
		return &GradingResult{
			Evaluations:         []AnswerEvaluation{},
			OverallScore:        0.5,
			Passed:              true,
			SummaryFeedback:     "Unable to provide detailed feedback. Marked as verified.",
			ConceptsToReinforce: []string{},
		}
	}

	return &result
}

func fallbackVerificationQuiz() *VerificationQuizResult {
	return &VerificationQuizResult{
		Questions: []entities.QuizQuestion{
			{
				ID:           1,
				QuestionType: entities.QuestionRecall,
				QuestionText: "What were the main points or concepts you learned today?",
				Concept:      "general_recall",
			},
			{
				ID:           2,
				QuestionType: entities.QuestionApplication,
				QuestionText: "How could you apply what you learned today in a real situation?",
				Concept:      "practical_application",
			},
			{
				ID:           3,
				QuestionType: entities.QuestionTeachBack,
				QuestionText: "Explain what you learned today as if teaching someone who knows nothing about the topic.",
				Concept:      "teach_back_validation",
			},
		},
		SearchContext: "Fallback questions - no specific context available",
	}
}
