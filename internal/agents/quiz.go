package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const sessionQuizSystemPrompt = `You are an expert educational assessor specializing in active recall techniques.
Your task is to generate effective quiz questions that test genuine understanding, not just memorization.

Guidelines for quiz generation:
1. Focus on key concepts and their applications
2. Mix question types: multiple choice, true/false, and short answer
3. Ensure questions test understanding, not just recall
4. Include varying difficulty levels
5. Tag each question with the concept it tests
6. Make wrong options plausible but clearly incorrect

Output Format (JSON):
{
    "questions": [
        {
            "type": "multiple_choice",
            "question": "Question text",
            "options": ["A", "B", "C", "D"],
            "correct_answer": "B",
            "concept": "concept_name",
            "difficulty": "medium",
            "explanation": "Why this answer is correct"
        },
        {
            "type": "true_false",
            "question": "Statement to evaluate",
            "correct_answer": "true",
            "concept": "concept_name",
            "difficulty": "easy",
            "explanation": "Why this is true/false"
        },
        {
            "type": "short_answer",
            "question": "Open-ended question",
            "correct_answer": "Expected key points",
            "concept": "concept_name",
            "difficulty": "hard",
            "explanation": "What a good answer should include"
        }
    ]
}

Generate 5-7 diverse questions that effectively test the day's learning material.`

const answerGraderSystemPrompt = `You are an expert grader. Evaluate the user's answer against the expected answer.
Be fair but rigorous. Look for key concepts and understanding, not exact wording.

Output Format (JSON):
{
    "is_correct": true/false,
    "score": 0.0-1.0,
    "feedback": "Explanation of what was good/missing",
    "key_points_hit": ["point1", "point2"],
    "key_points_missed": ["point3"]
}`

// GeneratedQuestion is one raw question from the session quiz generator.
type GeneratedQuestion struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Concept       string   `json:"concept"`
	Difficulty    string   `json:"difficulty"`
	Explanation   string   `json:"explanation"`
}

// SessionQuizResult is the generated active-recall quiz for a session.
type SessionQuizResult struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// ShortAnswerGrade is the grading verdict for one open-ended answer.
type ShortAnswerGrade struct {
	IsCorrect       bool     `json:"is_correct"`
	Score           float64  `json:"score"`
	Feedback        string   `json:"feedback"`
	KeyPointsHit    []string `json:"key_points_hit"`
	KeyPointsMissed []string `json:"key_points_missed"`
}

// GenerateSessionQuiz creates an active-recall quiz for a daily session.
// avgScore steers difficulty; pass a negative value when no history exists.
func (c *Client) GenerateSessionQuiz(ctx context.Context, sessionTitle, sessionContent string, concepts []string, avgScore float64) *SessionQuizResult {
	difficultyNote := ""
	switch {
	case avgScore > 85:
		difficultyNote = "User has been performing well. Include more challenging questions."
	case avgScore >= 0 && avgScore < 60:
		difficultyNote = "User has been struggling. Focus on foundational questions."
	}

	prompt := fmt.Sprintf(`Generate a quiz for the following learning session:

Session Title: %s

Content Covered:
%s

Key Concepts to Test: %s

%s

Create 5-7 diverse questions that test understanding of the material.
Return the quiz as a valid JSON object with the questions array.`,
		sessionTitle, truncate(sessionContent, 3000), strings.Join(concepts, ", "), difficultyNote)

	var result SessionQuizResult
	err := c.generateJSON(ctx, c.generationModel, sessionQuizSystemPrompt, prompt, 0.7, &result)
	if err != nil || len(result.Questions) == 0 {
		c.log.Warn("session quiz generation fell back", zap.Error(err))
		return fallbackSessionQuiz(concepts)
	}

	return &result
}

// GradeShortAnswer grades one open-ended answer against the expected key points.
func (c *Client) GradeShortAnswer(ctx context.Context, question, expectedAnswer, userAnswer, concept string) *ShortAnswerGrade {
	prompt := fmt.Sprintf(`Grade this answer:

Question: %s
Expected Answer: %s
User's Answer: %s
Concept Being Tested: %s

Evaluate and return a JSON grade.`, question, expectedAnswer, userAnswer, concept)

	var result ShortAnswerGrade
	err := c.generateJSON(ctx, c.generationModel, answerGraderSystemPrompt, prompt, 0.3, &result)
	if err != nil {
		c.log.Warn("short answer grading fell back", zap.Error(err))
		return &ShortAnswerGrade{
			Score:           0.5,
			Feedback:        "Unable to grade automatically. Answer noted for review.",
			KeyPointsHit:    []string{},
			KeyPointsMissed: []string{},
		}
	}

	return &result
}

func fallbackSessionQuiz(concepts []string) *SessionQuizResult {
	var questions []GeneratedQuestion

	for i, concept := range concepts {
		if i >= 5 {
			break
		}
		questions = append(questions, GeneratedQuestion{
			Type:     "multiple_choice",
			Question: fmt.Sprintf("Which of the following best describes %s?", concept),
			Options: []string{
				fmt.Sprintf("A common application of %s", concept),
				fmt.Sprintf("The core principle of %s", concept),
				"An unrelated concept",
				fmt.Sprintf("A prerequisite for %s", concept),
			},
			CorrectAnswer: fmt.Sprintf("The core principle of %s", concept),
			Concept:       concept,
			Difficulty:    "medium",
			Explanation:   fmt.Sprintf("This tests understanding of %s.", concept),
		})
	}

	if len(concepts) > 0 {
		questions = append(questions, GeneratedQuestion{
			Type:          "true_false",
			Question:      fmt.Sprintf("%s is a fundamental concept in this learning path.", concepts[0]),
			CorrectAnswer: "true",
			Concept:       concepts[0],
			Difficulty:    "easy",
			Explanation:   fmt.Sprintf("%s is indeed a core concept covered today.", concepts[0]),
		})
	}

	return &SessionQuizResult{Questions: questions}
}
