package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/domain/entities"
)

const recoverySystemPrompt = `You are an expert learning coach who helps learners recover from failed quizzes.

When a learner fails a verification quiz, you:
1. Analyze what concepts they struggled with
2. Suggest specific review strategies
3. Recommend adjusted approaches for the next session
4. Provide encouragement while being honest about gaps

Return JSON:
{
  "analysis": "What went wrong and why",
  "weak_concepts": ["concept1", "concept2"],
  "review_strategies": [
    {
      "concept": "concept name",
      "strategy": "How to review this",
      "resources": "Suggested resources or approaches"
    }
  ],
  "next_session_focus": "What to focus on next time",
  "encouragement": "Motivational message",
  "should_revisit_milestone": true/false
}`

// ReviewStrategy is one concept-specific recovery suggestion.
type ReviewStrategy struct {
	Concept   string `json:"concept"`
	Strategy  string `json:"strategy"`
	Resources string `json:"resources"`
}

// RecoveryPlan is the coaching response to a failed verification quiz.
type RecoveryPlan struct {
	Analysis               string           `json:"analysis"`
	WeakConcepts           []string         `json:"weak_concepts"`
	ReviewStrategies       []ReviewStrategy `json:"review_strategies"`
	NextSessionFocus       string           `json:"next_session_focus"`
	Encouragement          string           `json:"encouragement"`
	ShouldRevisitMilestone bool             `json:"should_revisit_milestone"`
}

// AnalyzeFailure builds a recovery plan after a failed verification quiz.
func (c *Client) AnalyzeFailure(ctx context.Context, grading *GradingResult, studiedContent string, milestone *entities.Milestone, goalContext string) *RecoveryPlan {
	milestoneTitle := "Unknown"
	milestoneCriteria := "Not specified"
	if milestone != nil {
		milestoneTitle = milestone.Title
		milestoneCriteria = milestone.VerificationCriteria
	}

	prompt := fmt.Sprintf(`A learner failed their verification quiz. Help them recover.

QUIZ RESULTS:
Overall Score: %.0f%%
Summary: %s
Concepts to Reinforce: %s

WHAT THEY STUDIED: %s

CURRENT MILESTONE: %s
Milestone Goal: %s

OVERALL GOAL: %s

Provide recovery strategies and next steps.`,
		grading.OverallScore*100,
		grading.SummaryFeedback,
		strings.Join(grading.ConceptsToReinforce, ", "),
		truncate(studiedContent, 500),
		milestoneTitle, milestoneCriteria, goalContext)

	var result RecoveryPlan
	err := c.generateJSON(ctx, c.generationModel, recoverySystemPrompt, prompt, 0.6, &result)
	if err != nil {
		c.log.Warn("failure recovery fell back", zap.Error(err))
		return &RecoveryPlan{
			Analysis:     "Unable to analyze specifics, but continued practice will help.",
			WeakConcepts: grading.ConceptsToReinforce,
			ReviewStrategies: []ReviewStrategy{
				{
					Concept:   "general",
					Strategy:  "Review the material again with focus on explaining concepts out loud",
					Resources: "Re-read the source material and take notes",
				},
			},
			NextSessionFocus: "Spend extra time on the concepts you struggled with",
			Encouragement:    "Learning takes time! Every attempt makes you stronger.",
		}
	}

	return &result
}
