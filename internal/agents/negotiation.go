package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const negotiationSystemPrompt = `You are a behavioral scientist and learning coach specialized in habit formation and goal setting.
Your task is to perform a 'Reality Check' on a user's proposed learning resolution.

Analyze the feasibility of the goal based on:
1. Goal Statement: What they want to achieve.
2. Skill Level: Their current expertise.
3. Cadence: How often they plan to work on it.

Rules for your analysis:
- Be encouraging but realistic.
- Identify potential burn-out risks (e.g., Beginners selecting 'Daily' for difficult skills like coding or languages).
- If a plan seems too ambitious for a beginner, suggest a more sustainable starting point (e.g., 3x/week instead of Daily).
- Use data-driven insights if possible (e.g., '80% of people burn out in Week 2 with this schedule').
- Keep the tone friendly and supportive, like a mentor.

Return a JSON object with this structure:
{
  "is_feasible": true|false,
  "feedback": "A short, impactful explanation of why it is or isn't feasible and what the risks are.",
  "suggestion": {
    "cadence": "daily|3x_week|weekdays|weekly",
    "reason": "Why this specific cadence is better."
  },
  "streak_trigger": "e.g., 2-week streak"
}`

// CadenceSuggestion is an alternative cadence proposed by the negotiation agent.
type CadenceSuggestion struct {
	Cadence string `json:"cadence"`
	Reason  string `json:"reason"`
}

// FeasibilityResult is the negotiation agent's reality check on a resolution.
type FeasibilityResult struct {
	IsFeasible    bool               `json:"is_feasible"`
	Feedback      string             `json:"feedback"`
	Suggestion    *CadenceSuggestion `json:"suggestion"`
	StreakTrigger string             `json:"streak_trigger"`
}

// AnalyzeFeasibility runs a reality check on a proposed resolution. The
// result is advisory; the resolution is created regardless.
func (c *Client) AnalyzeFeasibility(ctx context.Context, goal, category, skillLevel, cadence string) *FeasibilityResult {
	if skillLevel == "" {
		skillLevel = "Beginner (assumed)"
	}

	prompt := fmt.Sprintf(`Perform a Reality Check on this resolution:

GOAL: %s
CATEGORY: %s
SKILL LEVEL: %s
CADENCE: %s

Is this realistic? If not, what would you suggest instead to ensure they don't burn out and actually achieve the goal?`,
		goal, category, skillLevel, cadence)

	var result FeasibilityResult
	err := c.generateJSON(ctx, c.generationModel, negotiationSystemPrompt, prompt, 0.7, &result)
	if err != nil {
		c.log.Warn("feasibility analysis fell back", zap.Error(err))
		return &FeasibilityResult{
			IsFeasible:    true,
			Feedback:      "Your plan looks solid! Consistency is key.",
			StreakTrigger: "2-week streak",
		}
	}

	return &result
}
