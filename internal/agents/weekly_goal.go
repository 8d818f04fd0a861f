package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/domain/entities"
)

const weeklyGoalSystemPrompt = `You are a motivational coach who creates focused, achievable weekly goals.

Your task is to generate a single, clear goal for the upcoming week that helps the user make meaningful progress on their resolution.

Rules:
1. The goal should be achievable within 7 days regardless of the user's cadence
2. Consider the user's current skill level and recent progress
3. If the user has multiple resolutions, balance time commitment across them
4. Be specific and actionable - avoid vague goals
5. The goal should feel motivating, not overwhelming
6. Focus on the process/habit, not just the outcome

Return a JSON object with this structure:
{
  "goal_text": "A clear, actionable weekly goal (1-2 sentences)",
  "micro_actions": ["3-5 small daily actions that support this goal"],
  "motivation_note": "A brief encouraging message (1 sentence)"
}`

const weeklyGoalRegenerationPrompt = `You are a motivational coach who creates focused, achievable weekly goals.

The user didn't like the previous suggestion. Their feedback was provided.
Generate a NEW, improved goal that addresses their concerns.

Be more specific, more realistic, or adjust the difficulty based on their feedback.
Consider what they explicitly mentioned as problems.

Return a JSON object with this structure:
{
  "goal_text": "A clear, actionable weekly goal (1-2 sentences)",
  "micro_actions": ["3-5 small daily actions that support this goal"],
  "motivation_note": "A brief encouraging message (1 sentence)"
}`

const aggregatedFocusSystemPrompt = `You are a high-performance productivity coach.
Your task is to generate a single, cohesive weekly focus statement for a user who has multiple learning resolutions.

Rules:
1. Create a single "Combined Focus" statement (1-2 sentences) that weaves together themes from all active resolutions.
2. Provide 3-5 "Integrated Micro-actions" that help the user make progress on ALL resolutions during the week without feeling overwhelmed.
3. Balance the time commitment - avoid suggesting 7 days of intense work for all resolutions.
4. Focus on the synergy between the goals (e.g., "This week, we're building the habit of deep focus, which will help with both your Spanish and Python goals").
5. The tone should be inspiring, holistic, and realistic.

Return a JSON object with this structure:
{
  "focus_text": "The combined weekly focus statement",
  "micro_actions": ["Action 1", "Action 2", ...],
  "motivation_note": "A summary word of encouragement"
}`

// WeeklyGoalResult is a generated weekly goal for one resolution.
type WeeklyGoalResult struct {
	GoalText       string   `json:"goal_text"`
	MicroActions   []string `json:"micro_actions"`
	MotivationNote string   `json:"motivation_note"`
}

// WeeklyFocusResult is the combined focus across all active resolutions.
type WeeklyFocusResult struct {
	FocusText      string   `json:"focus_text"`
	MicroActions   []string `json:"micro_actions"`
	MotivationNote string   `json:"motivation_note"`
}

func commitmentDescription(cadence string) string {
	switch cadence {
	case entities.CadenceDaily:
		return "7 days/week"
	case entities.CadenceThreePerWeek:
		return "3 times per week"
	case entities.CadenceWeekdays:
		return "5 days/week (Mon-Fri)"
	case entities.CadenceWeekly:
		return "1 day per week"
	}
	return "regularly"
}

// GenerateWeeklyGoal creates this week's goal for a resolution, balanced
// against the user's other active resolutions.
func (c *Client) GenerateWeeklyGoal(ctx context.Context, resolution *entities.Resolution, recentLogs []*entities.ProgressLog, others []*entities.Resolution) *WeeklyGoalResult {
	level := ""
	if resolution.SkillLevel != nil {
		level = *resolution.SkillLevel
	}
	if level == "" {
		level = "Not specified"
	}

	var progressContext strings.Builder
	if len(recentLogs) > 0 {
		progressContext.WriteString("\nRecent progress logs:\n")
		for i, log := range recentLogs {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&progressContext, "- %s\n", truncate(log.Content, 100))
		}
	}

	var otherContext strings.Builder
	if len(others) > 0 {
		otherContext.WriteString("\nOther active resolutions (consider time balance):\n")
		for _, r := range others {
			fmt.Fprintf(&otherContext, "- %s... (%s)\n", truncate(r.GoalStatement, 50), r.Cadence)
		}
	}

	prompt := fmt.Sprintf(`Create a weekly goal for this resolution:

MAIN GOAL: %s
CATEGORY: %s
SKILL LEVEL: %s
COMMITMENT: %s
%s%s

Generate an achievable weekly goal that moves the user towards their main goal.
The goal should be completable within this week and feel motivating.`,
		resolution.GoalStatement, resolution.Category, level,
		commitmentDescription(resolution.Cadence),
		progressContext.String(), otherContext.String())

	var result WeeklyGoalResult
	err := c.generateJSON(ctx, c.generationModel, weeklyGoalSystemPrompt, prompt, 0.7, &result)
	if err != nil || result.GoalText == "" {
		c.log.Warn("weekly goal generation fell back", zap.Error(err))
		return fallbackWeeklyGoal(resolution.GoalStatement, resolution.Cadence)
	}

	return &result
}

// RegenerateWeeklyGoalWithFeedback rebuilds the goal after a thumbs-down,
// using the stronger model.
func (c *Client) RegenerateWeeklyGoalWithFeedback(ctx context.Context, resolution *entities.Resolution, originalGoal, feedback string) *WeeklyGoalResult {
	level := ""
	if resolution.SkillLevel != nil {
		level = *resolution.SkillLevel
	}
	if level == "" {
		level = "Not specified"
	}

	prompt := fmt.Sprintf(`The user didn't like this weekly goal suggestion:
ORIGINAL GOAL: %s

USER FEEDBACK: %s

Create a BETTER weekly goal for this resolution:

MAIN GOAL: %s
CATEGORY: %s
SKILL LEVEL: %s
COMMITMENT: %s

Address the user's concerns and generate an improved goal.`,
		originalGoal, feedback, resolution.GoalStatement, resolution.Category, level, resolution.Cadence)

	var result WeeklyGoalResult
	err := c.generateJSON(ctx, c.regenerationModel, weeklyGoalRegenerationPrompt, prompt, 0.7, &result)
	if err != nil || result.GoalText == "" {
		c.log.Warn("weekly goal regeneration fell back", zap.Error(err))
		return fallbackWeeklyGoal(resolution.GoalStatement, resolution.Cadence)
	}

	return &result
}

// GenerateAggregatedFocus creates a single cross-resolution focus for the week.
func (c *Client) GenerateAggregatedFocus(ctx context.Context, resolutions []*entities.Resolution) *WeeklyFocusResult {
	if len(resolutions) == 0 {
		return &WeeklyFocusResult{
			FocusText:      "No active resolutions to focus on this week.",
			MicroActions:   []string{},
			MotivationNote: "Create your first resolution to get started!",
		}
	}

	var b strings.Builder
	for _, r := range resolutions {
		level := ""
		if r.SkillLevel != nil {
			level = *r.SkillLevel
		}
		fmt.Fprintf(&b, "- Goal: %s\n  Category: %s\n  Cadence: %s\n  Skill Level: %s\n",
			r.GoalStatement, r.Category, r.Cadence, level)
	}

	prompt := fmt.Sprintf(`Generate a combined weekly focus for a user with these active resolutions:

%s

Create a unified strategy that helps them progress on all these goals in a balanced way this week.`, b.String())

	var result WeeklyFocusResult
	err := c.generateJSON(ctx, c.generationModel, aggregatedFocusSystemPrompt, prompt, 0.7, &result)
	if err != nil || result.FocusText == "" {
		c.log.Warn("aggregated focus generation fell back", zap.Error(err))
		return &WeeklyFocusResult{
			FocusText: fmt.Sprintf("This week, let's find a healthy rhythm across your %d goals.", len(resolutions)),
			MicroActions: []string{
				"Schedule specific time blocks for each goal",
				"Start with the goal that feels most exciting today",
				"Keep your daily check-in streak alive",
			},
			MotivationNote: "Consistency is your greatest superpower.",
		}
	}

	return &result
}

func fallbackWeeklyGoal(goal, cadence string) *WeeklyGoalResult {
	var microActions []string
	switch cadence {
	case entities.CadenceDaily:
		microActions = []string{
			"Dedicate 15-30 minutes each day",
			"Track your progress in a journal",
			"Review what you learned before bed",
		}
	case entities.CadenceWeekly:
		microActions = []string{
			"Block 1-2 hours for focused work",
			"Set a specific day and time",
			"Prepare materials in advance",
		}
	default:
		microActions = []string{
			"Set aside focused time on scheduled days",
			"Review progress mid-week",
			"Celebrate small wins",
		}
	}

	return &WeeklyGoalResult{
		GoalText:       fmt.Sprintf("This week, make meaningful progress on: %s...", truncate(goal, 100)),
		MicroActions:   microActions,
		MotivationNote: "Every step forward counts. You've got this!",
	}
}
