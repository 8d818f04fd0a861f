package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/domain/entities"
)

const northStarSystemPrompt = `You are a life coach who helps people envision their best selves.

Your task is to generate an inspiring "North Star" goal - a vision of who the person will become by the end of the year through their resolution journey.

This is NOT about completing tasks. This is about TRANSFORMATION and BECOMING.

Key principles:
1. Focus on the PERSON they'll become, not the tasks they'll complete
2. Emphasize habit formation and lifestyle change
3. Connect the resolution to broader life improvements
4. Be inspiring but realistic - grounded in their starting point
5. Paint a vivid picture of their future self
6. Include the identity shift (e.g., "I am a reader" not "I read books")

Return a JSON object with this structure:
{
  "north_star_statement": "A vivid, inspiring 2-3 sentence description of who they'll become",
  "key_transformations": ["3-4 specific ways their life will be different"],
  "identity_shift": "The new identity they'll embody (e.g., 'I am a confident Spanish speaker')",
  "why_it_matters": "1 sentence on the deeper meaning of this transformation"
}`

const northStarRegenerationPrompt = `You are a life coach who helps people envision their best selves.

The user didn't connect with the previous North Star goal. Their feedback was provided.
Generate a NEW vision that resonates better with their aspirations.

Maybe the previous one was:
- Too ambitious or not ambitious enough
- Too vague or too specific
- Not aligned with their actual motivation
- Missing the emotional connection

Address their concerns and create a vision they'll be excited to pursue.

Return a JSON object with this structure:
{
  "north_star_statement": "A vivid, inspiring 2-3 sentence description of who they'll become",
  "key_transformations": ["3-4 specific ways their life will be different"],
  "identity_shift": "The new identity they'll embody",
  "why_it_matters": "1 sentence on the deeper meaning of this transformation"
}`

// NorthStarResult is a generated end-of-year transformation vision.
type NorthStarResult struct {
	NorthStarStatement string   `json:"north_star_statement"`
	KeyTransformations []string `json:"key_transformations"`
	IdentityShift      string   `json:"identity_shift"`
	WhyItMatters       string   `json:"why_it_matters"`
}

// GenerateNorthStar creates the end-of-year vision for a resolution.
func (c *Client) GenerateNorthStar(ctx context.Context, resolution *entities.Resolution, milestones []*entities.Milestone, targetDate string) *NorthStarResult {
	level := ""
	if resolution.SkillLevel != nil {
		level = *resolution.SkillLevel
	}
	if level == "" {
		level = "Beginning their journey"
	}

	var milestonesContext strings.Builder
	if len(milestones) > 0 {
		milestonesContext.WriteString("\nTheir learning roadmap includes:\n")
		for i, m := range milestones {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&milestonesContext, "- %s\n", m.Title)
		}
	}

	prompt := fmt.Sprintf(`Create a North Star goal for this person:

THEIR RESOLUTION: %s
CATEGORY: %s
CURRENT LEVEL: %s
%s

TARGET DATE: %s

Generate an inspiring vision of who they'll become by the end of the year.
Focus on transformation and identity, not tasks completed.`,
		resolution.GoalStatement, resolution.Category, level,
		milestonesContext.String(), targetDate)

	var result NorthStarResult
	err := c.generateJSON(ctx, c.generationModel, northStarSystemPrompt, prompt, 0.8, &result)
	if err != nil || result.NorthStarStatement == "" {
		c.log.Warn("north star generation fell back", zap.Error(err))
		return fallbackNorthStar(resolution.Category)
	}

	return &result
}

// RegenerateNorthStarWithFeedback rebuilds the vision after a thumbs-down,
// using the stronger model.
func (c *Client) RegenerateNorthStarWithFeedback(ctx context.Context, resolution *entities.Resolution, original, feedback string) *NorthStarResult {
	level := ""
	if resolution.SkillLevel != nil {
		level = *resolution.SkillLevel
	}
	if level == "" {
		level = "Beginning their journey"
	}

	prompt := fmt.Sprintf(`The user didn't connect with this North Star vision:
ORIGINAL: %s

USER FEEDBACK: %s

Create a BETTER North Star for this resolution:

RESOLUTION: %s
CATEGORY: %s
CURRENT LEVEL: %s

Address their concerns and create a vision they'll be excited about.`,
		original, feedback, resolution.GoalStatement, resolution.Category, level)

	var result NorthStarResult
	err := c.generateJSON(ctx, c.regenerationModel, northStarRegenerationPrompt, prompt, 0.8, &result)
	if err != nil || result.NorthStarStatement == "" {
		c.log.Warn("north star regeneration fell back", zap.Error(err))
		return fallbackNorthStar(resolution.Category)
	}

	return &result
}

func fallbackNorthStar(category string) *NorthStarResult {
	identities := map[string]string{
		entities.CategoryLearning:     "lifelong learner",
		entities.CategoryReading:      "dedicated reader",
		entities.CategorySkill:        "skilled practitioner",
		entities.CategoryFitness:      "active and healthy person",
		entities.CategoryProfessional: "confident professional",
		entities.CategoryCreative:     "creative individual",
	}

	identity, ok := identities[category]
	if !ok {
		identity = "transformed individual"
	}

	return &NorthStarResult{
		NorthStarStatement: fmt.Sprintf("By year's end, you'll have built the habits and knowledge that make you a %s. The daily practice will feel natural, and the results will be undeniable.", identity),
		KeyTransformations: []string{
			"You'll have overcome initial resistance and built consistency",
			"Your knowledge and skills will have compounded significantly",
			"You'll see yourself differently - as someone who does this",
			"Others will notice and ask about your journey",
		},
		IdentityShift: fmt.Sprintf("I am a %s who shows up consistently", identity),
		WhyItMatters:  "This journey is about becoming the person who naturally achieves goals like this.",
	}
}
