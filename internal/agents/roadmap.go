package agents

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/domain/entities"
)

const roadmapSystemPrompt = `You are an expert learning architect who creates personalized milestone-based roadmaps.

Your task is to generate a learning roadmap with milestones based on the user's goal, skill level, cadence, and learning sources.

Rules:
1. Create 4-12 milestones depending on the goal complexity
2. Each milestone should be achievable within 1-4 weeks
3. Include clear verification criteria for each milestone
4. Verification criteria should be things the learner can demonstrate (explain, apply, create)
5. Consider the user's current skill level when setting expectations
6. Adapt the number of milestones based on cadence (weekly = more spread out, daily = denser)

Return a JSON object with this structure:
{
  "milestones": [
    {
      "order": 1,
      "title": "Foundation: Understanding Core Concepts",
      "description": "What this milestone covers and why it matters",
      "verification_criteria": "Be able to explain X in your own words / Create Y / Demonstrate Z",
      "estimated_weeks": 2
    }
  ],
  "skill_assessment": "beginner|intermediate|advanced",
  "total_estimated_weeks": 12
}`

const livingRoadmapSystemPrompt = `You are an adaptive learning coach who adjusts roadmaps based on user progress.

Your task is to review the user's progress and suggest updates to their learning roadmap.

Rules:
1. Preserve completed milestones - don't change what's done
2. Adjust remaining milestones based on actual progress speed
3. If user is ahead, can suggest adding depth or advanced topics
4. If user is behind, suggest simplifying or extending timelines
5. Always maintain motivation - frame adjustments positively
6. Consider quiz scores and verification data in adjustments

Return a JSON object with:
{
  "adjustments": [{
    "milestone_order": 2,
    "adjustment_type": "modify|remove|add",
    "reason": "Why this change",
    "updated_milestone": {...} // if modify or add
  }],
  "overall_assessment": "On track|Ahead|Needs adjustment",
  "encouragement": "Motivational message based on progress"
}`

// RoadmapMilestone is one generated milestone.
type RoadmapMilestone struct {
	Order                int    `json:"order"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	VerificationCriteria string `json:"verification_criteria"`
	EstimatedWeeks       int    `json:"estimated_weeks"`
}

// RoadmapResult is the generated roadmap for a resolution.
type RoadmapResult struct {
	Milestones          []RoadmapMilestone `json:"milestones"`
	SkillAssessment     string             `json:"skill_assessment"`
	TotalEstimatedWeeks int                `json:"total_estimated_weeks"`
}

// RoadmapAdjustment is a single suggested change to the roadmap.
type RoadmapAdjustment struct {
	MilestoneOrder    int               `json:"milestone_order"`
	AdjustmentType    string            `json:"adjustment_type"`
	Reason            string            `json:"reason"`
	UpdatedMilestone  *RoadmapMilestone `json:"updated_milestone,omitempty"`
}

// LivingRoadmapUpdate is a progress-aware review of the roadmap.
type LivingRoadmapUpdate struct {
	Adjustments       []RoadmapAdjustment `json:"adjustments"`
	OverallAssessment string              `json:"overall_assessment"`
	Encouragement     string              `json:"encouragement"`
}

func cadenceDescription(cadence string) string {
	switch cadence {
	case entities.CadenceDaily:
		return "Learning daily (7 days/week)"
	case entities.CadenceThreePerWeek:
		return "Learning 3 times per week"
	case entities.CadenceWeekdays:
		return "Learning on weekdays only (5 days/week)"
	case entities.CadenceWeekly:
		return "Learning once per week"
	}
	return "Learning regularly"
}

// GenerateRoadmap creates a milestone roadmap for a new resolution.
func (c *Client) GenerateRoadmap(ctx context.Context, goal, category, skillLevel, cadence string) *RoadmapResult {
	level := skillLevel
	if level == "" {
		level = "Not specified - please assess from the goal"
	}

	prompt := fmt.Sprintf(`Create a personalized learning roadmap for this goal:

GOAL: %s

CATEGORY: %s

CURRENT SKILL LEVEL: %s

LEARNING CADENCE: %s

Generate a milestone-based roadmap that will guide this learner to achieve their goal.
Each milestone should have clear, demonstrable verification criteria.`,
		goal, category, level, cadenceDescription(cadence))

	var result RoadmapResult
	err := c.generateJSON(ctx, c.generationModel, roadmapSystemPrompt, prompt, 0.7, &result)
	if err != nil || len(result.Milestones) == 0 {
		c.log.Warn("roadmap generation fell back", zap.Error(err))
		return fallbackRoadmap(goal, cadence)
	}

	return &result
}

// RegenerateRoadmapWithFeedback rebuilds the roadmap after a thumbs-down,
// using the stronger model.
func (c *Client) RegenerateRoadmapWithFeedback(ctx context.Context, goal, category, skillLevel, cadence string, originalTitles []string, feedback string) *RoadmapResult {
	level := skillLevel
	if level == "" {
		level = "Not specified"
	}

	prompt := fmt.Sprintf(`The user didn't like this roadmap:
ORIGINAL MILESTONES: %s

USER FEEDBACK: %s

Create a BETTER roadmap for:
GOAL: %s
CATEGORY: %s
SKILL LEVEL: %s
CADENCE: %s

Address the user's specific concerns and create an improved roadmap.`,
		strings.Join(originalTitles, ", "), feedback, goal, category, level, cadence)

	var result RoadmapResult
	err := c.generateJSON(ctx, c.regenerationModel, roadmapSystemPrompt, prompt, 1.0, &result)
	if err != nil || len(result.Milestones) == 0 {
		c.log.Warn("roadmap regeneration fell back", zap.Error(err))
		return fallbackRoadmap(goal, cadence)
	}

	return &result
}

// MilestoneRefinement is the agent's review of a user-edited milestone.
type MilestoneRefinement struct {
	RefinedTitle       string `json:"refined_title"`
	RefinedDescription string `json:"refined_description"`
	RefinedCriteria    string `json:"refined_criteria"`
	Suggestion         string `json:"suggestion,omitempty"`
}

// RefineMilestone sanity-checks a user's manual milestone edit. On failure
// the edit is kept as-is.
func (c *Client) RefineMilestone(ctx context.Context, originalTitle, editedTitle, editedDescription, editedCriteria, goalContext string) *MilestoneRefinement {
	prompt := fmt.Sprintf(`The user has edited a milestone in their learning roadmap.

Original Milestone: %s
User's Changes: title=%q description=%q criteria=%q
Goal Context: %s

Ensure the edited milestone still makes sense and suggest any improvements if needed.
Return JSON with: {"refined_title": "...", "refined_description": "...", "refined_criteria": "...", "suggestion": "optional note"}`,
		originalTitle, editedTitle, editedDescription, editedCriteria, goalContext)

	var result MilestoneRefinement
	err := c.generateJSON(ctx, c.generationModel, "", prompt, 0.5, &result)
	if err != nil || result.RefinedTitle == "" {
		c.log.Warn("milestone refinement fell back", zap.Error(err))
		return &MilestoneRefinement{
			RefinedTitle:       editedTitle,
			RefinedDescription: editedDescription,
			RefinedCriteria:    editedCriteria,
		}
	}

	return &result
}

// GenerateLivingRoadmapUpdate reviews progress and suggests roadmap changes.
func (c *Client) GenerateLivingRoadmapUpdate(
	ctx context.Context,
	resolution *entities.Resolution,
	milestones []*entities.Milestone,
	logs []*entities.ProgressLog,
	streak *entities.Streak,
	verificationScores []float64,
) *LivingRoadmapUpdate {
	var b strings.Builder
	for _, m := range milestones {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", m.Status, m.Title, truncate(m.Description, 100))
	}
	milestoneSummary := b.String()

	b.Reset()
	for i, log := range logs {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "- %s...\n", truncate(log.Content, 80))
	}
	progressSummary := b.String()

	verificationContext := ""
	if len(verificationScores) > 0 {
		var sum float64
		for _, s := range verificationScores {
			sum += s
		}
		verificationContext = fmt.Sprintf("\nRecent quiz scores average: %.1f%%", sum/float64(len(verificationScores))*100)
	}

	prompt := fmt.Sprintf(`Review and update this learning roadmap:

GOAL: %s
CATEGORY: %s
CADENCE: %s

CURRENT MILESTONES:
%s

RECENT PROGRESS:
%s
%s

STREAK: %d days (longest: %d)

Analyze the progress and suggest any roadmap adjustments needed.`,
		resolution.GoalStatement, resolution.Category, resolution.Cadence,
		milestoneSummary, progressSummary, verificationContext,
		streak.CurrentStreak, streak.LongestStreak)

	var result LivingRoadmapUpdate
	err := c.generateJSON(ctx, c.generationModel, livingRoadmapSystemPrompt, prompt, 0.6, &result)
	if err != nil {
		c.log.Warn("living roadmap update fell back", zap.Error(err))
		return &LivingRoadmapUpdate{
			Adjustments:       []RoadmapAdjustment{},
			OverallAssessment: "On track",
			Encouragement:     "Keep up the great work!",
		}
	}

	return &result
}

func fallbackRoadmap(goal, cadence string) *RoadmapResult {
	weeks := 4
	switch cadence {
	case entities.CadenceDaily:
		weeks = 2
	case entities.CadenceThreePerWeek, entities.CadenceWeekdays:
		weeks = 3
	}

	return &RoadmapResult{
		Milestones: []RoadmapMilestone{
			{
				Order:                1,
				Title:                "Foundation: Getting Started",
				Description:          fmt.Sprintf("Build foundational understanding of %s", truncate(goal, 50)),
				VerificationCriteria: "Explain the core concepts in your own words",
				EstimatedWeeks:       weeks,
			},
			{
				Order:                2,
				Title:                "Building Knowledge",
				Description:          "Deepen understanding with active practice",
				VerificationCriteria: "Apply concepts to a simple example or scenario",
				EstimatedWeeks:       weeks,
			},
			{
				Order:                3,
				Title:                "Intermediate Application",
				Description:          "Connect concepts and build practical skills",
				VerificationCriteria: "Complete a small project or demonstrate integrated understanding",
				EstimatedWeeks:       weeks,
			},
			{
				Order:                4,
				Title:                "Advanced Mastery",
				Description:          "Achieve fluency and deeper expertise",
				VerificationCriteria: "Teach the concepts to someone else or create something original",
				EstimatedWeeks:       weeks,
			},
		},
		SkillAssessment:     entities.SkillBeginner,
		TotalEstimatedWeeks: weeks * 4,
	}
}

// CalculateGoalLikelihood estimates the chance of achieving the goal in
// [0, 1]. Weights: streak consistency 30%, milestone completion 30%,
// check-in frequency 20%, verification scores 20%.
func CalculateGoalLikelihood(streak *entities.Streak, milestones []*entities.Milestone, recentLogCount int, verificationScores []float64) float64 {
	score := 0.0

	longest := streak.LongestStreak
	if longest < 7 {
		longest = 7
	}
	score += 0.3 * math.Min(float64(streak.CurrentStreak)/float64(longest), 1.0)

	completed := 0
	for _, m := range milestones {
		if m.Status == entities.MilestoneCompleted {
			completed++
		}
	}
	total := len(milestones)
	if total == 0 {
		total = 1
	}
	score += 0.3 * float64(completed) / float64(total)

	score += 0.2 * math.Min(float64(recentLogCount)/7.0, 1.0)

	if len(verificationScores) > 0 {
		var sum float64
		for _, s := range verificationScores {
			sum += s
		}
		score += 0.2 * sum / float64(len(verificationScores))
	} else {
		score += 0.2 * 0.5
	}

	return math.Round(score*100) / 100
}

// NextRefreshDate computes when the roadmap should be reviewed again.
// Daily cadence refreshes weekly, 3x_week and weekdays biweekly, weekly
// monthly. The result is always in the future.
func NextRefreshDate(cadence string, lastRefresh *time.Time, now time.Time) time.Time {
	var interval time.Duration
	switch cadence {
	case entities.CadenceDaily:
		interval = 7 * 24 * time.Hour
	case entities.CadenceWeekly:
		interval = 28 * 24 * time.Hour
	default:
		interval = 14 * 24 * time.Hour
	}

	base := now
	if lastRefresh != nil {
		base = *lastRefresh
	}

	next := base.Add(interval)
	if !next.After(now) {
		next = now.Add(interval)
	}

	return next
}
