package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/domain/entities"
)

const syllabusSystemPrompt = `You are an expert curriculum designer and learning specialist. Your task is to create
a personalized, structured learning syllabus based on the user's learning goal and available content.

When generating a syllabus:
1. Analyze the learning goal and time commitment
2. Review the available content from the knowledge base
3. Design a progressive curriculum that builds concepts incrementally
4. Ensure each day focuses on digestible, micro-learning chunks
5. Include specific concepts to be covered each day
6. Estimate realistic time for each session

Output Format (JSON):
{
    "title": "Syllabus title",
    "total_days": number,
    "days": [
        {
            "day": 1,
            "title": "Day title",
            "description": "What will be learned",
            "concepts": ["concept1", "concept2"],
            "estimated_minutes": 30
        }
    ],
    "learning_objectives": ["objective1", "objective2"],
    "prerequisites": []
}

Make the syllabus engaging, progressive, and achievable within the daily time limit.`

// SyllabusResult is a generated day-by-day curriculum.
type SyllabusResult struct {
	Title              string                 `json:"title"`
	TotalDays          int                    `json:"total_days"`
	Days               []entities.SyllabusDay `json:"days"`
	LearningObjectives []string               `json:"learning_objectives"`
	Prerequisites      []string               `json:"prerequisites"`
}

// GenerateSyllabus creates a day-by-day curriculum for a learning goal.
// contentSummary carries context from the user's uploaded materials.
func (c *Client) GenerateSyllabus(ctx context.Context, goal string, durationDays, dailyMinutes int, contentSummary string) *SyllabusResult {
	contentNote := "Note: User will upload learning materials. Design a general structure that can be adapted."
	if contentSummary != "" {
		contentNote = "Content Available: " + contentSummary
	}

	prompt := fmt.Sprintf(`Create a %d-day learning syllabus for the following goal:

Goal: %s

Daily Time Commitment: %d minutes

%s

Please generate a comprehensive, day-by-day syllabus that will help the user achieve their learning goal.
Return the syllabus as a valid JSON object.`, durationDays, goal, dailyMinutes, contentNote)

	var result SyllabusResult
	err := c.generateJSON(ctx, c.generationModel, syllabusSystemPrompt, prompt, 0.7, &result)
	if err != nil || len(result.Days) == 0 {
		c.log.Warn("syllabus generation fell back", zap.Error(err))
		return fallbackSyllabus(goal, durationDays, dailyMinutes)
	}

	return &result
}

func fallbackSyllabus(goal string, days, minutes int) *SyllabusResult {
	items := make([]entities.SyllabusDay, 0, days)
	for i := 1; i <= days; i++ {
		phase := "Mastery"
		switch {
		case i <= days/3:
			phase = "Foundation"
		case i <= 2*days/3:
			phase = "Building"
		}
		items = append(items, entities.SyllabusDay{
			Day:              i,
			Title:            fmt.Sprintf("Day %d: %s Phase", i, phase),
			Description:      fmt.Sprintf("Continue learning journey - %s concepts", phase),
			Concepts:         []string{fmt.Sprintf("concept_%d_a", i), fmt.Sprintf("concept_%d_b", i)},
			EstimatedMinutes: minutes,
		})
	}

	return &SyllabusResult{
		Title:              fmt.Sprintf("Learning Journey: %s...", truncate(goal, 50)),
		TotalDays:          days,
		Days:               items,
		LearningObjectives: []string{"Understand core concepts", "Apply knowledge practically"},
		Prerequisites:      []string{},
	}
}
