package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/config"
)

func newFallbackClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(context.Background(), &config.Config{
		GenerationModel:   "gemini-2.5-flash-lite",
		RegenerationModel: "gemini-2.5-pro",
	}, zap.NewNop())
	require.NoError(t, err)
	require.False(t, c.Available())
	return c
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json untouched", `{"a": 1}`, `{"a": 1}`},
		{"json fence removed", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence removed", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace trimmed", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel", truncate("hello", 3))
	assert.Equal(t, "", truncate("", 5))
}

func TestFallbackAgents(t *testing.T) {
	c := newFallbackClient(t)
	ctx := context.Background()

	t.Run("feasibility approves with generic feedback", func(t *testing.T) {
		res := c.AnalyzeFeasibility(ctx, "learn spanish", "learning", "beginner", "daily")
		assert.True(t, res.IsFeasible)
		assert.Equal(t, "Your plan looks solid! Consistency is key.", res.Feedback)
		assert.Nil(t, res.Suggestion)
		assert.Equal(t, "2-week streak", res.StreakTrigger)
	})

	t.Run("roadmap has four ordered milestones", func(t *testing.T) {
		res := c.GenerateRoadmap(ctx, "learn spanish", "learning", "beginner", "daily")
		require.Len(t, res.Milestones, 4)
		for i, m := range res.Milestones {
			assert.Equal(t, i+1, m.Order)
			assert.NotEmpty(t, m.Title)
			assert.NotEmpty(t, m.VerificationCriteria)
			assert.Equal(t, 2, m.EstimatedWeeks)
		}
	})

	t.Run("verification quiz has three generic questions", func(t *testing.T) {
		res := c.GenerateVerificationQuiz(ctx, "read chapter 3", "", "learn spanish", nil)
		require.Len(t, res.Questions, 3)
		assert.Equal(t, 1, res.Questions[0].ID)
		assert.Equal(t, 3, res.Questions[2].ID)
	})

	t.Run("grading passes with a neutral score", func(t *testing.T) {
		res := c.GradeVerificationQuiz(ctx, nil, nil, "learn spanish")
		assert.True(t, res.Passed)
		assert.InDelta(t, 0.5, res.OverallScore, 1e-9)
		assert.Empty(t, res.ConceptsToReinforce)
	})
}
