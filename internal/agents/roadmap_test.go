package agents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neuroresolv/backend/internal/domain/entities"
)

func TestCalculateGoalLikelihood(t *testing.T) {
	completed := &entities.Milestone{Status: entities.MilestoneCompleted}
	pending := &entities.Milestone{Status: entities.MilestonePending}

	tests := []struct {
		name       string
		streak     *entities.Streak
		milestones []*entities.Milestone
		recentLogs int
		scores     []float64
		want       float64
	}{
		{
			name:   "fresh resolution gets the neutral verification baseline",
			streak: entities.NewStreak(1),
			want:   0.1,
		},
		{
			name:       "everything maxed out scores one",
			streak:     &entities.Streak{CurrentStreak: 7, LongestStreak: 7},
			milestones: []*entities.Milestone{completed, completed},
			recentLogs: 7,
			scores:     []float64{1.0},
			want:       1.0,
		},
		{
			name:       "partial progress is weighted per component",
			streak:     &entities.Streak{CurrentStreak: 3, LongestStreak: 10},
			milestones: []*entities.Milestone{completed, pending},
			recentLogs: 7,
			scores:     []float64{0.8, 0.6},
			want:       0.58,
		},
		{
			name:   "result is rounded to two decimals",
			streak: &entities.Streak{CurrentStreak: 1, LongestStreak: 1},
			want:   0.14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateGoalLikelihood(tt.streak, tt.milestones, tt.recentLogs, tt.scores)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNextRefreshDate(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

	t.Run("interval depends on cadence", func(t *testing.T) {
		assert.Equal(t, now.AddDate(0, 0, 7), NextRefreshDate(entities.CadenceDaily, nil, now))
		assert.Equal(t, now.AddDate(0, 0, 14), NextRefreshDate(entities.CadenceThreePerWeek, nil, now))
		assert.Equal(t, now.AddDate(0, 0, 14), NextRefreshDate(entities.CadenceWeekdays, nil, now))
		assert.Equal(t, now.AddDate(0, 0, 28), NextRefreshDate(entities.CadenceWeekly, nil, now))
	})

	t.Run("recent refresh anchors the next one", func(t *testing.T) {
		last := now.AddDate(0, 0, -2)
		assert.Equal(t, last.AddDate(0, 0, 7), NextRefreshDate(entities.CadenceDaily, &last, now))
	})

	t.Run("stale refresh never yields a past date", func(t *testing.T) {
		last := now.AddDate(0, 0, -30)
		next := NextRefreshDate(entities.CadenceDaily, &last, now)
		assert.True(t, next.After(now))
		assert.Equal(t, now.AddDate(0, 0, 7), next)
	})
}
