package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neuroresolv/backend/internal/domain/entities"
)

func TestCreateInputValidate(t *testing.T) {
	valid := CreateInput{
		GoalStatement: "Learn conversational Spanish this year",
		Category:      entities.CategoryLearning,
		Cadence:       entities.CadenceDaily,
	}

	t.Run("valid input passes", func(t *testing.T) {
		assert.NoError(t, valid.validate())
	})

	t.Run("goal too short", func(t *testing.T) {
		in := valid
		in.GoalStatement = "too short"
		assert.ErrorIs(t, in.validate(), ErrValidation)
	})

	t.Run("goal too long", func(t *testing.T) {
		in := valid
		in.GoalStatement = string(make([]byte, 1001))
		assert.ErrorIs(t, in.validate(), ErrValidation)
	})

	t.Run("unknown category", func(t *testing.T) {
		in := valid
		in.Category = "gardening"
		assert.ErrorIs(t, in.validate(), ErrValidation)
	})

	t.Run("unknown cadence", func(t *testing.T) {
		in := valid
		in.Cadence = "fortnightly"
		assert.ErrorIs(t, in.validate(), ErrValidation)
	})

	t.Run("unknown skill level", func(t *testing.T) {
		in := valid
		level := "grandmaster"
		in.SkillLevel = &level
		assert.ErrorIs(t, in.validate(), ErrValidation)
	})

	t.Run("known skill level passes", func(t *testing.T) {
		in := valid
		level := entities.SkillIntermediate
		in.SkillLevel = &level
		assert.NoError(t, in.validate())
	})
}
