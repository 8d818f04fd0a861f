package entities

import "time"

// Goal categories.
const (
	CategoryLearning     = "learning"
	CategoryReading      = "reading"
	CategorySkill        = "skill"
	CategoryFitness      = "fitness"
	CategoryProfessional = "professional"
	CategoryCreative     = "creative"
)

// Cadences describe how often the user commits to working on a resolution.
const (
	CadenceDaily        = "daily"
	CadenceThreePerWeek = "3x_week"
	CadenceWeekdays     = "weekdays"
	CadenceWeekly       = "weekly"
)

// Skill levels.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Resolution statuses.
const (
	ResolutionActive    = "active"
	ResolutionPaused    = "paused"
	ResolutionCompleted = "completed"
	ResolutionAbandoned = "abandoned"
)

// Roadmap modes. In manual mode the user owns the milestones; in streak_only
// mode the resolution is tracked without a roadmap at all.
const (
	RoadmapModeAI         = "ai_generated"
	RoadmapModeManual     = "manual"
	RoadmapModeStreakOnly = "streak_only"
)

// Resolution is a user's tracked goal.
type Resolution struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"user_id"`
	GoalStatement       string     `json:"goal_statement"`
	Category            string     `json:"category"`
	SkillLevel          *string    `json:"skill_level"`
	Cadence             string     `json:"cadence"`
	Status              string     `json:"status"`
	CurrentMilestone    int        `json:"current_milestone"` // index of the milestone currently in progress
	CurrentDay          int        `json:"current_day"`       // legacy syllabus flow: last completed day number
	RoadmapGenerated    bool       `json:"roadmap_generated"`
	RoadmapNeedsRefresh bool       `json:"roadmap_needs_refresh"`
	RoadmapMode         string     `json:"roadmap_mode"`
	GoalLikelihoodScore *float64   `json:"goal_likelihood_score"`
	NextRoadmapRefresh  *time.Time `json:"next_roadmap_refresh"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func NewResolution(userID int64, goalStatement, category, cadence string, skillLevel *string) *Resolution {
	return &Resolution{
		UserID:        userID,
		GoalStatement: goalStatement,
		Category:      category,
		SkillLevel:    skillLevel,
		Cadence:       cadence,
		Status:        ResolutionActive,
		RoadmapMode:   RoadmapModeAI,
	}
}

// ValidCategory reports whether c is a known goal category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryLearning, CategoryReading, CategorySkill, CategoryFitness, CategoryProfessional, CategoryCreative:
		return true
	}
	return false
}

// ValidCadence reports whether c is a known cadence.
func ValidCadence(c string) bool {
	switch c {
	case CadenceDaily, CadenceThreePerWeek, CadenceWeekdays, CadenceWeekly:
		return true
	}
	return false
}

// ValidSkillLevel reports whether s is a known skill level.
func ValidSkillLevel(s string) bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// ValidRoadmapMode reports whether m is a known roadmap mode.
func ValidRoadmapMode(m string) bool {
	switch m {
	case RoadmapModeAI, RoadmapModeManual, RoadmapModeStreakOnly:
		return true
	}
	return false
}
