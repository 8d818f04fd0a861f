package entities

import "time"

// Milestone statuses.
const (
	MilestonePending    = "pending"
	MilestoneInProgress = "in_progress"
	MilestoneCompleted  = "completed"
)

// Milestone is a single stage of a resolution roadmap.
type Milestone struct {
	ID                   int64      `json:"id"`
	ResolutionID         int64      `json:"resolution_id"`
	Order                int        `json:"order"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	VerificationCriteria string     `json:"verification_criteria"`
	TargetDate           *time.Time `json:"target_date"`
	Status               string     `json:"status"`
	IsEdited             bool       `json:"is_edited"`
	CompletedAt          *time.Time `json:"completed_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

func NewMilestone(resolutionID int64, order int, title, description, criteria string) *Milestone {
	return &Milestone{
		ResolutionID:         resolutionID,
		Order:                order,
		Title:                title,
		Description:          description,
		VerificationCriteria: criteria,
		Status:               MilestonePending,
	}
}

// Complete marks the milestone as completed and stamps the completion time.
func (m *Milestone) Complete() {
	m.Status = MilestoneCompleted
	now := time.Now().UTC()
	m.CompletedAt = &now
}
