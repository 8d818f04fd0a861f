package entities

import "time"

// AI content types that can receive feedback.
const (
	ContentRoadmap    = "roadmap"
	ContentWeeklyGoal = "weekly_goal"
	ContentNorthStar  = "north_star"
)

// Feedback ratings.
const (
	RatingThumbsUp   = "thumbs_up"
	RatingThumbsDown = "thumbs_down"
)

// AIFeedback records a user's reaction to a piece of AI-generated content.
// Thumbs-down feedback with text can drive a regeneration of that content.
type AIFeedback struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	ContentType          string    `json:"content_type"`
	ContentID            int64     `json:"content_id"`
	Rating               string    `json:"rating"`
	FeedbackText         *string   `json:"feedback_text"`
	WasRegenerated       bool      `json:"was_regenerated"`
	RegeneratedContentID *int64    `json:"regenerated_content_id"`
	CreatedAt            time.Time `json:"created_at"`
}

// ValidContentType reports whether t names AI content that accepts feedback.
func ValidContentType(t string) bool {
	switch t {
	case ContentRoadmap, ContentWeeklyGoal, ContentNorthStar:
		return true
	}
	return false
}

// ValidRating reports whether r is a known rating.
func ValidRating(r string) bool {
	return r == RatingThumbsUp || r == RatingThumbsDown
}
