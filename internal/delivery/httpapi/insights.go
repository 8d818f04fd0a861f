package httpapi

import (
	"net/http"

	"github.com/neuroresolv/backend/internal/service"
)

func (h *Handler) generateWeeklyGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.insights.GenerateWeeklyGoal(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, goal)
}

func (h *Handler) getWeeklyGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.insights.GetWeeklyGoal(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, goal)
}

func (h *Handler) dismissWeeklyGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.insights.DismissWeeklyGoal(r.Context(), pathID(r), userID(r)); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "weekly goal dismissed"})
}

func (h *Handler) completeWeeklyGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.insights.CompleteWeeklyGoal(r.Context(), pathID(r), userID(r)); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "weekly goal completed"})
}

func (h *Handler) generateNorthStar(w http.ResponseWriter, r *http.Request) {
	goal, err := h.insights.GenerateNorthStar(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, goal)
}

func (h *Handler) getNorthStar(w http.ResponseWriter, r *http.Request) {
	goal, err := h.insights.GetNorthStar(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, goal)
}

func (h *Handler) updateNorthStar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GoalStatement      *string  `json:"goal_statement"`
		KeyTransformations []string `json:"key_transformations"`
		IdentityShift      *string  `json:"identity_shift"`
		WhyItMatters       *string  `json:"why_it_matters"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	goal, err := h.insights.UpdateNorthStar(r.Context(), pathID(r), userID(r), service.NorthStarEdit{
		GoalStatement:      req.GoalStatement,
		KeyTransformations: req.KeyTransformations,
		IdentityShift:      req.IdentityShift,
		WhyItMatters:       req.WhyItMatters,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, goal)
}

func (h *Handler) getWeeklyFocus(w http.ResponseWriter, r *http.Request) {
	focus, err := h.insights.GetWeeklyFocus(r.Context(), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, focus)
}

func (h *Handler) dismissWeeklyFocus(w http.ResponseWriter, r *http.Request) {
	if err := h.insights.DismissWeeklyFocus(r.Context(), pathID(r), userID(r)); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "weekly focus dismissed"})
}

func (h *Handler) recordFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentType  string  `json:"content_type"`
		ContentID    int64   `json:"content_id"`
		Rating       string  `json:"rating"`
		FeedbackText *string `json:"feedback_text"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	fb, err := h.insights.RecordFeedback(r.Context(), userID(r), service.FeedbackInput{
		ContentType:  req.ContentType,
		ContentID:    req.ContentID,
		Rating:       req.Rating,
		FeedbackText: req.FeedbackText,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, fb)
}

func (h *Handler) regenerateFromFeedback(w http.ResponseWriter, r *http.Request) {
	result, err := h.insights.RegenerateFromFeedback(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}
