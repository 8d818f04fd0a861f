package httpapi

import (
	"net/http"
	"time"

	"github.com/neuroresolv/backend/internal/service"
)

func (h *Handler) generateRoadmap(w http.ResponseWriter, r *http.Request) {
	roadmap, err := h.roadmaps.Generate(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, roadmap)
}

func (h *Handler) getRoadmap(w http.ResponseWriter, r *http.Request) {
	roadmap, err := h.roadmaps.Get(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, roadmap)
}

func (h *Handler) refreshRoadmap(w http.ResponseWriter, r *http.Request) {
	roadmap, err := h.roadmaps.Refresh(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, roadmap)
}

func (h *Handler) setRoadmapMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	resolution, err := h.roadmaps.SetMode(r.Context(), pathID(r), userID(r), req.Mode)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resolution)
}

type manualMilestoneRequest struct {
	Order                int        `json:"order"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	VerificationCriteria string     `json:"verification_criteria"`
	TargetDate           *time.Time `json:"target_date"`
}

func (h *Handler) saveManualRoadmap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Milestones []manualMilestoneRequest `json:"milestones"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	inputs := make([]service.ManualMilestoneInput, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		inputs = append(inputs, service.ManualMilestoneInput{
			Order:                m.Order,
			Title:                m.Title,
			Description:          m.Description,
			VerificationCriteria: m.VerificationCriteria,
			TargetDate:           m.TargetDate,
		})
	}

	roadmap, err := h.roadmaps.SaveManual(r.Context(), pathID(r), userID(r), inputs)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, roadmap)
}

func (h *Handler) updateMilestone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title                *string    `json:"title"`
		Description          *string    `json:"description"`
		VerificationCriteria *string    `json:"verification_criteria"`
		TargetDate           *time.Time `json:"target_date"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	milestone, err := h.roadmaps.UpdateMilestone(r.Context(), pathID(r), userID(r), service.MilestoneEdit{
		Title:                req.Title,
		Description:          req.Description,
		VerificationCriteria: req.VerificationCriteria,
		TargetDate:           req.TargetDate,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, milestone)
}

func (h *Handler) completeMilestone(w http.ResponseWriter, r *http.Request) {
	milestone, err := h.roadmaps.CompleteMilestone(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, milestone)
}
