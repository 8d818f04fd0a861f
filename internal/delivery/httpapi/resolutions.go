package httpapi

import (
	"net/http"

	"github.com/neuroresolv/backend/internal/service"
)

type resolutionRequest struct {
	GoalStatement string  `json:"goal_statement"`
	Category      string  `json:"category"`
	SkillLevel    *string `json:"skill_level"`
	Cadence       string  `json:"cadence"`
}

func (req resolutionRequest) toInput() service.CreateInput {
	return service.CreateInput{
		GoalStatement: req.GoalStatement,
		Category:      req.Category,
		SkillLevel:    req.SkillLevel,
		Cadence:       req.Cadence,
	}
}

func (h *Handler) createResolution(w http.ResponseWriter, r *http.Request) {
	var req resolutionRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	resolution, err := h.resolutions.Create(r.Context(), userID(r), req.toInput())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, resolution)
}

func (h *Handler) listResolutions(w http.ResponseWriter, r *http.Request) {
	resolutions, err := h.resolutions.List(r.Context(), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, resolutions)
}

func (h *Handler) getResolution(w http.ResponseWriter, r *http.Request) {
	resolution, err := h.resolutions.Get(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, resolution)
}

type resolutionUpdateRequest struct {
	Status     *string `json:"status"`
	Cadence    *string `json:"cadence"`
	SkillLevel *string `json:"skill_level"`
}

func (h *Handler) updateResolution(w http.ResponseWriter, r *http.Request) {
	var req resolutionUpdateRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	resolution, err := h.resolutions.Update(r.Context(), pathID(r), userID(r), service.UpdateInput{
		Status:     req.Status,
		Cadence:    req.Cadence,
		SkillLevel: req.SkillLevel,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resolution)
}

func (h *Handler) deleteResolution(w http.ResponseWriter, r *http.Request) {
	if err := h.resolutions.Delete(r.Context(), pathID(r), userID(r)); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "resolution deleted"})
}

func (h *Handler) negotiate(w http.ResponseWriter, r *http.Request) {
	var req resolutionRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	result, err := h.resolutions.Negotiate(r.Context(), req.toInput())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}
