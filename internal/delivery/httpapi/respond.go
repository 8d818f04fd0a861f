package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/infra/postgres/repository"
	"github.com/neuroresolv/backend/internal/service"
)

// detailEnvelope is the error body shape the frontend expects.
type detailEnvelope struct {
	Detail string `json:"detail"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		w.Write([]byte("null"))
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) respondDetail(w http.ResponseWriter, status int, detail string) {
	h.respondJSON(w, status, detailEnvelope{Detail: detail})
}

// respondError maps service and repository sentinels onto HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, repository.ErrAlreadyLoggedToday),
		errors.Is(err, repository.ErrQuizAlreadyCompleted),
		errors.Is(err, repository.ErrSessionQuizAlreadyComplete):
		h.respondDetail(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		h.respondDetail(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrInactiveAccount):
		h.respondDetail(w, http.StatusForbidden, err.Error())

	case isNotFound(err):
		h.respondDetail(w, http.StatusNotFound, err.Error())

	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.respondDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func isNotFound(err error) bool {
	for _, sentinel := range []error{
		repository.ErrUserNotFound,
		repository.ErrResolutionNotFound,
		repository.ErrMilestoneNotFound,
		repository.ErrProgressLogNotFound,
		repository.ErrQuizNotFound,
		repository.ErrStreakNotFound,
		repository.ErrWeeklyGoalNotFound,
		repository.ErrWeeklyFocusNotFound,
		repository.ErrNorthStarNotFound,
		repository.ErrFeedbackNotFound,
		repository.ErrSyllabusNotFound,
		repository.ErrSessionNotFound,
		repository.ErrSessionQuizNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// decodeBody parses a JSON request body into dst.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondDetail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
