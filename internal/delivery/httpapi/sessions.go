package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/service"
)

const maxUploadBytes = 10 << 20 // 10 MiB

func (h *Handler) uploadContent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.respondDetail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondDetail(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.respondDetail(w, http.StatusBadRequest, "could not read file")
		return
	}

	result, err := h.sessions.UploadContent(r.Context(), pathID(r), userID(r), header.Filename, content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) generateSyllabus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DurationDays     int `json:"duration_days"`
		DailyTimeMinutes int `json:"daily_time_minutes"`
	}
	// Body is optional; defaults apply when absent.
	if r.Body != nil && r.ContentLength != 0 {
		if !h.decodeBody(w, r, &req) {
			return
		}
	}

	syllabus, err := h.sessions.GenerateSyllabus(r.Context(), pathID(r), userID(r), service.SyllabusInput{
		DurationDays:     req.DurationDays,
		DailyTimeMinutes: req.DailyTimeMinutes,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, syllabus)
}

func (h *Handler) getSyllabus(w http.ResponseWriter, r *http.Request) {
	syllabus, err := h.sessions.GetSyllabus(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, syllabus)
}

func (h *Handler) todaySession(w http.ResponseWriter, r *http.Request) {
	resolutionID, err := strconv.ParseInt(r.URL.Query().Get("resolution_id"), 10, 64)
	if err != nil {
		h.respondDetail(w, http.StatusBadRequest, "resolution_id is required")
		return
	}

	session, err := h.sessions.TodaySession(r.Context(), resolutionID, userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if session == nil {
		h.respondJSON(w, http.StatusOK, nil)
		return
	}

	h.respondJSON(w, http.StatusOK, session)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, session)
}

func (h *Handler) completeSession(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := h.sessions.CompleteSession(r.Context(), id, userID(r)); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"message":    "session marked as complete",
		"session_id": id,
	})
}

func (h *Handler) getSessionQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.sessions.GetOrGenerateQuiz(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, quiz)
}

func (h *Handler) submitSessionQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers []service.SessionAnswer `json:"answers"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	result, err := h.sessions.SubmitQuiz(r.Context(), pathID(r), userID(r), req.Answers)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) sessionHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.History(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []*entities.DailySession{}
	}
	h.respondJSON(w, http.StatusOK, sessions)
}
