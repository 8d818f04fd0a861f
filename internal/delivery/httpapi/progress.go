package httpapi

import (
	"net/http"
	"strconv"

	"github.com/neuroresolv/backend/internal/domain/entities"
	"github.com/neuroresolv/backend/internal/service"
)

func (h *Handler) transcribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AudioBase64 string `json:"audio_base64"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	text, err := h.progress.Transcribe(r.Context(), req.AudioBase64)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *Handler) logProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content         string  `json:"content"`
		InputType       string  `json:"input_type"`
		SourceReference *string `json:"source_reference"`
		DurationMinutes *int    `json:"duration_minutes"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	log, err := h.progress.LogProgress(r.Context(), pathID(r), userID(r), service.LogInput{
		Content:         req.Content,
		InputType:       req.InputType,
		SourceReference: req.SourceReference,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, log)
}

func (h *Handler) todayProgress(w http.ResponseWriter, r *http.Request) {
	log, err := h.progress.Today(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if log == nil {
		h.respondJSON(w, http.StatusOK, nil)
		return
	}
	h.respondJSON(w, http.StatusOK, log)
}

func (h *Handler) verifyLog(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.progress.VerifyLog(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, quiz)
}

func (h *Handler) submitVerificationQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers []entities.QuizAnswer `json:"answers"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}

	result, err := h.progress.SubmitQuiz(r.Context(), pathID(r), userID(r), req.Answers)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) progressHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.progress.History(r.Context(), pathID(r), userID(r), limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if logs == nil {
		logs = []*entities.ProgressLog{}
	}

	h.respondJSON(w, http.StatusOK, logs)
}

func (h *Handler) progressOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.progress.GetOverview(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, overview)
}

func (h *Handler) getStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := h.progress.GetStreak(r.Context(), pathID(r), userID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, streak)
}
