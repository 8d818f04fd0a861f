package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/infra/postgres/repository"
	"github.com/neuroresolv/backend/internal/service"
)

func TestRespondError(t *testing.T) {
	h := &Handler{logger: zap.NewNop()}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: bad cadence", service.ErrValidation), http.StatusBadRequest},
		{"email taken", service.ErrEmailTaken, http.StatusBadRequest},
		{"already logged today", repository.ErrAlreadyLoggedToday, http.StatusBadRequest},
		{"quiz already completed", repository.ErrQuizAlreadyCompleted, http.StatusBadRequest},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"bad token", service.ErrInvalidToken, http.StatusUnauthorized},
		{"inactive account", service.ErrInactiveAccount, http.StatusForbidden},
		{"resolution missing", repository.ErrResolutionNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", repository.ErrSessionNotFound), http.StatusNotFound},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/resolutions", nil)

			h.respondError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			detail := detailOf(t, rec)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", detail)
			} else {
				assert.Equal(t, tt.err.Error(), detail)
			}
		})
	}
}

func TestRespondJSONNilPayload(t *testing.T) {
	h := &Handler{logger: zap.NewNop()}
	rec := httptest.NewRecorder()

	h.respondJSON(rec, http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())
}
