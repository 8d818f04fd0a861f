package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/service"
)

// Handler wires the HTTP surface to the service layer.
type Handler struct {
	auth        *service.AuthService
	resolutions *service.ResolutionService
	roadmaps    *service.RoadmapService
	progress    *service.ProgressService
	insights    *service.InsightsService
	sessions    *service.SessionService
	corsOrigins []string
	logger      *zap.Logger
}

func NewHandler(
	auth *service.AuthService,
	resolutions *service.ResolutionService,
	roadmaps *service.RoadmapService,
	progress *service.ProgressService,
	insights *service.InsightsService,
	sessions *service.SessionService,
	corsOrigins []string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		auth:        auth,
		resolutions: resolutions,
		roadmaps:    roadmaps,
		progress:    progress,
		insights:    insights,
		sessions:    sessions,
		corsOrigins: corsOrigins,
		logger:      logger,
	}
}

// Router builds the route table with logging, CORS and auth middleware.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", h.root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", h.me).Methods(http.MethodGet)

	r.HandleFunc("/resolutions", h.createResolution).Methods(http.MethodPost)
	r.HandleFunc("/resolutions", h.listResolutions).Methods(http.MethodGet)
	r.HandleFunc("/resolutions/negotiate", h.negotiate).Methods(http.MethodPost)
	r.HandleFunc("/resolutions/{id:[0-9]+}", h.getResolution).Methods(http.MethodGet)
	r.HandleFunc("/resolutions/{id:[0-9]+}", h.updateResolution).Methods(http.MethodPatch)
	r.HandleFunc("/resolutions/{id:[0-9]+}", h.deleteResolution).Methods(http.MethodDelete)

	r.HandleFunc("/resolutions/{id:[0-9]+}/roadmap/generate", h.generateRoadmap).Methods(http.MethodPost)
	r.HandleFunc("/resolutions/{id:[0-9]+}/roadmap/refresh", h.refreshRoadmap).Methods(http.MethodPost)
	r.HandleFunc("/resolutions/{id:[0-9]+}/roadmap/mode", h.setRoadmapMode).Methods(http.MethodPut)
	r.HandleFunc("/resolutions/{id:[0-9]+}/roadmap", h.getRoadmap).Methods(http.MethodGet)
	r.HandleFunc("/resolutions/{id:[0-9]+}/roadmap", h.saveManualRoadmap).Methods(http.MethodPut)
	r.HandleFunc("/milestones/{id:[0-9]+}", h.updateMilestone).Methods(http.MethodPatch)
	r.HandleFunc("/milestones/{id:[0-9]+}/complete", h.completeMilestone).Methods(http.MethodPost)

	r.HandleFunc("/resolutions/{id:[0-9]+}/weekly-goal/generate", h.generateWeeklyGoal).Methods(http.MethodPost)
	r.HandleFunc("/resolutions/{id:[0-9]+}/weekly-goal", h.getWeeklyGoal).Methods(http.MethodGet)
	r.HandleFunc("/weekly-goals/{id:[0-9]+}/dismiss", h.dismissWeeklyGoal).Methods(http.MethodPost)
	r.HandleFunc("/weekly-goals/{id:[0-9]+}/complete", h.completeWeeklyGoal).Methods(http.MethodPost)
	r.HandleFunc("/resolutions/{id:[0-9]+}/north-star/generate", h.generateNorthStar).Methods(http.MethodPost)
	r.HandleFunc("/resolutions/{id:[0-9]+}/north-star", h.getNorthStar).Methods(http.MethodGet)
	r.HandleFunc("/resolutions/{id:[0-9]+}/north-star", h.updateNorthStar).Methods(http.MethodPut)
	r.HandleFunc("/weekly-focus", h.getWeeklyFocus).Methods(http.MethodGet)
	r.HandleFunc("/weekly-focus/{id:[0-9]+}/dismiss", h.dismissWeeklyFocus).Methods(http.MethodPost)
	r.HandleFunc("/feedback", h.recordFeedback).Methods(http.MethodPost)
	r.HandleFunc("/feedback/{id:[0-9]+}/regenerate", h.regenerateFromFeedback).Methods(http.MethodPost)

	r.HandleFunc("/progress/transcribe", h.transcribe).Methods(http.MethodPost)
	r.HandleFunc("/progress/log/{id:[0-9]+}/verify", h.verifyLog).Methods(http.MethodPost)
	r.HandleFunc("/progress/log/{id:[0-9]+}", h.logProgress).Methods(http.MethodPost)
	r.HandleFunc("/progress/today/{id:[0-9]+}", h.todayProgress).Methods(http.MethodGet)
	r.HandleFunc("/progress/quiz/{id:[0-9]+}/submit", h.submitVerificationQuiz).Methods(http.MethodPost)
	r.HandleFunc("/progress/history/{id:[0-9]+}", h.progressHistory).Methods(http.MethodGet)
	r.HandleFunc("/progress/overview/{id:[0-9]+}", h.progressOverview).Methods(http.MethodGet)
	r.HandleFunc("/progress/streak/{id:[0-9]+}", h.getStreak).Methods(http.MethodGet)

	r.HandleFunc("/resolutions/{id:[0-9]+}/upload", h.uploadContent).Methods(http.MethodPost)
	r.HandleFunc("/resolutions/{id:[0-9]+}/generate-syllabus", h.generateSyllabus).Methods(http.MethodPost)
	r.HandleFunc("/resolutions/{id:[0-9]+}/syllabus", h.getSyllabus).Methods(http.MethodGet)
	r.HandleFunc("/sessions/today", h.todaySession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/history/{id:[0-9]+}", h.sessionHistory).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id:[0-9]+}", h.getSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id:[0-9]+}/complete", h.completeSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id:[0-9]+}/quiz", h.getSessionQuiz).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id:[0-9]+}/quiz/submit", h.submitSessionQuiz).Methods(http.MethodPost)

	r.Use(h.authMiddleware)

	var handler http.Handler = r
	handler = h.corsMiddleware(handler)
	handler = h.loggingMiddleware(handler)
	return handler
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"name":   "neuroresolv api",
		"status": "running",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// pathID extracts the numeric {id} path variable.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
