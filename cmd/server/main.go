package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/neuroresolv/backend/internal/agents"
	"github.com/neuroresolv/backend/internal/config"
	"github.com/neuroresolv/backend/internal/delivery/httpapi"
	"github.com/neuroresolv/backend/internal/infra/postgres"
	"github.com/neuroresolv/backend/internal/infra/postgres/repository"
	"github.com/neuroresolv/backend/internal/logger"
	"github.com/neuroresolv/backend/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zl.Fatal("database not configured", zap.Error(err))
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zl.Fatal("connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	resolutionRepo := repository.NewResolutionRepository(pool)
	milestoneRepo := repository.NewMilestoneRepository(pool)
	progressLogRepo := repository.NewProgressLogRepository(pool)
	quizRepo := repository.NewVerificationQuizRepository(pool)
	streakRepo := repository.NewStreakRepository(pool)
	weeklyGoalRepo := repository.NewWeeklyGoalRepository(pool)
	northStarRepo := repository.NewNorthStarRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	syllabusRepo := repository.NewSyllabusRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	llm, err := agents.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("create agent client", zap.Error(err))
	}
	transcriber := agents.NewTranscriber(cfg.OpenAIAPIKey, cfg.TranscriptionModel)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenExpiry)
	resolutionService := service.NewResolutionService(resolutionRepo, streakRepo, llm)
	roadmapService := service.NewRoadmapService(resolutionRepo, milestoneRepo, progressLogRepo, streakRepo, llm)
	progressService := service.NewProgressService(
		resolutionRepo, progressLogRepo, quizRepo, streakRepo, milestoneRepo, llm, transcriber, zl)
	insightsService := service.NewInsightsService(
		resolutionRepo, milestoneRepo, progressLogRepo, weeklyGoalRepo, northStarRepo, feedbackRepo, roadmapService, llm)
	sessionService := service.NewSessionService(resolutionRepo, syllabusRepo, sessionRepo, llm, zl)

	sweeper := service.NewRefreshSweeper(resolutionRepo, cfg.RefreshSweepSpec, zl)
	go sweeper.Start(ctx)

	handler := httpapi.NewHandler(
		authService,
		resolutionService,
		roadmapService,
		progressService,
		insightsService,
		sessionService,
		cfg.CORSOrigins,
		zl,
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("server started", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
