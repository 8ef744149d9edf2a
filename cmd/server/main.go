package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/gatesim/gatesim-backend/internal/config"
	"github.com/gatesim/gatesim-backend/internal/database"
	"github.com/gatesim/gatesim-backend/internal/handler"
	"github.com/gatesim/gatesim-backend/internal/logger"
	"github.com/gatesim/gatesim-backend/internal/repository"
	"github.com/gatesim/gatesim-backend/internal/router"
	"github.com/gatesim/gatesim-backend/internal/service"
	"github.com/gatesim/gatesim-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting GateSim Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	configRepo := repository.NewExamConfigRepository(pool)
	sessionRepo := repository.NewExamSessionRepository(pool)
	resultRepo := repository.NewExamResultRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo, rdb)
	questionService := service.NewQuestionService(cfg, questionRepo, rdb, log)
	configService := service.NewExamConfigService(configRepo, sessionRepo, rdb, log)
	sessionService := service.NewSessionService(sessionRepo, configRepo, questionRepo, resultRepo, log)
	importService := service.NewImportService(questionRepo, log)

	var advisor service.Advisor = service.NoopAdvisor{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := service.NewGeminiAdvisor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AIConcurrent, log)
		if err != nil {
			log.Warn().Err(err).Msg("Gemini init failed, AI advisory disabled")
		} else {
			defer gemini.Close()
			advisor = gemini
		}
	} else {
		log.Info().Msg("No Gemini API key configured, AI advisory disabled")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Question:   handler.NewQuestionHandler(questionService),
		ExamConfig: handler.NewExamConfigHandler(configService),
		Session:    handler.NewSessionHandler(sessionService),
		Upload:     handler.NewUploadHandler(cfg, importService),
		AI:         handler.NewAIHandler(advisor),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
