package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/database"
	"github.com/inquizitor/inquizitor-backend/internal/generation"
	"github.com/inquizitor/inquizitor-backend/internal/handler"
	"github.com/inquizitor/inquizitor-backend/internal/llm"
	"github.com/inquizitor/inquizitor-backend/internal/logger"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
	"github.com/inquizitor/inquizitor-backend/internal/router"
	"github.com/inquizitor/inquizitor-backend/internal/service"
	"github.com/inquizitor/inquizitor-backend/internal/storage"
	"github.com/inquizitor/inquizitor-backend/internal/validator"
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
		Msg("Starting Inquizitor API")

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

	// ─── Object Storage ────────────────────────────────────────────────
	store, err := newFileStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	// ─── LLM Client ────────────────────────────────────────────────────
	gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}
	defer gemini.Close()
	generator := generation.NewGenerator(gemini, log)

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	materialRepo := repository.NewMaterialRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	cacheRepo := repository.NewCacheRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	supportRepo := repository.NewSupportRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, userRepo, tokenRepo, log)
	userService := service.NewUserService(userRepo)
	turnstileService := service.NewTurnstileService(cfg.TurnstileSecretKey, log)
	jobService := service.NewJobService(rdb, jobRepo)
	materialService := service.NewMaterialService(cfg, materialRepo, cacheRepo, jobService, store, generator, log)
	testService := service.NewTestService(cfg, testRepo, questionRepo, cacheRepo, materialService, jobService, generator, store, log)
	notificationService := service.NewNotificationService(notificationRepo)
	supportService := service.NewSupportService(supportRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, userService),
		Material:     handler.NewMaterialHandler(materialService),
		Test:         handler.NewTestHandler(testService),
		Question:     handler.NewQuestionHandler(testService),
		Job:          handler.NewJobHandler(jobService),
		File:         handler.NewFileHandler(jobService, store),
		Notification: handler.NewNotificationHandler(notificationService),
		Support:      handler.NewSupportHandler(supportService),
		System:       handler.NewSystemHandler(rdb, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, turnstileService, handlers, cfg)

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

// newFileStorage picks the backend from config: Cloudflare R2 in
// production, the local filesystem for development.
func newFileStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.FileStorage, error) {
	if cfg.StorageBackend == "r2" {
		return storage.NewR2Storage(ctx, cfg, log)
	}
	return storage.NewLocalStorage(cfg.UploadDir)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
