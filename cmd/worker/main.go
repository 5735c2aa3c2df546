package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/database"
	"github.com/inquizitor/inquizitor-backend/internal/email"
	"github.com/inquizitor/inquizitor-backend/internal/generation"
	"github.com/inquizitor/inquizitor-backend/internal/llm"
	"github.com/inquizitor/inquizitor-backend/internal/logger"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
	"github.com/inquizitor/inquizitor-backend/internal/service"
	"github.com/inquizitor/inquizitor-backend/internal/storage"
	"github.com/inquizitor/inquizitor-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("log_level", cfg.LogLevel).
		Msg("Starting Inquizitor worker")

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

	// ─── Wiring ────────────────────────────────────────────────────────
	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	materialRepo := repository.NewMaterialRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	cacheRepo := repository.NewCacheRepository(pool)

	jobService := service.NewJobService(rdb, jobRepo)
	materialService := service.NewMaterialService(cfg, materialRepo, cacheRepo, jobService, store, generator, log)
	testService := service.NewTestService(cfg, testRepo, questionRepo, cacheRepo, materialService, jobService, generator, store, log)
	runner := service.NewJobRunner(testService, materialService)

	sender := email.NewSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.FrontendBaseURL, log)

	// ─── Start Workers ─────────────────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	jobWorker := worker.NewJobWorker(rdb, jobRepo, runner, log)
	emailWorker := worker.NewEmailWorker(rdb, sender, log)

	go jobWorker.Start(workerCtx)
	go emailWorker.Start(workerCtx)

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	workerCancel()
	time.Sleep(2 * time.Second) // Allow in-flight tasks to settle.

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
