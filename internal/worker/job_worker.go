package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/llm"
	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
	"github.com/inquizitor/inquizitor-backend/internal/service"
)

const (
	// JobPollTimeout bounds one BLPop so shutdown is noticed quickly.
	JobPollTimeout = 1 * time.Second
	// JobTaskTimeout bounds one task. LLM pipelines retry internally,
	// PDF compilation runs xelatex twice; both fit comfortably.
	JobTaskTimeout = 15 * time.Minute
)

// JobWorker consumes task envelopes from the Redis jobs queue and drives
// the job rows through pending → running → done|failed. Failed is
// terminal; the user resubmits.
type JobWorker struct {
	rdb    *redis.Client
	jobs   *repository.JobRepository
	runner *service.JobRunner
	log    zerolog.Logger
}

// NewJobWorker creates a new JobWorker.
func NewJobWorker(rdb *redis.Client, jobs *repository.JobRepository, runner *service.JobRunner, log zerolog.Logger) *JobWorker {
	return &JobWorker{
		rdb:    rdb,
		jobs:   jobs,
		runner: runner,
		log:    log.With().Str("component", "job_worker").Logger(),
	}
}

// Start runs the consume loop until ctx is cancelled.
func (w *JobWorker) Start(ctx context.Context) {
	w.log.Info().Msg("JobWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("JobWorker shutting down")
			return
		default:
			item, err := w.rdb.BLPop(ctx, JobPollTimeout, config.WorkerKey.JobsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var env model.TaskEnvelope
			if err := json.Unmarshal([]byte(item[1]), &env); err != nil {
				w.log.Error().Err(err).Msg("Invalid task envelope")
				continue
			}

			w.handle(ctx, env)
		}
	}
}

func (w *JobWorker) handle(ctx context.Context, env model.TaskEnvelope) {
	log := w.log.With().
		Str("job_id", env.JobID.String()).
		Str("type", string(env.Type)).
		Logger()

	if err := w.jobs.MarkRunning(ctx, env.JobID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Already picked up or cancelled, drop the envelope.
			log.Warn().Msg("Job not in pending state, skipping")
			return
		}
		log.Error().Err(err).Msg("Failed to mark job running")
		return
	}

	taskCtx, cancel := context.WithTimeout(ctx, JobTaskTimeout)
	result, err := w.runSafe(taskCtx, env)
	cancel()

	if err != nil {
		log.Warn().Err(err).Msg("Job failed")
		// Status writes survive shutdown even when the task context died.
		if markErr := w.jobs.MarkFailed(context.WithoutCancel(ctx), env.JobID, userFacingError(err)); markErr != nil {
			log.Error().Err(markErr).Msg("Failed to mark job failed")
		}
		return
	}

	if err := w.jobs.MarkDone(context.WithoutCancel(ctx), env.JobID, result); err != nil {
		log.Error().Err(err).Msg("Failed to mark job done")
		return
	}
	log.Info().Msg("Job completed")
}

// userFacingError rewrites known failure classes into the Polish message
// shown next to the job; everything else passes through verbatim.
func userFacingError(err error) string {
	if llm.IsQuotaError(err) {
		return "Limit zapytań do modelu został wyczerpany. Spróbuj ponownie za kilka minut."
	}
	return err.Error()
}

// runSafe executes one task with panic recovery so a bad payload cannot
// kill the worker loop.
func (w *JobWorker) runSafe(ctx context.Context, env model.TaskEnvelope) (result json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wewnętrzny błąd przetwarzania: %v", r)
		}
	}()
	return w.runner.Run(ctx, env)
}
