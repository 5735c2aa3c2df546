package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
)

// ErrNotOwner is returned when a resource belongs to a different user.
var ErrNotOwner = errors.New("resource owned by another user")

// JobService creates async jobs and exposes their status to the owner.
type JobService struct {
	rdb  *redis.Client
	jobs *repository.JobRepository
}

// NewJobService creates a new JobService.
func NewJobService(rdb *redis.Client, jobs *repository.JobRepository) *JobService {
	return &JobService{rdb: rdb, jobs: jobs}
}

// Enqueue persists a pending job and pushes its envelope onto the Redis
// jobs queue for the worker.
func (s *JobService) Enqueue(ctx context.Context, ownerID uuid.UUID, jobType model.JobType, payload any) (*model.Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	job := &model.Job{
		OwnerID: ownerID,
		Type:    jobType,
		Payload: raw,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	envelope, err := json.Marshal(model.TaskEnvelope{
		JobID:   job.ID,
		OwnerID: ownerID,
		Type:    jobType,
		Payload: raw,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal task envelope: %w", err)
	}

	if err := s.rdb.LPush(ctx, config.WorkerKey.JobsQueue, envelope).Err(); err != nil {
		// The row stays pending; a requeue sweep could pick it up, for
		// now the user resubmits.
		return nil, fmt.Errorf("enqueue job: %w", err)
	}
	return job, nil
}

// Get returns a job after verifying ownership.
func (s *JobService) Get(ctx context.Context, ownerID, jobID uuid.UUID) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return job, nil
}

// List returns all jobs of one user, newest first.
func (s *JobService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Job, error) {
	return s.jobs.ListByOwner(ctx, ownerID)
}
