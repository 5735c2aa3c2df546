package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// JobRepository handles async job rows. Status transitions are guarded
// in SQL so a job can never move out of a terminal state.
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const jobColumns = `id, owner_id, type, status, payload, result, error, created_at, updated_at`

func scanJob(row pgx.Row) (*model.Job, error) {
	var j model.Job
	var payload, result []byte
	err := row.Scan(&j.ID, &j.OwnerID, &j.Type, &j.Status, &payload, &result,
		&j.Error, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	j.Payload = json.RawMessage(payload)
	j.Result = json.RawMessage(result)
	return &j, nil
}

// Create inserts a pending job.
func (r *JobRepository) Create(ctx context.Context, j *model.Job) error {
	payload := j.Payload
	if payload == nil {
		payload = json.RawMessage(`{}`)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO jobs (owner_id, type, status, payload)
		 VALUES ($1, $2, 'pending', $3)
		 RETURNING id, status, created_at, updated_at`,
		j.OwnerID, j.Type, []byte(payload),
	).Scan(&j.ID, &j.Status, &j.CreatedAt, &j.UpdatedAt)
}

// GetByID retrieves a job by id.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

// ListByOwner retrieves all jobs of one user, newest first.
func (r *JobRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs WHERE owner_id = $1
		 ORDER BY created_at DESC`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// MarkRunning moves a pending job to running. Returns ErrNotFound when
// the job is missing or already past pending.
func (r *JobRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE jobs SET status = 'running', updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkDone completes a running job with its result document.
func (r *JobRepository) MarkDone(ctx context.Context, id uuid.UUID, result json.RawMessage) error {
	if result == nil {
		result = json.RawMessage(`{}`)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE jobs SET status = 'done', result = $1, updated_at = NOW()
		 WHERE id = $2 AND status = 'running'`, []byte(result), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkFailed moves a running job to the terminal failed state.
func (r *JobRepository) MarkFailed(ctx context.Context, id uuid.UUID, jobError string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE jobs SET status = 'failed', error = $1, updated_at = NOW()
		 WHERE id = $2 AND status IN ('pending', 'running')`, jobError, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
