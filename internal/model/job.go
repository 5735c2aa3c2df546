package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of an async job. Transitions happen
// exactly once: pending → running → done|failed. Failed is terminal;
// the user resubmits instead of retrying the job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// JobType identifies the worker routine handling a job.
type JobType string

const (
	JobTestGeneration       JobType = "test_generation"
	JobPdfExport            JobType = "pdf_export"
	JobMaterialProcessing   JobType = "material_processing"
	JobMaterialAnalysis     JobType = "material_analysis"
	JobQuestionRegeneration JobType = "questions_regeneration"
	JobQuestionConversion   JobType = "questions_conversion"
)

// Job records one unit of asynchronous work and its outcome.
type Job struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Type      JobType         `json:"type"`
	Status    JobStatus       `json:"status"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TaskEnvelope is the JSON message pushed onto the Redis jobs queue.
type TaskEnvelope struct {
	JobID   uuid.UUID       `json:"job_id"`
	OwnerID uuid.UUID       `json:"owner_id"`
	Type    JobType         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EmailTask is the JSON message pushed onto the Redis email queue.
type EmailTask struct {
	Kind  string `json:"kind"` // "verification" or "password_reset"
	To    string `json:"to"`
	Name  string `json:"name"`
	Token string `json:"token"`
}
