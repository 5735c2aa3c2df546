package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// JobRunner dispatches queued task envelopes to the owning service.
// The worker handles queue mechanics and status transitions; this type
// only knows which service method implements which job type.
type JobRunner struct {
	tests     *TestService
	materials *MaterialService
}

// NewJobRunner creates a new JobRunner.
func NewJobRunner(tests *TestService, materials *MaterialService) *JobRunner {
	return &JobRunner{tests: tests, materials: materials}
}

// Run executes one task and returns the job result document.
func (r *JobRunner) Run(ctx context.Context, env model.TaskEnvelope) (json.RawMessage, error) {
	switch env.Type {
	case model.JobTestGeneration:
		var p testGenerationPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		res, err := r.tests.RunGeneration(ctx, env.OwnerID, p)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)

	case model.JobPdfExport:
		var p pdfExportPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		res, err := r.tests.RunPdfExport(ctx, env.OwnerID, p)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)

	case model.JobQuestionRegeneration:
		var p questionBatchPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		res, err := r.tests.RunRegeneration(ctx, env.OwnerID, p)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)

	case model.JobQuestionConversion:
		var p questionBatchPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		res, err := r.tests.RunConversion(ctx, env.OwnerID, p)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)

	case model.JobMaterialProcessing, model.JobMaterialAnalysis:
		var p materialJobPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		if err := r.materials.Process(ctx, p.MaterialID); err != nil {
			return nil, err
		}
		return json.Marshal(p)

	default:
		return nil, fmt.Errorf("unknown job type %q", env.Type)
	}
}
