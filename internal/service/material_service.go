package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inquizitor/inquizitor-backend/internal/cache"
	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/extract"
	"github.com/inquizitor/inquizitor-backend/internal/generation"
	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
	"github.com/inquizitor/inquizitor-backend/internal/storage"
)

// Upload validation errors.
var (
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file exceeds the upload limit")
	ErrMaterialNotReady = errors.New("material has no extracted text yet")
)

// materialJobPayload is the jobs-queue payload for processing tasks.
type materialJobPayload struct {
	MaterialID uuid.UUID `json:"material_id"`
}

// ocrCacheDocument is the JSON stored behind an OCR cache entry.
type ocrCacheDocument struct {
	ExtractedText  string            `json:"extracted_text"`
	MarkdownTwin   string            `json:"markdown_twin"`
	SuggestedTitle string            `json:"suggested_title"`
	RoutingTier    model.RoutingTier `json:"routing_tier"`
	PageCount      int               `json:"page_count"`
}

// MaterialService handles uploads and the extraction/analysis pipeline.
type MaterialService struct {
	cfg       *config.Config
	materials *repository.MaterialRepository
	cacheRepo *repository.CacheRepository
	jobSvc    *JobService
	store     storage.FileStorage
	generator *generation.Generator
	log       zerolog.Logger
}

// NewMaterialService creates a new MaterialService.
func NewMaterialService(cfg *config.Config, materials *repository.MaterialRepository, cacheRepo *repository.CacheRepository, jobSvc *JobService, store storage.FileStorage, generator *generation.Generator, log zerolog.Logger) *MaterialService {
	return &MaterialService{
		cfg:       cfg,
		materials: materials,
		cacheRepo: cacheRepo,
		jobSvc:    jobSvc,
		store:     store,
		generator: generator,
		log:       log.With().Str("component", "material_service").Logger(),
	}
}

// Upload validates and stores an uploaded file, then queues extraction.
// Returns the material together with the processing job.
func (s *MaterialService) Upload(ctx context.Context, ownerID uuid.UUID, filename string, data []byte) (*model.Material, *model.Job, error) {
	ext := extract.ExtensionOf(filename)
	if !slices.Contains(s.cfg.AllowedExtensions, ext) {
		return nil, nil, ErrUnsupportedFile
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, nil, ErrFileTooLarge
	}

	storedPath, err := s.store.Save(ctx, filename, data)
	if err != nil {
		return nil, nil, fmt.Errorf("store upload: %w", err)
	}

	material := &model.Material{
		OwnerID:          ownerID,
		Filename:         filename,
		StoredPath:       storedPath,
		MimeType:         extract.MimeFor(ext),
		SizeBytes:        int64(len(data)),
		PageCount:        extract.PdfPageCount(data),
		Checksum:         cache.HashBytes(data),
		ProcessingStatus: model.ProcessingPending,
	}
	if err := s.materials.Create(ctx, material); err != nil {
		return nil, nil, fmt.Errorf("create material: %w", err)
	}

	job, err := s.jobSvc.Enqueue(ctx, ownerID, model.JobMaterialProcessing, materialJobPayload{MaterialID: material.ID})
	if err != nil {
		return nil, nil, err
	}
	return material, job, nil
}

// Get returns a material after verifying ownership.
func (s *MaterialService) Get(ctx context.Context, ownerID, materialID uuid.UUID) (*model.Material, error) {
	material, err := s.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return material, nil
}

// List returns all materials of one user, newest first.
func (s *MaterialService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Material, error) {
	return s.materials.ListByOwner(ctx, ownerID)
}

// Delete removes a material row and its stored object.
func (s *MaterialService) Delete(ctx context.Context, ownerID, materialID uuid.UUID) error {
	material, err := s.Get(ctx, ownerID, materialID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, material.StoredPath); err != nil {
		s.log.Warn().Err(err).Str("key", material.StoredPath).Msg("failed to delete stored object")
	}
	return s.materials.Delete(ctx, materialID)
}

// Analyze queues a fresh extraction/analysis run for an already
// uploaded material. Useful after a failed run or a pipeline upgrade;
// unchanged content still resolves from the extraction cache.
func (s *MaterialService) Analyze(ctx context.Context, ownerID, materialID uuid.UUID) (*model.Job, error) {
	material, err := s.Get(ctx, ownerID, materialID)
	if err != nil {
		return nil, err
	}
	if material.ProcessingStatus == model.ProcessingRunning {
		return nil, ErrMaterialNotReady
	}
	if err := s.materials.SetProcessingStatus(ctx, materialID, model.ProcessingPending, ""); err != nil {
		return nil, err
	}
	return s.jobSvc.Enqueue(ctx, ownerID, model.JobMaterialAnalysis, materialJobPayload{MaterialID: material.ID})
}

// SourceText returns the generation input of a processed material.
func (s *MaterialService) SourceText(ctx context.Context, ownerID, materialID uuid.UUID) (string, error) {
	material, err := s.Get(ctx, ownerID, materialID)
	if err != nil {
		return "", err
	}
	if material.ProcessingStatus != model.ProcessingDone || !material.HasText() {
		return "", ErrMaterialNotReady
	}
	return material.SourceText(), nil
}

// Process runs extraction and analysis for one material. Called from the
// worker; the surrounding job tracks success or failure.
func (s *MaterialService) Process(ctx context.Context, materialID uuid.UUID) error {
	material, err := s.materials.GetByID(ctx, materialID)
	if err != nil {
		return fmt.Errorf("load material: %w", err)
	}

	if err := s.materials.SetProcessingStatus(ctx, materialID, model.ProcessingRunning, ""); err != nil {
		return fmt.Errorf("mark running: %w", err)
	}

	doc, err := s.processWithCache(ctx, material)
	if err != nil {
		if statusErr := s.materials.SetProcessingStatus(ctx, materialID, model.ProcessingFailed, err.Error()); statusErr != nil {
			s.log.Error().Err(statusErr).Str("material_id", materialID.String()).Msg("failed to mark material failed")
		}
		return err
	}

	material.ExtractedText = doc.ExtractedText
	material.MarkdownTwin = doc.MarkdownTwin
	material.SuggestedTitle = doc.SuggestedTitle
	material.RoutingTier = doc.RoutingTier
	if doc.PageCount > 0 {
		material.PageCount = doc.PageCount
	}
	return s.materials.SaveExtraction(ctx, material)
}

// processWithCache resolves the OCR cache before calling the analyzer.
// Identical content with identical options reuses the stored result.
func (s *MaterialService) processWithCache(ctx context.Context, material *model.Material) (*ocrCacheDocument, error) {
	options, err := cache.NormalizeConfig(map[string]string{
		"model": s.cfg.GeminiAnalysisModel,
		"mime":  material.MimeType,
	})
	if err != nil {
		return nil, err
	}
	optionsHash := cache.HashParts(options)
	key := cache.OcrKey(material.OwnerID.String(), material.Checksum, optionsHash)

	if entry, err := s.cacheRepo.GetOcr(ctx, key); err == nil {
		if doc, loadErr := s.loadCachedDocument(ctx, entry.ResultRef); loadErr == nil {
			s.log.Debug().Str("material_id", material.ID.String()).Msg("OCR cache hit")
			return doc, nil
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn().Err(err).Msg("OCR cache lookup failed")
	}

	doc, err := s.analyze(ctx, material)
	if err != nil {
		return nil, err
	}

	if raw, marshalErr := json.Marshal(doc); marshalErr == nil {
		if ref, saveErr := s.store.Save(ctx, "analysis.json", raw); saveErr == nil {
			entry := &model.OcrCacheEntry{
				OwnerID:         material.OwnerID,
				FileHash:        material.Checksum,
				OptionsHash:     optionsHash,
				PipelineVersion: cache.OcrPipelineVersion,
				CacheKey:        key,
				ResultRef:       ref,
			}
			if putErr := s.cacheRepo.PutOcr(ctx, entry); putErr != nil {
				s.log.Warn().Err(putErr).Msg("OCR cache store failed")
			}
		}
	}
	return doc, nil
}

func (s *MaterialService) loadCachedDocument(ctx context.Context, ref string) (*ocrCacheDocument, error) {
	raw, err := s.store.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	var doc ocrCacheDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// analyze extracts text natively for textual uploads and routes binary
// documents through the LLM analyzer.
func (s *MaterialService) analyze(ctx context.Context, material *model.Material) (*ocrCacheDocument, error) {
	ext := extract.ExtensionOf(material.Filename)

	var text string
	var data []byte
	if extract.IsTextual(ext) {
		raw, err := s.store.Load(ctx, material.StoredPath)
		if err != nil {
			return nil, fmt.Errorf("load upload: %w", err)
		}
		text = extract.ReadText(raw)
	} else {
		raw, err := s.store.Load(ctx, material.StoredPath)
		if err != nil {
			return nil, fmt.Errorf("load upload: %w", err)
		}
		data = raw
	}

	analysis, err := s.generator.AnalyzeDocument(ctx, text, material.Filename, material.MimeType, data)
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}

	return &ocrCacheDocument{
		ExtractedText:  text,
		MarkdownTwin:   analysis.MarkdownTwin,
		SuggestedTitle: analysis.SuggestedTitle,
		RoutingTier:    analysis.RoutingTier,
		PageCount:      material.PageCount,
	}, nil
}
