package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inquizitor/inquizitor-backend/internal/cache"
	"github.com/inquizitor/inquizitor-backend/internal/config"
	"github.com/inquizitor/inquizitor-backend/internal/export"
	"github.com/inquizitor/inquizitor-backend/internal/generation"
	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
	"github.com/inquizitor/inquizitor-backend/internal/storage"
)

// Generation request errors surfaced at the API layer.
var (
	ErrSourceRequired     = errors.New("exactly one of text and material_id is required")
	ErrDifficultyMismatch = errors.New("difficulty split does not cover every question")
)

// InvalidRequestError wraps a user-facing validation message so the API
// layer can return it verbatim with a 400.
type InvalidRequestError struct {
	Err error
}

func (e *InvalidRequestError) Error() string { return e.Err.Error() }

func (e *InvalidRequestError) Unwrap() error { return e.Err }

// variantLabels name the printed exam groups.
var variantLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// Job payloads. Source text is resolved at enqueue time so the worker
// never touches materials.
type testGenerationPayload struct {
	Title      string            `json:"title"`
	SourceText string            `json:"source_text"`
	Params     generation.Params `json:"params"`
}

type testGenerationResult struct {
	TestID        uuid.UUID `json:"test_id"`
	QuestionCount int       `json:"question_count"`
}

type pdfExportPayload struct {
	TestID uuid.UUID             `json:"test_id"`
	Config model.PdfExportConfig `json:"config"`
}

type pdfExportResult struct {
	StoredPath  string `json:"stored_path"`
	ContentType string `json:"content_type"`
	Filename    string `json:"filename"`
	CacheHit    bool   `json:"cache_hit"`
}

type questionBatchPayload struct {
	TestID      uuid.UUID   `json:"test_id"`
	QuestionIDs []uuid.UUID `json:"question_ids"`
	Instruction string      `json:"instruction,omitempty"`
	ToClosed    bool        `json:"to_closed,omitempty"`
}

type questionBatchResult struct {
	Updated int `json:"updated"`
}

// TestService handles tests and their questions, generation jobs and
// exports.
type TestService struct {
	cfg         *config.Config
	tests       *repository.TestRepository
	questions   *repository.QuestionRepository
	cacheRepo   *repository.CacheRepository
	materialSvc *MaterialService
	jobSvc      *JobService
	generator   *generation.Generator
	store       storage.FileStorage
	log         zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(cfg *config.Config, tests *repository.TestRepository, questions *repository.QuestionRepository, cacheRepo *repository.CacheRepository, materialSvc *MaterialService, jobSvc *JobService, generator *generation.Generator, store storage.FileStorage, log zerolog.Logger) *TestService {
	return &TestService{
		cfg:         cfg,
		tests:       tests,
		questions:   questions,
		cacheRepo:   cacheRepo,
		materialSvc: materialSvc,
		jobSvc:      jobSvc,
		generator:   generator,
		store:       store,
		log:         log.With().Str("component", "test_service").Logger(),
	}
}

// ─── Generation ──────────────────────────────────────────────────────

// Generate validates the request, resolves the source text and queues a
// generation job.
func (s *TestService) Generate(ctx context.Context, ownerID uuid.UUID, req *model.GenerateTestRequest) (*model.Job, error) {
	if !req.HasExactlyOneSource() {
		return nil, ErrSourceRequired
	}
	if !req.DifficultySumMatches() {
		return nil, ErrDifficultyMismatch
	}

	params := generation.Params{
		TrueFalse:              req.Closed.TrueFalse,
		SingleChoice:           req.Closed.SingleChoice,
		MultiChoice:            req.Closed.MultiChoice,
		Open:                   req.NumOpen,
		Easy:                   req.NumEasy,
		Medium:                 req.NumMedium,
		Hard:                   req.NumHard,
		AdditionalInstructions: req.AdditionalInstructions,
	}
	if err := params.Validate(); err != nil {
		return nil, &InvalidRequestError{Err: err}
	}

	title := req.Title
	sourceText := req.Text
	if req.MaterialID != nil {
		material, err := s.materialSvc.Get(ctx, ownerID, *req.MaterialID)
		if err != nil {
			return nil, err
		}
		text, err := s.materialSvc.SourceText(ctx, ownerID, *req.MaterialID)
		if err != nil {
			return nil, err
		}
		sourceText = text
		if title == "" {
			title = material.SuggestedTitle
		}
	}
	if title == "" {
		title = "Nowy test"
	}

	return s.jobSvc.Enqueue(ctx, ownerID, model.JobTestGeneration, testGenerationPayload{
		Title:      title,
		SourceText: sourceText,
		Params:     params,
	})
}

// RunGeneration executes a generation job: full LLM pipeline, then the
// test and its questions are persisted. Called from the worker.
func (s *TestService) RunGeneration(ctx context.Context, ownerID uuid.UUID, payload testGenerationPayload) (*testGenerationResult, error) {
	parsed, err := s.generator.GenerateTest(ctx, payload.SourceText, payload.Params)
	if err != nil {
		return nil, err
	}

	test := &model.Test{OwnerID: ownerID, Title: payload.Title}
	if parsed.Title != "" && payload.Title == "Nowy test" {
		test.Title = parsed.Title
	}
	if err := s.tests.Create(ctx, test); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}
	if err := s.questions.CreateBatch(ctx, test.ID, parsed.Questions); err != nil {
		return nil, fmt.Errorf("store questions: %w", err)
	}

	return &testGenerationResult{TestID: test.ID, QuestionCount: len(parsed.Questions)}, nil
}

// ─── Test CRUD ───────────────────────────────────────────────────────

// Create adds an empty test.
func (s *TestService) Create(ctx context.Context, ownerID uuid.UUID, req *model.TestCreateRequest) (*model.Test, error) {
	test := &model.Test{OwnerID: ownerID, Title: req.Title}
	if err := s.tests.Create(ctx, test); err != nil {
		return nil, err
	}
	return test, nil
}

// Get returns a test with its questions after verifying ownership.
func (s *TestService) Get(ctx context.Context, ownerID, testID uuid.UUID) (*model.TestWithQuestions, error) {
	test, err := s.ownedTest(ctx, ownerID, testID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	return &model.TestWithQuestions{Test: *test, Questions: questions}, nil
}

// List returns all tests of one user, newest first.
func (s *TestService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Test, error) {
	return s.tests.ListByOwner(ctx, ownerID)
}

// Rename updates the test title.
func (s *TestService) Rename(ctx context.Context, ownerID, testID uuid.UUID, title string) error {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return err
	}
	return s.tests.UpdateTitle(ctx, testID, title)
}

// Delete removes a test and everything derived from it.
func (s *TestService) Delete(ctx context.Context, ownerID, testID uuid.UUID) error {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return err
	}
	s.invalidateExports(ctx, testID)
	return s.tests.Delete(ctx, testID)
}

// ─── Question CRUD ───────────────────────────────────────────────────

// AddQuestion appends a question to a test.
func (s *TestService) AddQuestion(ctx context.Context, ownerID, testID uuid.UUID, req *model.QuestionCreateRequest) (*model.Question, error) {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return nil, err
	}
	existing, err := s.questions.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	q := &model.Question{
		TestID:         testID,
		Text:           req.Text,
		IsClosed:       req.IsClosed,
		Difficulty:     model.Difficulty(req.Difficulty),
		Choices:        req.Choices,
		CorrectChoices: req.CorrectChoices,
		Position:       len(existing),
	}
	q.Sanitize()
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}
	s.afterEdit(ctx, testID)
	return q, nil
}

// UpdateQuestion applies a partial update to one question.
func (s *TestService) UpdateQuestion(ctx context.Context, ownerID, testID, questionID uuid.UUID, req *model.QuestionUpdateRequest) (*model.Question, error) {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return nil, err
	}
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.TestID != testID {
		return nil, repository.ErrNotFound
	}

	applyQuestionPatch(q, req)
	q.Sanitize()
	if err := s.questions.Update(ctx, q); err != nil {
		return nil, err
	}
	s.afterEdit(ctx, testID)
	return q, nil
}

// BulkUpdateQuestions applies the same patch to many questions.
func (s *TestService) BulkUpdateQuestions(ctx context.Context, ownerID, testID uuid.UUID, req *model.QuestionBulkUpdateRequest) (int, error) {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return 0, err
	}
	questions, err := s.ownedQuestions(ctx, testID, req.QuestionIDs)
	if err != nil {
		return 0, err
	}
	for i := range questions {
		applyQuestionPatch(&questions[i], &req.Patch)
		questions[i].Sanitize()
	}
	if err := s.questions.UpdateBatch(ctx, questions); err != nil {
		return 0, err
	}
	s.afterEdit(ctx, testID)
	return len(questions), nil
}

// BulkDeleteQuestions removes many questions and compacts positions.
// DeleteQuestion removes a single question and re-compacts positions.
// Unknown question ids yield not-found instead of a silent no-op.
func (s *TestService) DeleteQuestion(ctx context.Context, ownerID, testID, questionID uuid.UUID) error {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return err
	}
	if _, err := s.ownedQuestions(ctx, testID, []uuid.UUID{questionID}); err != nil {
		return err
	}
	return s.BulkDeleteQuestions(ctx, ownerID, testID, &model.QuestionBulkDeleteRequest{
		QuestionIDs: []uuid.UUID{questionID},
	})
}

func (s *TestService) BulkDeleteQuestions(ctx context.Context, ownerID, testID uuid.UUID, req *model.QuestionBulkDeleteRequest) error {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return err
	}
	if err := s.questions.DeleteBatch(ctx, testID, req.QuestionIDs); err != nil {
		return err
	}

	remaining, err := s.questions.ListByTest(ctx, testID)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, len(remaining))
	for i, q := range remaining {
		ids[i] = q.ID
	}
	if err := s.questions.UpdatePositions(ctx, testID, ids); err != nil {
		return err
	}
	s.afterEdit(ctx, testID)
	return nil
}

// Shuffle reorders questions within each difficulty bucket and persists
// the new ordering. A seed makes the shuffle reproducible.
func (s *TestService) Shuffle(ctx context.Context, ownerID, testID uuid.UUID, seed *int64) ([]model.Question, error) {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if seed != nil {
		rng = rand.New(rand.NewSource(*seed))
	}
	shuffled := generation.ShuffleWithinDifficulty(questions, rng)

	ids := make([]uuid.UUID, len(shuffled))
	for i := range shuffled {
		ids[i] = shuffled[i].ID
		shuffled[i].Position = i
	}
	if err := s.questions.UpdatePositions(ctx, testID, ids); err != nil {
		return nil, err
	}
	s.afterEdit(ctx, testID)
	return shuffled, nil
}

// ─── LLM question jobs ───────────────────────────────────────────────

// Regenerate queues twin-variant regeneration for selected questions.
func (s *TestService) Regenerate(ctx context.Context, ownerID, testID uuid.UUID, req *model.QuestionRegenerateRequest) (*model.Job, error) {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return nil, err
	}
	return s.jobSvc.Enqueue(ctx, ownerID, model.JobQuestionRegeneration, questionBatchPayload{
		TestID:      testID,
		QuestionIDs: req.QuestionIDs,
		Instruction: req.Instruction,
	})
}

// Convert queues open↔closed conversion for selected questions.
func (s *TestService) Convert(ctx context.Context, ownerID, testID uuid.UUID, req *model.QuestionConvertRequest) (*model.Job, error) {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return nil, err
	}
	return s.jobSvc.Enqueue(ctx, ownerID, model.JobQuestionConversion, questionBatchPayload{
		TestID:      testID,
		QuestionIDs: req.QuestionIDs,
		ToClosed:    req.ToClosed,
	})
}

// RunRegeneration executes a regeneration job. Called from the worker.
func (s *TestService) RunRegeneration(ctx context.Context, ownerID uuid.UUID, payload questionBatchPayload) (*questionBatchResult, error) {
	test, err := s.ownedTest(ctx, ownerID, payload.TestID)
	if err != nil {
		return nil, err
	}
	questions, err := s.ownedQuestions(ctx, test.ID, payload.QuestionIDs)
	if err != nil {
		return nil, err
	}

	regenerated, err := s.generator.RegenerateTwins(ctx, questions, payload.Instruction)
	if err != nil {
		return nil, err
	}
	for i := range regenerated {
		regenerated[i].Sanitize()
	}
	if err := s.questions.UpdateBatch(ctx, regenerated); err != nil {
		return nil, err
	}
	s.afterEdit(ctx, test.ID)
	return &questionBatchResult{Updated: len(regenerated)}, nil
}

// RunConversion executes a conversion job. Called from the worker.
func (s *TestService) RunConversion(ctx context.Context, ownerID uuid.UUID, payload questionBatchPayload) (*questionBatchResult, error) {
	test, err := s.ownedTest(ctx, ownerID, payload.TestID)
	if err != nil {
		return nil, err
	}
	questions, err := s.ownedQuestions(ctx, test.ID, payload.QuestionIDs)
	if err != nil {
		return nil, err
	}

	converted, err := s.generator.Convert(ctx, questions, payload.ToClosed)
	if err != nil {
		return nil, err
	}
	for i := range converted {
		converted[i].Sanitize()
	}
	if err := s.questions.UpdateBatch(ctx, converted); err != nil {
		return nil, err
	}
	s.afterEdit(ctx, test.ID)
	return &questionBatchResult{Updated: len(converted)}, nil
}

// ─── Exports ─────────────────────────────────────────────────────────

// ExportPdf queues a PDF export job.
func (s *TestService) ExportPdf(ctx context.Context, ownerID, testID uuid.UUID, cfg model.PdfExportConfig) (*model.Job, error) {
	if _, err := s.ownedTest(ctx, ownerID, testID); err != nil {
		return nil, err
	}
	if cfg.Variants == 0 {
		cfg.Variants = 1
	}
	return s.jobSvc.Enqueue(ctx, ownerID, model.JobPdfExport, pdfExportPayload{TestID: testID, Config: cfg})
}

// RunPdfExport executes an export job: cache lookup, per-variant LaTeX
// rendering, compilation, storage. Called from the worker.
func (s *TestService) RunPdfExport(ctx context.Context, ownerID uuid.UUID, payload pdfExportPayload) (*pdfExportResult, error) {
	test, err := s.ownedTest(ctx, ownerID, payload.TestID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByTest(ctx, test.ID)
	if err != nil {
		return nil, err
	}

	contentNorm, err := cache.NormalizeConfig(questions)
	if err != nil {
		return nil, err
	}
	configNorm, err := cache.NormalizeConfig(payload.Config)
	if err != nil {
		return nil, err
	}
	configHash := cache.HashParts(configNorm)
	key := cache.PdfExportKey(test.ID.String(), cache.HashParts(contentNorm), configHash)

	filename, contentType := exportArtifactMeta(test.Title, payload.Config.Variants)

	if entry, err := s.cacheRepo.GetPdfExport(ctx, key); err == nil {
		return &pdfExportResult{
			StoredPath:  entry.StoredPath,
			ContentType: contentType,
			Filename:    filename,
			CacheHit:    true,
		}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn().Err(err).Msg("export cache lookup failed")
	}

	artifact, err := s.compileVariants(ctx, test, questions, payload.Config)
	if err != nil {
		return nil, err
	}

	storedPath, err := s.store.Save(ctx, filename, artifact)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}

	entry := &model.PdfExportCacheEntry{
		TestID:          test.ID,
		CacheKey:        key,
		ConfigHash:      configHash,
		TemplateVersion: cache.PdfTemplateVersion,
		StoredPath:      storedPath,
	}
	if err := s.cacheRepo.PutPdfExport(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("export cache store failed")
	}

	return &pdfExportResult{StoredPath: storedPath, ContentType: contentType, Filename: filename}, nil
}

// compileVariants renders and compiles every exam group. A single
// variant yields the PDF itself; multiple variants are zipped.
func (s *TestService) compileVariants(ctx context.Context, test *model.Test, questions []model.Question, cfg model.PdfExportConfig) ([]byte, error) {
	variants := cfg.Variants
	if variants < 1 {
		variants = 1
	}

	pdfs := make([][]byte, 0, variants)
	for v := 0; v < variants; v++ {
		qs := questions
		if cfg.ShuffleInside {
			// Deterministic per-variant shuffle so a re-export of the
			// same snapshot produces identical groups. Each variant
			// shuffles its own copy; choice swaps must not leak into
			// the snapshot the other variants start from.
			rng := rand.New(rand.NewSource(int64(v) + 1))
			qs = generation.ShuffleWithinDifficulty(cloneQuestions(questions), rng)
			for i := range qs {
				generation.ShuffleChoices(&qs[i], rng)
			}
		}

		tex, err := export.RenderTex(export.RenderContext{
			Title:          test.Title,
			VariantLabel:   variantLabels[v],
			Questions:      qs,
			ShowAnswerKey:  cfg.ShowAnswerKey,
			BrandHex:       cfg.BrandColor,
			HeaderSchool:   cfg.HeaderSchool,
			HeaderSubject:  cfg.HeaderSubject,
			HeaderDateLine: cfg.HeaderDateLine,
		})
		if err != nil {
			return nil, err
		}

		pdf, err := export.CompileTexToPDF(ctx, tex)
		if err != nil {
			return nil, err
		}
		pdfs = append(pdfs, pdf)
	}

	if len(pdfs) == 1 {
		return pdfs[0], nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for v, pdf := range pdfs {
		w, err := zw.Create(fmt.Sprintf("grupa-%s.pdf", variantLabels[v]))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(pdf); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportMoodleXML renders the Moodle XML export synchronously.
func (s *TestService) ExportMoodleXML(ctx context.Context, ownerID, testID uuid.UUID) ([]byte, string, error) {
	detail, err := s.Get(ctx, ownerID, testID)
	if err != nil {
		return nil, "", err
	}
	xmlData, err := export.TestToMoodleXML(detail.Test, detail.Questions)
	if err != nil {
		return nil, "", err
	}
	return xmlData, fmt.Sprintf("%s.xml", safeFilename(detail.Title)), nil
}

// ─── Helpers ─────────────────────────────────────────────────────────

// cloneQuestions deep-copies the choice slices so in-place shuffles on
// the clone never touch the source questions.
func cloneQuestions(questions []model.Question) []model.Question {
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		q.Choices = append([]string(nil), q.Choices...)
		q.CorrectChoices = append([]string(nil), q.CorrectChoices...)
		out[i] = q
	}
	return out
}

func (s *TestService) ownedTest(ctx context.Context, ownerID, testID uuid.UUID) (*model.Test, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if test.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return test, nil
}

// ownedQuestions loads the requested questions and rejects ids that do
// not belong to the test.
func (s *TestService) ownedQuestions(ctx context.Context, testID uuid.UUID, ids []uuid.UUID) ([]model.Question, error) {
	all, err := s.questions.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Question, len(all))
	for _, q := range all {
		byID[q.ID] = q
	}

	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, repository.ErrNotFound
		}
		out = append(out, q)
	}
	return out, nil
}

// afterEdit bumps updated_at and drops stale export cache entries.
func (s *TestService) afterEdit(ctx context.Context, testID uuid.UUID) {
	if err := s.tests.Touch(ctx, testID); err != nil {
		s.log.Warn().Err(err).Msg("failed to touch test")
	}
	s.invalidateExports(ctx, testID)
}

func (s *TestService) invalidateExports(ctx context.Context, testID uuid.UUID) {
	if err := s.cacheRepo.DeleteForTest(ctx, testID.String()); err != nil {
		s.log.Warn().Err(err).Msg("failed to drop export cache")
	}
}

func applyQuestionPatch(q *model.Question, patch *model.QuestionUpdateRequest) {
	if patch.Text != nil {
		q.Text = *patch.Text
	}
	if patch.Difficulty != nil {
		q.Difficulty = model.Difficulty(*patch.Difficulty)
	}
	if patch.Choices != nil {
		q.Choices = patch.Choices
	}
	if patch.CorrectChoices != nil {
		q.CorrectChoices = patch.CorrectChoices
	}
}

func exportArtifactMeta(title string, variants int) (filename, contentType string) {
	base := safeFilename(title)
	if variants > 1 {
		return base + ".zip", "application/zip"
	}
	return base + ".pdf", "application/pdf"
}

// safeFilename keeps letters, digits, spaces and dashes from the title.
func safeFilename(title string) string {
	out := make([]rune, 0, len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ':
			out = append(out, '-')
		case r == '-' || r == '_':
			out = append(out, r)
		case r > 127:
			// Polish letters survive, the filesystem copes.
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "test"
	}
	return string(out)
}
