package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inquizitor/inquizitor-backend/internal/llm"
	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// MaxAttempts is the full-regeneration cap. Each attempt additionally
// allows one repair round-trip.
const MaxAttempts = 3

// Generator orchestrates prompt building, LLM calls, validation/repair
// and question selection for one request.
type Generator struct {
	client llm.Client
	log    zerolog.Logger
}

// NewGenerator creates a Generator on top of the given LLM client.
func NewGenerator(client llm.Client, log zerolog.Logger) *Generator {
	return &Generator{
		client: client,
		log:    log.With().Str("component", "generator").Logger(),
	}
}

// GenerateTest runs the full pipeline: up to MaxAttempts prompts, each
// with a bounded single repair, followed by selection to exact counts.
// A selector failure feeds its reason into the next attempt's prompt.
// Quota errors abort immediately.
func (g *Generator) GenerateTest(ctx context.Context, sourceText string, p Params) (*ParsedTest, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	failureReason := ""
	var lastErr error

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		prompt := BuildTestPrompt(sourceText, p, failureReason)

		raw, err := g.client.GenerateText(ctx, prompt)
		if err != nil {
			if llm.IsQuotaError(err) {
				return nil, err
			}
			lastErr = fmt.Errorf("wywołanie modelu nie powiodło się: %w", err)
			g.log.Warn().Err(err).Int("attempt", attempt).Msg("LLM call failed")
			continue
		}

		parsed, err := g.parseWithRepair(ctx, raw, p)
		if err != nil {
			lastErr = err
			failureReason = shortReason(err)
			g.log.Warn().Err(err).Int("attempt", attempt).Msg("Response rejected")
			continue
		}

		selected, err := Select(parsed.Questions, p)
		if err != nil {
			lastErr = err
			failureReason = err.Error()
			g.log.Warn().Err(err).Int("attempt", attempt).Msg("Selection failed")
			continue
		}

		parsed.Questions = selected
		return parsed, nil
	}

	return nil, fmt.Errorf("generowanie nie powiodło się po %d próbach: %w", MaxAttempts, lastErr)
}

// parseWithRepair validates raw output, and on a contract violation asks
// the model once to fix its own response. If the repair also fails, the
// original error propagates.
func (g *Generator) parseWithRepair(ctx context.Context, raw string, p Params) (*ParsedTest, error) {
	parsed, origErr := ParseTestResponse(raw)
	if origErr == nil {
		return parsed, nil
	}

	var ce *ContractError
	if !errors.As(origErr, &ce) {
		return nil, origErr
	}

	g.log.Debug().Str("reason", ce.Reason).Msg("Attempting repair")

	repaired, err := g.client.GenerateText(ctx, BuildRepairPrompt(raw, p, ce.Reason))
	if err != nil {
		if llm.IsQuotaError(err) {
			return nil, err
		}
		return nil, origErr
	}

	parsed, err = ParseTestResponse(repaired)
	if err != nil {
		return nil, origErr
	}
	return parsed, nil
}

// RegenerateTwins asks for near-duplicate variants of the given
// questions, preserving id, is_closed and difficulty. A question whose
// variant breaks the schema falls back to the original unchanged.
func (g *Generator) RegenerateTwins(ctx context.Context, questions []model.Question, instruction string) ([]model.Question, error) {
	payloads := make([]map[string]any, len(questions))
	for i, q := range questions {
		payloads[i] = wirePayload(q, q.IsClosed)
	}

	raw, err := g.client.GenerateText(ctx, BuildRegenerationPrompt(payloads, instruction))
	if err != nil {
		return nil, err
	}

	variants, err := ParseQuestionArray(raw)
	if err != nil {
		// Whole response unusable: keep every original.
		g.log.Warn().Err(err).Msg("Regeneration response rejected, keeping originals")
		return questions, nil
	}

	out := make([]model.Question, len(questions))
	for i, q := range questions {
		v, ok := variants[q.ID]
		if !ok || v.IsClosed != q.IsClosed {
			out[i] = q
			continue
		}
		q.Text = v.Text
		q.Difficulty = v.Difficulty
		if q.IsClosed {
			q.Choices = v.Choices
			q.CorrectChoices = v.CorrectChoices
		}
		out[i] = q
	}
	return out, nil
}

// Convert rewrites questions between open and closed form. Per-question
// fallback keeps the original when the model's conversion is unusable.
func (g *Generator) Convert(ctx context.Context, questions []model.Question, toClosed bool) ([]model.Question, error) {
	payloads := make([]map[string]any, len(questions))
	for i, q := range questions {
		payloads[i] = wirePayload(q, !toClosed || q.IsClosed)
	}

	var prompt string
	if toClosed {
		prompt = BuildOpenToClosedPrompt(payloads)
	} else {
		prompt = BuildClosedToOpenPrompt(payloads)
	}

	raw, err := g.client.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	converted, parseErr := parseConversionArray(raw, toClosed)
	if parseErr != nil {
		g.log.Warn().Err(parseErr).Msg("Conversion response rejected, keeping originals")
		return questions, nil
	}

	out := make([]model.Question, len(questions))
	for i, q := range questions {
		v, ok := converted[q.ID]
		if !ok {
			out[i] = q
			continue
		}
		q.Text = v.Text
		q.IsClosed = toClosed
		if toClosed {
			q.Choices = v.Choices
			q.CorrectChoices = v.CorrectChoices
		} else {
			q.Choices = nil
			q.CorrectChoices = nil
		}
		out[i] = q
	}
	return out, nil
}

// parseConversionArray relaxes the is_closed check: conversion replies
// describe the target form, which closed→open replies omit entirely.
func parseConversionArray(raw string, toClosed bool) (map[uuid.UUID]model.Question, error) {
	if toClosed {
		return ParseQuestionArray(raw)
	}

	cleaned := StripFences(raw)
	var payloads []struct {
		ID         string          `json:"id"`
		Text       string          `json:"text"`
		Difficulty json.RawMessage `json:"difficulty"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payloads); err != nil {
		return nil, contractErr(cleaned, "niepoprawny JSON: %v", err)
	}

	out := make(map[uuid.UUID]model.Question, len(payloads))
	for i, p := range payloads {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, contractErr(cleaned, "pytanie %d: brak poprawnego pola id", i+1)
		}
		text := strings.TrimSpace(p.Text)
		if text == "" {
			return nil, contractErr(cleaned, "pytanie %d: puste pole text", i+1)
		}
		difficulty, err := parseDifficulty(p.Difficulty)
		if err != nil {
			return nil, contractErr(cleaned, "pytanie %d: %v", i+1, err)
		}
		out[id] = model.Question{ID: id, Text: text, Difficulty: difficulty}
	}
	return out, nil
}

// Analysis is the result of the document-analysis step.
type Analysis struct {
	RoutingTier    model.RoutingTier `json:"routing_tier"`
	MarkdownTwin   string            `json:"markdown_twin"`
	SuggestedTitle string            `json:"suggested_title"`
}

// AnalyzeDocument asks the model for a markdown twin, a routing tier and
// a suggested title. data may be nil when text already holds the content.
func (g *Generator) AnalyzeDocument(ctx context.Context, text, filename, mimeType string, data []byte) (*Analysis, error) {
	prompt := BuildDocumentAnalysisPrompt(text, filename, mimeType)

	var raw string
	var err error
	if len(data) > 0 {
		raw, err = g.client.GenerateWithDocument(ctx, prompt, data, mimeType)
	} else {
		raw, err = g.client.GenerateText(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	cleaned := StripFences(raw)
	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, contractErr(cleaned, "niepoprawny JSON analizy: %v", err)
	}
	if analysis.MarkdownTwin == "" {
		return nil, contractErr(cleaned, "analiza nie zawiera pola markdown_twin")
	}
	if analysis.RoutingTier != model.RoutingTierFast && analysis.RoutingTier != model.RoutingTierReasoning {
		analysis.RoutingTier = model.RoutingTierFast
	}
	return &analysis, nil
}

// shortReason compacts a contract error for re-prompting.
func shortReason(err error) string {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	return err.Error()
}
