package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

const (
	// MaxInlineBytes is the largest document sent inline with a prompt.
	MaxInlineBytes = 20 * 1024 * 1024

	requestTimeout = 5 * time.Minute
	retryDelay     = 2 * time.Second
	maxAPIRetries  = 3
)

// GeminiClient implements Client on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    zerolog.Logger
}

// NewGeminiClient creates a Gemini-backed client for the given model name.
// The model is pinned to JSON output with a low temperature.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, log zerolog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)
	model.SetTopK(40)
	model.SetTopP(0.95)

	return &GeminiClient{
		client: client,
		model:  model,
		log:    log.With().Str("component", "gemini").Str("model", modelName).Logger(),
	}, nil
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() {
	g.client.Close()
}

// GenerateText sends a single text prompt and returns the raw output.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, genai.Text(prompt))
}

// GenerateWithDocument sends a prompt together with an inline document blob.
func (g *GeminiClient) GenerateWithDocument(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("document is empty")
	}
	if len(data) > MaxInlineBytes {
		return "", fmt.Errorf("document exceeds inline limit (%d bytes)", len(data))
	}
	return g.generate(ctx, genai.Text(prompt), genai.Blob{MIMEType: mimeType, Data: data})
}

func (g *GeminiClient) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= maxAPIRetries; attempt++ {
		resp, err := g.model.GenerateContent(ctx, parts...)
		if err != nil {
			if IsQuotaError(err) {
				return "", fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
			}
			lastErr = fmt.Errorf("generate content (attempt %d): %w", attempt, err)
			g.log.Warn().Err(err).Int("attempt", attempt).Msg("Gemini request failed")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryDelay):
			}
			continue
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			lastErr = fmt.Errorf("no content generated (attempt %d)", attempt)
			continue
		}

		text := ""
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
		if text == "" {
			lastErr = fmt.Errorf("empty text response (attempt %d)", attempt)
			continue
		}
		return text, nil
	}

	return "", lastErr
}
