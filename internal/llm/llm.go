package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrQuotaExceeded signals that the provider rejected the request because
// of rate or quota limits. Callers map it to a dedicated error code
// instead of retrying.
var ErrQuotaExceeded = errors.New("llm: quota exceeded")

// Client is the text-generation interface used by the generation
// pipeline and document analysis. Implementations return the raw model
// output; parsing and validation live in the caller.
type Client interface {
	// GenerateText sends a single text prompt and returns the model output.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateWithDocument sends a prompt together with an inline document.
	GenerateWithDocument(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
}

// IsQuotaError reports whether err (or its message) indicates an
// exhausted provider quota.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "QUOTA")
}
