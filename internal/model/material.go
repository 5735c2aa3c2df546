package model

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus tracks text extraction of an uploaded material.
type ProcessingStatus string

const (
	ProcessingPending ProcessingStatus = "pending"
	ProcessingRunning ProcessingStatus = "running"
	ProcessingDone    ProcessingStatus = "done"
	ProcessingFailed  ProcessingStatus = "failed"
)

// RoutingTier is the model tier suggested by document analysis.
type RoutingTier string

const (
	RoutingTierFast      RoutingTier = "fast"
	RoutingTierReasoning RoutingTier = "reasoning"
)

// Material is an uploaded source document together with its stored file
// and the results of extraction/analysis.
type Material struct {
	ID               uuid.UUID        `json:"id"`
	OwnerID          uuid.UUID        `json:"owner_id"`
	Filename         string           `json:"filename"`
	StoredPath       string           `json:"-"`
	MimeType         string           `json:"mime_type"`
	SizeBytes        int64            `json:"size_bytes"`
	PageCount        int              `json:"page_count"`
	Checksum         string           `json:"checksum"`
	ExtractedText    string           `json:"-"`
	MarkdownTwin     string           `json:"-"`
	SuggestedTitle   string           `json:"suggested_title,omitempty"`
	RoutingTier      RoutingTier      `json:"routing_tier,omitempty"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	ProcessingError  string           `json:"processing_error,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// HasText reports whether usable source text is available for generation.
func (m *Material) HasText() bool {
	return m.MarkdownTwin != "" || m.ExtractedText != ""
}

// SourceText returns the best available text representation, preferring
// the analyzed markdown twin over raw extraction output.
func (m *Material) SourceText() string {
	if m.MarkdownTwin != "" {
		return m.MarkdownTwin
	}
	return m.ExtractedText
}
