package model

import (
	"time"

	"github.com/google/uuid"
)

// Test is a generated or hand-built quiz owned by a single user.
type Test struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TestWithQuestions is the detail view returned by GET /tests/:id.
type TestWithQuestions struct {
	Test
	Questions []Question `json:"questions"`
}

// ClosedCounts splits the closed-question request into sub-types.
type ClosedCounts struct {
	TrueFalse    int `json:"true_false" binding:"min=0"`
	SingleChoice int `json:"single_choice" binding:"min=0"`
	MultiChoice  int `json:"multi_choice" binding:"min=0"`
}

// Total returns the number of closed questions requested.
func (c ClosedCounts) Total() int {
	return c.TrueFalse + c.SingleChoice + c.MultiChoice
}

// GenerateTestRequest is the payload for POST /tests/generate.
// Exactly one of Text and MaterialID must be set; the difficulty split
// must sum to the total question count.
type GenerateTestRequest struct {
	Title                  string       `json:"title" binding:"omitempty,max=200"`
	Text                   string       `json:"text" binding:"omitempty,min=20"`
	MaterialID             *uuid.UUID   `json:"material_id"`
	Closed                 ClosedCounts `json:"closed"`
	NumOpen                int          `json:"num_open" binding:"min=0"`
	NumEasy                int          `json:"num_easy" binding:"min=0"`
	NumMedium              int          `json:"num_medium" binding:"min=0"`
	NumHard                int          `json:"num_hard" binding:"min=0"`
	AdditionalInstructions string       `json:"additional_instructions" binding:"omitempty,max=2000"`
	TurnstileToken         string       `json:"-"`
}

// TotalQuestions returns the overall requested question count.
func (r GenerateTestRequest) TotalQuestions() int {
	return r.Closed.Total() + r.NumOpen
}

// HasExactlyOneSource reports whether exactly one content source was given.
func (r GenerateTestRequest) HasExactlyOneSource() bool {
	return (r.Text != "") != (r.MaterialID != nil)
}

// DifficultySumMatches reports whether the easy/medium/hard split covers
// every requested question.
func (r GenerateTestRequest) DifficultySumMatches() bool {
	return r.NumEasy+r.NumMedium+r.NumHard == r.TotalQuestions()
}

// TestCreateRequest creates an empty test.
type TestCreateRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

// TestTitleUpdateRequest renames a test.
type TestTitleUpdateRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

// ShuffleRequest reorders questions randomly within each difficulty bucket.
type ShuffleRequest struct {
	Seed *int64 `json:"seed"`
}

// PdfExportConfig controls PDF rendering. The zero value is the default
// single-variant export without an answer key.
type PdfExportConfig struct {
	Variants       int    `json:"variants" binding:"omitempty,min=1,max=8"`
	ShuffleInside  bool   `json:"shuffle_inside"`
	ShowAnswerKey  bool   `json:"show_answer_key"`
	BrandColor     string `json:"brand_color" binding:"omitempty,hexcolor"`
	HeaderSchool   string `json:"header_school" binding:"omitempty,max=200"`
	HeaderSubject  string `json:"header_subject" binding:"omitempty,max=200"`
	HeaderDateLine bool   `json:"header_date_line"`
}
