package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the 1..3 question difficulty scale.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

// Valid reports whether d is within the 1..3 scale.
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// Question represents a single test question. Closed questions carry
// choices and at least one correct choice; open questions carry neither.
type Question struct {
	ID             uuid.UUID  `json:"id"`
	TestID         uuid.UUID  `json:"test_id"`
	Text           string     `json:"text"`
	IsClosed       bool       `json:"is_closed"`
	Difficulty     Difficulty `json:"difficulty"`
	Choices        []string   `json:"choices"`
	CorrectChoices []string   `json:"correct_choices"`
	Position       int        `json:"position"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Sanitize repairs a question read from storage or an external source.
// Blank choices are dropped, correct choices are re-checked against the
// remaining ones, and a closed question left without any correct choice
// falls back to its first choice. Open questions get choices cleared.
// Idempotent.
func (q *Question) Sanitize() {
	q.Text = strings.TrimSpace(q.Text)

	if !q.Difficulty.Valid() {
		q.Difficulty = DifficultyMedium
	}

	if !q.IsClosed {
		q.Choices = nil
		q.CorrectChoices = nil
		return
	}

	choices := make([]string, 0, len(q.Choices))
	for _, ch := range q.Choices {
		if trimmed := strings.TrimSpace(ch); trimmed != "" {
			choices = append(choices, trimmed)
		}
	}
	q.Choices = choices

	correct := make([]string, 0, len(q.CorrectChoices))
	seen := make(map[string]bool, len(q.CorrectChoices))
	for _, cc := range q.CorrectChoices {
		trimmed := strings.TrimSpace(cc)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		if !containsString(q.Choices, trimmed) {
			continue
		}
		seen[trimmed] = true
		correct = append(correct, trimmed)
	}

	if len(correct) == 0 && len(q.Choices) > 0 {
		correct = append(correct, q.Choices[0])
	}
	q.CorrectChoices = correct
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// QuestionCreateRequest is the payload for adding a question to a test.
type QuestionCreateRequest struct {
	Text           string   `json:"text" binding:"required,min=1,max=4000"`
	IsClosed       bool     `json:"is_closed"`
	Difficulty     int      `json:"difficulty" binding:"required,min=1,max=3"`
	Choices        []string `json:"choices"`
	CorrectChoices []string `json:"correct_choices"`
}

// QuestionUpdateRequest is the partial-update payload for a question.
type QuestionUpdateRequest struct {
	Text           *string  `json:"text" binding:"omitempty,min=1,max=4000"`
	Difficulty     *int     `json:"difficulty" binding:"omitempty,min=1,max=3"`
	Choices        []string `json:"choices"`
	CorrectChoices []string `json:"correct_choices"`
}

// QuestionBulkUpdateRequest applies the same partial update to many questions.
type QuestionBulkUpdateRequest struct {
	QuestionIDs []uuid.UUID           `json:"question_ids" binding:"required,min=1"`
	Patch       QuestionUpdateRequest `json:"patch" binding:"required"`
}

// QuestionBulkDeleteRequest removes many questions at once.
type QuestionBulkDeleteRequest struct {
	QuestionIDs []uuid.UUID `json:"question_ids" binding:"required,min=1"`
}

// QuestionRegenerateRequest asks for twin variants of the given questions.
type QuestionRegenerateRequest struct {
	QuestionIDs    []uuid.UUID `json:"question_ids" binding:"required,min=1"`
	Instruction    string      `json:"instruction" binding:"omitempty,max=500"`
	TurnstileToken string      `json:"-"`
}

// QuestionConvertRequest converts questions between open and closed form.
type QuestionConvertRequest struct {
	QuestionIDs []uuid.UUID `json:"question_ids" binding:"required,min=1"`
	ToClosed    bool        `json:"to_closed"`
}
