package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeDropsBlankChoices(t *testing.T) {
	q := Question{
		Text:           "  Stolica Polski?  ",
		IsClosed:       true,
		Difficulty:     DifficultyEasy,
		Choices:        []string{"Warszawa", "  ", "", "Kraków"},
		CorrectChoices: []string{"Warszawa"},
	}
	q.Sanitize()

	assert.Equal(t, "Stolica Polski?", q.Text)
	assert.Equal(t, []string{"Warszawa", "Kraków"}, q.Choices)
	assert.Equal(t, []string{"Warszawa"}, q.CorrectChoices)
}

func TestSanitizeRemovesUnknownCorrectChoices(t *testing.T) {
	q := Question{
		Text:           "2+2?",
		IsClosed:       true,
		Difficulty:     DifficultyEasy,
		Choices:        []string{"3", "4"},
		CorrectChoices: []string{"4", "5", "4"},
	}
	q.Sanitize()

	assert.Equal(t, []string{"4"}, q.CorrectChoices)
}

func TestSanitizeFallsBackToFirstChoice(t *testing.T) {
	q := Question{
		Text:           "Pytanie bez poprawnej odpowiedzi",
		IsClosed:       true,
		Difficulty:     DifficultyMedium,
		Choices:        []string{"A", "B"},
		CorrectChoices: []string{"C"},
	}
	q.Sanitize()

	assert.Equal(t, []string{"A"}, q.CorrectChoices)
}

func TestSanitizeClearsChoicesForOpenQuestions(t *testing.T) {
	q := Question{
		Text:           "Opisz proces fotosyntezy.",
		IsClosed:       false,
		Difficulty:     DifficultyHard,
		Choices:        []string{"nie", "powinno", "tu być"},
		CorrectChoices: []string{"nie"},
	}
	q.Sanitize()

	assert.Nil(t, q.Choices)
	assert.Nil(t, q.CorrectChoices)
}

func TestSanitizeRepairsDifficulty(t *testing.T) {
	q := Question{Text: "x", Difficulty: Difficulty(9)}
	q.Sanitize()
	assert.Equal(t, DifficultyMedium, q.Difficulty)
}

func TestSanitizeIsIdempotent(t *testing.T) {
	q := Question{
		Text:           " Pytanie ",
		IsClosed:       true,
		Difficulty:     DifficultyEasy,
		Choices:        []string{"A", " ", "B"},
		CorrectChoices: []string{"B", "X"},
	}
	q.Sanitize()
	first := q
	q.Sanitize()
	assert.Equal(t, first, q)
}

func TestGenerateRequestSourceExclusivity(t *testing.T) {
	id := uuid.New()

	both := GenerateTestRequest{Text: "jakiś tekst źródłowy", MaterialID: &id}
	assert.False(t, both.HasExactlyOneSource())

	neither := GenerateTestRequest{}
	assert.False(t, neither.HasExactlyOneSource())

	textOnly := GenerateTestRequest{Text: "jakiś tekst źródłowy"}
	assert.True(t, textOnly.HasExactlyOneSource())

	materialOnly := GenerateTestRequest{MaterialID: &id}
	assert.True(t, materialOnly.HasExactlyOneSource())
}

func TestGenerateRequestDifficultySum(t *testing.T) {
	req := GenerateTestRequest{
		Closed:    ClosedCounts{TrueFalse: 2, SingleChoice: 3},
		NumOpen:   1,
		NumEasy:   2,
		NumMedium: 3,
		NumHard:   1,
	}
	assert.Equal(t, 6, req.TotalQuestions())
	assert.True(t, req.DifficultySumMatches())

	req.NumHard = 2
	assert.False(t, req.DifficultySumMatches())
}
