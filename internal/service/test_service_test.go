package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sprawdzian z biologii", "Sprawdzian-z-biologii"},
		{"Test: klasa 3b?", "Test-klasa-3b"},
		{"Żółć i gęś", "Żółć-i-gęś"},
		{"***", "test"},
		{"", "test"},
		{"ok_name-1", "ok_name-1"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, safeFilename(tc.in), "input %q", tc.in)
	}
}

func TestExportArtifactMeta(t *testing.T) {
	name, ct := exportArtifactMeta("Kartkówka", 1)
	assert.Equal(t, "Kartkówka.pdf", name)
	assert.Equal(t, "application/pdf", ct)

	name, ct = exportArtifactMeta("Kartkówka", 3)
	assert.Equal(t, "Kartkówka.zip", name)
	assert.Equal(t, "application/zip", ct)
}

func TestCloneQuestionsDetachesChoices(t *testing.T) {
	src := []model.Question{
		{Text: "Stolica Polski?", IsClosed: true,
			Choices:        []string{"Warszawa", "Kraków", "Gdańsk"},
			CorrectChoices: []string{"Warszawa"}},
	}

	clone := cloneQuestions(src)
	clone[0].Choices[0], clone[0].Choices[2] = clone[0].Choices[2], clone[0].Choices[0]
	clone[0].CorrectChoices[0] = "Gdańsk"
	clone[0].Text = "Inne pytanie"

	assert.Equal(t, []string{"Warszawa", "Kraków", "Gdańsk"}, src[0].Choices)
	assert.Equal(t, []string{"Warszawa"}, src[0].CorrectChoices)
	assert.Equal(t, "Stolica Polski?", src[0].Text)
}

func TestApplyQuestionPatchPartial(t *testing.T) {
	q := model.Question{
		Text:           "Stare pytanie",
		IsClosed:       true,
		Difficulty:     model.DifficultyEasy,
		Choices:        []string{"A", "B"},
		CorrectChoices: []string{"A"},
	}

	newText := "Nowe pytanie"
	applyQuestionPatch(&q, &model.QuestionUpdateRequest{Text: &newText})

	assert.Equal(t, "Nowe pytanie", q.Text)
	assert.Equal(t, model.DifficultyEasy, q.Difficulty)
	assert.Equal(t, []string{"A", "B"}, q.Choices)
}

func TestApplyQuestionPatchFull(t *testing.T) {
	q := model.Question{
		Text:       "Pytanie",
		IsClosed:   true,
		Difficulty: model.DifficultyEasy,
		Choices:    []string{"A", "B"},
	}

	diff := 3
	applyQuestionPatch(&q, &model.QuestionUpdateRequest{
		Difficulty:     &diff,
		Choices:        []string{"C", "D", "E"},
		CorrectChoices: []string{"D"},
	})

	assert.Equal(t, model.DifficultyHard, q.Difficulty)
	assert.Equal(t, []string{"C", "D", "E"}, q.Choices)
	assert.Equal(t, []string{"D"}, q.CorrectChoices)
}

func TestInvalidRequestErrorUnwraps(t *testing.T) {
	inner := ErrSourceRequired
	err := &InvalidRequestError{Err: inner}

	assert.ErrorIs(t, err, ErrSourceRequired)
	assert.Equal(t, inner.Error(), err.Error())
}
