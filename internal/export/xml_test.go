package export

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

func TestTestToMoodleXML(t *testing.T) {
	test := model.Test{ID: uuid.New(), Title: "Biologia komórki"}
	questions := []model.Question{
		{ID: uuid.New(), Text: "Mitochondrium to centrum energetyczne komórki.", IsClosed: true,
			Difficulty: model.DifficultyEasy,
			Choices:    []string{"Prawda", "Fałsz"}, CorrectChoices: []string{"Prawda"}},
		{ID: uuid.New(), Text: "Wskaż organelle z własnym DNA.", IsClosed: true,
			Difficulty: model.DifficultyHard,
			Choices:    []string{"Mitochondrium", "Rybosom", "Chloroplast", "Lizosom"},
			CorrectChoices: []string{"Mitochondrium", "Chloroplast"}},
		{ID: uuid.New(), Text: "Opisz przebieg mitozy.", IsClosed: false, Difficulty: model.DifficultyMedium},
	}

	out, err := TestToMoodleXML(test, questions)
	if err != nil {
		t.Fatalf("TestToMoodleXML: %v", err)
	}

	var decoded xmlQuiz
	if err := xml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}

	// category + 3 questions
	if len(decoded.Questions) != 4 {
		t.Fatalf("got %d question elements, want 4", len(decoded.Questions))
	}

	cat := decoded.Questions[0]
	if cat.Type != "category" || cat.Category == nil || cat.Category.Text != "$course$/Biologia komórki" {
		t.Errorf("bad category header: %+v", cat)
	}

	single := decoded.Questions[1]
	if single.Type != "multichoice" || single.Single != "true" {
		t.Errorf("TF question should be single multichoice: %+v", single)
	}
	if single.ShuffleAnswers != "true" || single.AnswerNumbering != "abc" {
		t.Errorf("missing multichoice defaults: %+v", single)
	}

	multi := decoded.Questions[2]
	if multi.Single != "false" {
		t.Errorf("multi-answer question marked single")
	}
	fractions := 0
	for _, a := range multi.Answers {
		if a.Fraction == "50" {
			fractions++
		}
	}
	if fractions != 2 {
		t.Errorf("expected two 50%% fractions, got %d (%+v)", fractions, multi.Answers)
	}

	essay := decoded.Questions[3]
	if essay.Type != "essay" {
		t.Errorf("open question should be essay, got %q", essay.Type)
	}

	if !strings.HasPrefix(string(out), "<?xml") {
		t.Error("missing XML declaration")
	}
}
