package generation

import (
	"errors"
	"strings"
	"testing"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

func tfQuestion(text string) model.Question {
	return model.Question{
		Text: text, IsClosed: true, Difficulty: model.DifficultyEasy,
		Choices: []string{"Prawda", "Fałsz"}, CorrectChoices: []string{"Prawda"},
	}
}

func singleQuestion(text string) model.Question {
	return model.Question{
		Text: text, IsClosed: true, Difficulty: model.DifficultyMedium,
		Choices: []string{"A", "B", "C", "D"}, CorrectChoices: []string{"B"},
	}
}

func multiQuestion(text string) model.Question {
	return model.Question{
		Text: text, IsClosed: true, Difficulty: model.DifficultyHard,
		Choices: []string{"A", "B", "C", "D"}, CorrectChoices: []string{"A", "C"},
	}
}

func openQuestion(text string) model.Question {
	return model.Question{Text: text, IsClosed: false, Difficulty: model.DifficultyHard}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		q    model.Question
		want ClosedKind
	}{
		{tfQuestion("TF"), KindTrueFalse},
		{singleQuestion("S"), KindSingleChoice},
		{multiQuestion("M"), KindMultiChoice},
		{openQuestion("O"), KindOpen},
		// English true/false wording counts as TF too.
		{model.Question{IsClosed: true, Choices: []string{"True", "False"}, CorrectChoices: []string{"True"}}, KindTrueFalse},
		// Two choices not worded as TF with one correct answer is single-choice.
		{model.Question{IsClosed: true, Choices: []string{"Tlen", "Azot"}, CorrectChoices: []string{"Tlen"}}, KindSingleChoice},
		// Two TF-worded choices with both marked correct: TF wins over multi.
		{model.Question{IsClosed: true, Choices: []string{"Prawda", "Fałsz"}, CorrectChoices: []string{"Prawda", "Fałsz"}}, KindTrueFalse},
	}
	for i, c := range cases {
		if got := Classify(c.q); got != c.want {
			t.Errorf("case %d: Classify = %d, want %d", i, got, c.want)
		}
	}
}

// Worked example: 2 TF + 1 single + 1 open requested, exactly matching
// candidates available. Selector must return 4 questions in order
// [TF, TF, single, open].
func TestSelectExactCounts(t *testing.T) {
	questions := []model.Question{
		openQuestion("O1"),
		tfQuestion("TF1"),
		singleQuestion("S1"),
		tfQuestion("TF2"),
	}
	p := Params{TrueFalse: 2, SingleChoice: 1, Open: 1, Easy: 2, Medium: 1, Hard: 1}

	got, err := Select(questions, p)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d questions, want 4", len(got))
	}
	wantOrder := []string{"TF1", "TF2", "S1", "O1"}
	for i, w := range wantOrder {
		if got[i].Text != w {
			t.Errorf("position %d: got %q, want %q", i, got[i].Text, w)
		}
	}
}

func TestSelectTruncatesExcess(t *testing.T) {
	questions := []model.Question{
		tfQuestion("TF1"), tfQuestion("TF2"), tfQuestion("TF3"),
		openQuestion("O1"), openQuestion("O2"),
	}
	p := Params{TrueFalse: 1, Open: 1, Easy: 1, Hard: 1}

	got, err := Select(questions, p)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2", len(got))
	}
	// First-come within each bucket.
	if got[0].Text != "TF1" || got[1].Text != "O1" {
		t.Errorf("unexpected selection: %q, %q", got[0].Text, got[1].Text)
	}
}

// Worked example: only 1 TF candidate against a request for 2 must fail
// with the descriptive under-delivery message.
func TestSelectUnderDelivery(t *testing.T) {
	questions := []model.Question{
		tfQuestion("TF1"),
		singleQuestion("S1"),
	}
	p := Params{TrueFalse: 2, SingleChoice: 1, Easy: 2, Medium: 1}

	_, err := Select(questions, p)
	if err == nil {
		t.Fatal("expected under-delivery error")
	}

	var ude *UnderDeliveryError
	if !errors.As(err, &ude) {
		t.Fatalf("expected *UnderDeliveryError, got %T", err)
	}
	if ude.Requested != 2 || ude.Got != 1 {
		t.Errorf("counts: requested=%d got=%d", ude.Requested, ude.Got)
	}
	if !strings.Contains(err.Error(), "nie zwrócił wymaganej liczby pytań Prawda/Fałsz") {
		t.Errorf("message does not name the short bucket: %v", err)
	}
}

func TestSelectEveryClosedHasCorrectSubset(t *testing.T) {
	questions := []model.Question{
		tfQuestion("TF1"), singleQuestion("S1"), multiQuestion("M1"),
	}
	p := Params{TrueFalse: 1, SingleChoice: 1, MultiChoice: 1, Easy: 1, Medium: 1, Hard: 1}

	got, err := Select(questions, p)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	for _, q := range got {
		if !q.IsClosed {
			continue
		}
		if len(q.CorrectChoices) == 0 {
			t.Errorf("question %q has no correct choices", q.Text)
		}
		for _, cc := range q.CorrectChoices {
			found := false
			for _, ch := range q.Choices {
				if ch == cc {
					found = true
				}
			}
			if !found {
				t.Errorf("question %q: correct choice %q not among choices", q.Text, cc)
			}
		}
	}
}
