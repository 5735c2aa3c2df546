package generation

import (
	"strings"
	"testing"
)

func TestBuildTestPromptDeterministic(t *testing.T) {
	p := Params{TrueFalse: 2, SingleChoice: 3, MultiChoice: 1, Open: 2, Easy: 3, Medium: 3, Hard: 2,
		AdditionalInstructions: "Skup się na rozdziale 2."}

	first := BuildTestPrompt("treść materiału", p, "")
	for i := 0; i < 5; i++ {
		if BuildTestPrompt("treść materiału", p, "") != first {
			t.Fatal("prompt is not deterministic")
		}
	}
}

func TestBuildTestPromptEmbedsCounts(t *testing.T) {
	p := Params{TrueFalse: 2, SingleChoice: 3, MultiChoice: 1, Open: 4, Easy: 5, Medium: 3, Hard: 2}
	prompt := BuildTestPrompt("materiał", p, "")

	for _, want := range []string{
		"6 pytań zamkniętych",
		"4 pytań otwartych",
		"2 typu Prawda/Fałsz",
		"3 jednokrotnego wyboru",
		"1 wielokrotnego wyboru",
		"5 łatwych, 3 średnich, 2 trudnych",
		`"$...$"`,
		"WYŁĄCZNIE poprawny obiekt JSON",
		"materiał",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildTestPromptFailureReason(t *testing.T) {
	p := Params{TrueFalse: 1, Easy: 1}
	reason := "model nie zwrócił wymaganej liczby pytań Prawda/Fałsz (oczekiwano 1, otrzymano 0)"

	without := BuildTestPrompt("x", p, "")
	with := BuildTestPrompt("x", p, reason)

	if strings.Contains(without, "poprzednia próba") {
		t.Error("clean prompt mentions a previous attempt")
	}
	if !strings.Contains(with, reason) {
		t.Error("retry prompt does not carry the failure reason")
	}
}

func TestBuildDocumentAnalysisPrompt(t *testing.T) {
	prompt := BuildDocumentAnalysisPrompt("", "notatki.pdf", "application/pdf")
	for _, want := range []string{"routing_tier", "markdown_twin", "suggested_title", "notatki.pdf", "załączonego pliku"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("analysis prompt missing %q", want)
		}
	}

	withText := BuildDocumentAnalysisPrompt("jakiś tekst", "", "")
	if !strings.Contains(withText, "jakiś tekst") {
		t.Error("analysis prompt does not embed the source text")
	}
}
