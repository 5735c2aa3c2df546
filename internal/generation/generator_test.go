package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/inquizitor/inquizitor-backend/internal/llm"
)

// scriptedClient returns canned responses in order and records prompts.
type scriptedClient struct {
	responses []string
	errs      []error
	prompts   []string
}

func (s *scriptedClient) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := len(s.prompts) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i >= len(s.responses) {
		return "", fmt.Errorf("no scripted response for call %d", i)
	}
	return s.responses[i], nil
}

func (s *scriptedClient) GenerateWithDocument(ctx context.Context, prompt string, _ []byte, _ string) (string, error) {
	return s.GenerateText(ctx, prompt)
}

func testParams() Params {
	return Params{TrueFalse: 1, SingleChoice: 1, Open: 0, Easy: 1, Medium: 1}
}

const goodResponse = `{
  "title": "Test",
  "questions": [
    {"text": "Woda wrze w 100 stopniach Celsjusza przy normalnym ciśnieniu.", "is_closed": true,
     "difficulty": 1, "choices": ["Prawda", "Fałsz"], "correct_choices": ["Prawda"]},
    {"text": "Który gaz dominuje w atmosferze?", "is_closed": true, "difficulty": 2,
     "choices": ["Tlen", "Azot", "Argon"], "correct_choices": ["Azot"]}
  ]
}`

func newTestGenerator(c llm.Client) *Generator {
	return NewGenerator(c, zerolog.Nop())
}

func TestGenerateTestFirstAttemptSuccess(t *testing.T) {
	client := &scriptedClient{responses: []string{goodResponse}}
	g := newTestGenerator(client)

	parsed, err := g.GenerateTest(context.Background(), "tekst źródłowy", testParams())
	if err != nil {
		t.Fatalf("GenerateTest: %v", err)
	}
	if len(parsed.Questions) != 2 {
		t.Fatalf("got %d questions", len(parsed.Questions))
	}
	if len(client.prompts) != 1 {
		t.Fatalf("expected 1 LLM call, got %d", len(client.prompts))
	}
}

func TestGenerateTestRepairPath(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"to nie jest json",
		goodResponse, // repair reply
	}}
	g := newTestGenerator(client)

	parsed, err := g.GenerateTest(context.Background(), "tekst", testParams())
	if err != nil {
		t.Fatalf("GenerateTest: %v", err)
	}
	if len(parsed.Questions) != 2 {
		t.Fatalf("got %d questions", len(parsed.Questions))
	}
	if len(client.prompts) != 2 {
		t.Fatalf("expected generation + repair, got %d calls", len(client.prompts))
	}
	if !strings.Contains(client.prompts[1], "nie była poprawnym JSON-em") {
		t.Errorf("second call is not a repair prompt")
	}
	if !strings.Contains(client.prompts[1], "to nie jest json") {
		t.Errorf("repair prompt does not embed the malformed output")
	}
}

// Under-delivery feeds the selector's reason into the next attempt's
// prompt and succeeds on retry.
func TestGenerateTestRetryWithReason(t *testing.T) {
	short := `{"questions": [
	  {"text": "Który gaz dominuje w atmosferze?", "is_closed": true, "difficulty": 1,
	   "choices": ["Tlen", "Azot"], "correct_choices": ["Azot"]}
	]}`
	client := &scriptedClient{responses: []string{short, goodResponse}}
	g := newTestGenerator(client)

	parsed, err := g.GenerateTest(context.Background(), "tekst", testParams())
	if err != nil {
		t.Fatalf("GenerateTest: %v", err)
	}
	if len(parsed.Questions) != 2 {
		t.Fatalf("got %d questions", len(parsed.Questions))
	}
	if len(client.prompts) != 2 {
		t.Fatalf("expected 2 attempts, got %d calls", len(client.prompts))
	}
	if !strings.Contains(client.prompts[1], "nie zwrócił wymaganej liczby pytań Prawda/Fałsz") {
		t.Errorf("retry prompt does not carry the failure reason")
	}
}

func TestGenerateTestGivesUpAfterMaxAttempts(t *testing.T) {
	short := `{"questions": [
	  {"text": "Pytanie?", "is_closed": true, "difficulty": 1,
	   "choices": ["Tlen", "Azot"], "correct_choices": ["Azot"]}
	]}`
	// Every attempt under-delivers; selection failures do not consume
	// the repair round-trip, so exactly MaxAttempts calls happen.
	client := &scriptedClient{responses: []string{short, short, short}}
	g := newTestGenerator(client)

	_, err := g.GenerateTest(context.Background(), "tekst", testParams())
	if err == nil {
		t.Fatal("expected failure after exhausted attempts")
	}
	if len(client.prompts) != MaxAttempts {
		t.Fatalf("expected %d attempts, got %d", MaxAttempts, len(client.prompts))
	}
	if !strings.Contains(err.Error(), "nie zwrócił wymaganej liczby") {
		t.Errorf("final error does not carry the last failure: %v", err)
	}
}

func TestGenerateTestQuotaAbortsImmediately(t *testing.T) {
	client := &scriptedClient{errs: []error{fmt.Errorf("%w: 429", llm.ErrQuotaExceeded)}}
	g := newTestGenerator(client)

	_, err := g.GenerateTest(context.Background(), "tekst", testParams())
	if !errors.Is(err, llm.ErrQuotaExceeded) {
		t.Fatalf("expected quota sentinel, got %v", err)
	}
	if len(client.prompts) != 1 {
		t.Fatalf("quota error must not be retried, got %d calls", len(client.prompts))
	}
}

func TestGenerateTestRejectsInvalidParams(t *testing.T) {
	g := newTestGenerator(&scriptedClient{})
	p := Params{TrueFalse: 2, Easy: 1} // difficulty sum mismatch

	if _, err := g.GenerateTest(context.Background(), "tekst", p); err == nil {
		t.Fatal("expected params validation error")
	}
}

func TestAnalyzeDocument(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"```json\n{\"routing_tier\": \"reasoning\", \"markdown_twin\": \"# Rozdział\", \"suggested_title\": \"Optyka falowa\"}\n```",
	}}
	g := newTestGenerator(client)

	a, err := g.AnalyzeDocument(context.Background(), "", "skrypt.pdf", "application/pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if a.RoutingTier != "reasoning" || a.SuggestedTitle != "Optyka falowa" {
		t.Errorf("unexpected analysis: %+v", a)
	}
}
