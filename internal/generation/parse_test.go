package generation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

const validWrapper = `{
  "title": "Fotosynteza",
  "questions": [
    {"text": "Czy fotosynteza zachodzi w chloroplastach?", "is_closed": true, "difficulty": 1,
     "choices": ["Prawda", "Fałsz"], "correct_choices": ["Prawda"]},
    {"text": "Opisz przebieg fazy jasnej.", "is_closed": false, "difficulty": 3}
  ]
}`

func TestParseTestResponseWrapper(t *testing.T) {
	parsed, err := ParseTestResponse(validWrapper)
	if err != nil {
		t.Fatalf("ParseTestResponse: %v", err)
	}
	if parsed.Title != "Fotosynteza" {
		t.Errorf("title = %q", parsed.Title)
	}
	if len(parsed.Questions) != 2 {
		t.Fatalf("got %d questions", len(parsed.Questions))
	}
	if !parsed.Questions[0].IsClosed || parsed.Questions[1].IsClosed {
		t.Errorf("is_closed flags wrong")
	}
	if parsed.Questions[1].Choices != nil {
		t.Errorf("open question kept choices: %v", parsed.Questions[1].Choices)
	}
}

func TestParseTestResponseBareArray(t *testing.T) {
	raw := `[{"text": "Ile wynosi $2+2$?", "is_closed": true, "difficulty": 2,
	          "choices": ["3", "4", "5"], "correct_choices": ["4"]}]`
	parsed, err := ParseTestResponse(raw)
	if err != nil {
		t.Fatalf("ParseTestResponse: %v", err)
	}
	if parsed.Title != "" {
		t.Errorf("bare array should have no title, got %q", parsed.Title)
	}
	if len(parsed.Questions) != 1 {
		t.Fatalf("got %d questions", len(parsed.Questions))
	}
}

func TestParseTestResponseStripsFences(t *testing.T) {
	fenced := "```json\n" + validWrapper + "\n```"
	parsed, err := ParseTestResponse(fenced)
	if err != nil {
		t.Fatalf("fenced response rejected: %v", err)
	}
	if len(parsed.Questions) != 2 {
		t.Fatalf("got %d questions", len(parsed.Questions))
	}
}

func TestParseTestResponseIndicesNormalized(t *testing.T) {
	raw := `[{"text": "Wybierz liczby pierwsze.", "is_closed": true, "difficulty": 2,
	          "choices": ["2", "4", "7", "9"], "correct_choices": [0, 2]}]`
	parsed, err := ParseTestResponse(raw)
	if err != nil {
		t.Fatalf("ParseTestResponse: %v", err)
	}
	got := parsed.Questions[0].CorrectChoices
	if len(got) != 2 || got[0] != "2" || got[1] != "7" {
		t.Fatalf("indices not normalized to strings: %v", got)
	}
}

func TestParseTestResponseDifficultyStringFallback(t *testing.T) {
	cases := map[string]model.Difficulty{
		`"easy"`:   model.DifficultyEasy,
		`"łatwy"`:  model.DifficultyEasy,
		`"medium"`: model.DifficultyMedium,
		`"trudny"`: model.DifficultyHard,
		`"2"`:      model.DifficultyMedium,
		`3`:        model.DifficultyHard,
	}
	for rawDiff, want := range cases {
		raw := `[{"text": "Pytanie testowe?", "is_closed": false, "difficulty": ` + rawDiff + `}]`
		parsed, err := ParseTestResponse(raw)
		if err != nil {
			t.Fatalf("difficulty %s rejected: %v", rawDiff, err)
		}
		if parsed.Questions[0].Difficulty != want {
			t.Errorf("difficulty %s => %d, want %d", rawDiff, parsed.Questions[0].Difficulty, want)
		}
	}
}

func TestParseTestResponseMalformedJSONHasSnippet(t *testing.T) {
	bad := `{"questions": [{"text": "Urwane pytanie`
	_, err := ParseTestResponse(bad)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "Urwane pytanie") {
		t.Errorf("error does not name a snippet of the bad output: %v", err)
	}
}

func TestParseTestResponseSchemaViolations(t *testing.T) {
	cases := []string{
		// closed without choices
		`[{"text": "X?", "is_closed": true, "difficulty": 1}]`,
		// correct choice outside choices
		`[{"text": "X?", "is_closed": true, "difficulty": 1, "choices": ["A", "B"], "correct_choices": ["C"]}]`,
		// empty correct set
		`[{"text": "X?", "is_closed": true, "difficulty": 1, "choices": ["A", "B"], "correct_choices": []}]`,
		// difficulty out of range
		`[{"text": "X?", "is_closed": false, "difficulty": 7}]`,
		// blank text
		`[{"text": "  ", "is_closed": false, "difficulty": 1}]`,
	}
	for _, raw := range cases {
		if _, err := ParseTestResponse(raw); err == nil {
			t.Errorf("accepted invalid payload: %s", raw)
		}
	}
}

func TestParseTestResponseIdempotent(t *testing.T) {
	parsed, err := ParseTestResponse(validWrapper)
	if err != nil {
		t.Fatalf("ParseTestResponse: %v", err)
	}

	// Re-serialize into the wire shape and parse again.
	type wireQ struct {
		Text           string   `json:"text"`
		IsClosed       bool     `json:"is_closed"`
		Difficulty     int      `json:"difficulty"`
		Choices        []string `json:"choices,omitempty"`
		CorrectChoices []string `json:"correct_choices,omitempty"`
	}
	wire := struct {
		Title     string  `json:"title"`
		Questions []wireQ `json:"questions"`
	}{Title: parsed.Title}
	for _, q := range parsed.Questions {
		wire.Questions = append(wire.Questions, wireQ{
			Text: q.Text, IsClosed: q.IsClosed, Difficulty: int(q.Difficulty),
			Choices: q.Choices, CorrectChoices: q.CorrectChoices,
		})
	}
	raw, _ := json.Marshal(wire)

	again, err := ParseTestResponse(string(raw))
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(again.Questions) != len(parsed.Questions) {
		t.Fatalf("question count changed on re-parse")
	}
	for i := range again.Questions {
		a, b := again.Questions[i], parsed.Questions[i]
		if a.Text != b.Text || a.IsClosed != b.IsClosed || a.Difficulty != b.Difficulty {
			t.Errorf("question %d changed on re-parse", i)
		}
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n[1,2]\n```":         `[1,2]`,
		`{"a":1}`:                 `{"a":1}`,
		"  \n{\"a\":1}\n  ":       `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Errorf("StripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
