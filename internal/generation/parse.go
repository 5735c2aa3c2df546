package generation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

const snippetLimit = 200

// ContractError reports a violation of the model's output contract:
// malformed JSON or a schema mismatch. Non-fatal to callers — it is the
// trigger for the repair path.
type ContractError struct {
	Reason  string
	Snippet string
}

func (e *ContractError) Error() string {
	if e.Snippet == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s (fragment odpowiedzi: %q)", e.Reason, e.Snippet)
}

func contractErr(raw, format string, args ...any) *ContractError {
	return &ContractError{
		Reason:  fmt.Sprintf(format, args...),
		Snippet: Snippet(raw),
	}
}

// Snippet truncates raw model output for inclusion in error messages.
func Snippet(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > snippetLimit {
		return s[:snippetLimit] + "…"
	}
	return s
}

// StripFences removes a surrounding Markdown code fence, with or without
// a language tag, from the model output.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		// A language tag like "json" sits alone on the fence line.
		if first == "" || !strings.ContainsAny(first, "{}[]\"") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParsedTest is the validated, ephemeral result of one generation call.
type ParsedTest struct {
	Title     string
	Questions []model.Question
}

// questionPayload is the wire form of one generated question. Difficulty
// accepts 1..3 or a textual fallback; correct_choices accepts answer
// strings or indices into choices.
type questionPayload struct {
	ID             string          `json:"id"`
	Text           string          `json:"text"`
	IsClosed       bool            `json:"is_closed"`
	Difficulty     json.RawMessage `json:"difficulty"`
	Choices        []string        `json:"choices"`
	CorrectChoices json.RawMessage `json:"correct_choices"`
}

type responseWrapper struct {
	Title     string            `json:"title"`
	Questions []questionPayload `json:"questions"`
}

// ParseTestResponse strips fences, decodes either a bare array or a
// {title, questions} wrapper, and schema-validates every question.
// Returns a *ContractError on any contract violation.
func ParseTestResponse(raw string) (*ParsedTest, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, contractErr(raw, "model zwrócił pustą odpowiedź")
	}

	var payloads []questionPayload
	title := ""

	if strings.HasPrefix(cleaned, "[") {
		if err := json.Unmarshal([]byte(cleaned), &payloads); err != nil {
			return nil, contractErr(cleaned, "niepoprawny JSON: %v", err)
		}
	} else {
		var wrapper responseWrapper
		if err := json.Unmarshal([]byte(cleaned), &wrapper); err != nil {
			return nil, contractErr(cleaned, "niepoprawny JSON: %v", err)
		}
		payloads = wrapper.Questions
		title = strings.TrimSpace(wrapper.Title)
	}

	if len(payloads) == 0 {
		return nil, contractErr(cleaned, "odpowiedź nie zawiera żadnych pytań")
	}

	questions := make([]model.Question, 0, len(payloads))
	for i, p := range payloads {
		q, err := p.toQuestion()
		if err != nil {
			return nil, contractErr(cleaned, "pytanie %d: %v", i+1, err)
		}
		questions = append(questions, q)
	}

	return &ParsedTest{Title: title, Questions: questions}, nil
}

// ParseQuestionArray decodes a bare array response (regeneration and
// conversion replies) into validated questions keyed by their ids.
func ParseQuestionArray(raw string) (map[uuid.UUID]model.Question, error) {
	cleaned := StripFences(raw)

	var payloads []questionPayload
	if err := json.Unmarshal([]byte(cleaned), &payloads); err != nil {
		return nil, contractErr(cleaned, "niepoprawny JSON: %v", err)
	}

	out := make(map[uuid.UUID]model.Question, len(payloads))
	for i, p := range payloads {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, contractErr(cleaned, "pytanie %d: brak poprawnego pola id", i+1)
		}
		q, err := p.toQuestion()
		if err != nil {
			return nil, contractErr(cleaned, "pytanie %d: %v", i+1, err)
		}
		q.ID = id
		out[id] = q
	}
	return out, nil
}

func (p questionPayload) toQuestion() (model.Question, error) {
	var q model.Question

	text := strings.TrimSpace(p.Text)
	if text == "" {
		return q, fmt.Errorf("puste pole text")
	}

	difficulty, err := parseDifficulty(p.Difficulty)
	if err != nil {
		return q, err
	}

	q.Text = text
	q.IsClosed = p.IsClosed
	q.Difficulty = difficulty

	if !p.IsClosed {
		// Open questions never carry choices, whatever the model sent.
		return q, nil
	}

	choices := make([]string, 0, len(p.Choices))
	for _, ch := range p.Choices {
		if trimmed := strings.TrimSpace(ch); trimmed != "" {
			choices = append(choices, trimmed)
		}
	}
	if len(choices) < 2 {
		return q, fmt.Errorf("pytanie zamknięte musi mieć co najmniej 2 opcje")
	}

	correct, err := parseCorrectChoices(p.CorrectChoices, choices)
	if err != nil {
		return q, err
	}
	if len(correct) == 0 {
		return q, fmt.Errorf("pytanie zamknięte musi mieć co najmniej jedną poprawną odpowiedź")
	}

	q.Choices = choices
	q.CorrectChoices = correct
	return q, nil
}

var difficultyNames = map[string]model.Difficulty{
	"easy":   model.DifficultyEasy,
	"łatwy":  model.DifficultyEasy,
	"latwy":  model.DifficultyEasy,
	"medium": model.DifficultyMedium,
	"średni": model.DifficultyMedium,
	"sredni": model.DifficultyMedium,
	"hard":   model.DifficultyHard,
	"trudny": model.DifficultyHard,
}

func parseDifficulty(raw json.RawMessage) (model.Difficulty, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("brak pola difficulty")
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		d := model.Difficulty(n)
		if !d.Valid() {
			return 0, fmt.Errorf("difficulty %d poza zakresem 1-3", n)
		}
		return d, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.ToLower(strings.TrimSpace(s))
		if d, ok := difficultyNames[s]; ok {
			return d, nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			d := model.Difficulty(n)
			if d.Valid() {
				return d, nil
			}
		}
		return 0, fmt.Errorf("nieznana wartość difficulty %q", s)
	}

	return 0, fmt.Errorf("niepoprawne pole difficulty")
}

// parseCorrectChoices accepts answer strings or zero-based indices into
// choices, normalizes to deduplicated strings and verifies the subset
// invariant.
func parseCorrectChoices(raw json.RawMessage, choices []string) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var asStrings []string
	if err := json.Unmarshal(raw, &asStrings); err == nil {
		return dedupeAgainst(asStrings, choices)
	}

	var asIndices []int
	if err := json.Unmarshal(raw, &asIndices); err == nil {
		resolved := make([]string, 0, len(asIndices))
		for _, idx := range asIndices {
			if idx < 0 || idx >= len(choices) {
				return nil, fmt.Errorf("indeks poprawnej odpowiedzi %d poza zakresem", idx)
			}
			resolved = append(resolved, choices[idx])
		}
		return dedupeAgainst(resolved, choices)
	}

	return nil, fmt.Errorf("niepoprawne pole correct_choices")
}

func dedupeAgainst(values, choices []string) ([]string, error) {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		found := false
		for _, ch := range choices {
			if ch == v {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("poprawna odpowiedź %q nie występuje wśród opcji", v)
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}
