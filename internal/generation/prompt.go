package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shared prompt fragments. Every feature talking to the model goes
// through these so persona, LaTeX contract and constraints stay in sync.
const (
	persona = "Pracujesz jako polski ekspert dydaktyczny i pedagogiczny."

	latexRules = "- Jeśli w treści pytania lub odpowiedzi pojawia się zapis matematyczny (wzór, równanie, wyrażenie), zapisuj go w składni LaTeX.\n" +
		"- Dla matematyki w tekście używaj WYŁĄCZNIE formatu \"$...$\", np.: `\"text\": \"Ile wynosi $x^2 + y^2$?\"`.\n" +
		"- Dla osobnych wzorów możesz użyć `$$...$$`, np.: `\"text\": \"Podaj wynik: $$\\int_0^1 x^2\\,dx$$\"`.\n" +
		"- Nie używaj innych notacji (takich jak \\( ... \\), \\[ ... \\], HTML, Markdown).\n" +
		"- Upewnij się, że wszystkie backslash'e w LaTeX są poprawnie zapisane w JSON (np. \"$\\frac{1}{2}$\")."

	generalConstraints = "- Każde pytanie i wszystkie odpowiedzi muszą być w języku polskim.\n" +
		"- NIE numeruj treści pytań ani odpowiedzi: nie dodawaj prefiksów typu '1.', 'Pytanie 1', '-', '•' ani innych numerów w polach `text` i `choices`.\n" +
		"- Wszystkie pytania muszą wynikać z tekstu źródłowego; nie wymyślaj danych ani nazw własnych.\n" +
		"- Preferuj pytania sprawdzające zrozumienie pojęć, relacji, wnioskowania niż czyste zapamiętywanie faktów."
)

// BuildTestPrompt renders the full-test generation prompt. Deterministic:
// identical inputs produce the identical string. failureReason, when
// non-empty, carries the previous attempt's selector error so the model
// can correct the bucket counts.
func BuildTestPrompt(sourceText string, p Params, failureReason string) string {
	parts := []string{
		persona,
		fmt.Sprintf("Twoim zadaniem jest przygotowanie testu (%d pytań zamkniętych, %d pytań otwartych) na podstawie dostarczonego materiału w formacie Markdown.",
			p.TotalClosed(), p.Open),
		"Materiał ten jest 'cyfrowym bliźniakiem' oryginalnego dokumentu, zawierającym pełną treść, opisy tabel, schematów i ilustracji.",
		fmt.Sprintf("Wymagany podział pytań zamkniętych: %d typu Prawda/Fałsz (dokładnie dwie opcje: \"Prawda\" i \"Fałsz\"), %d jednokrotnego wyboru (dokładnie jedna poprawna odpowiedź), %d wielokrotnego wyboru (co najmniej dwie poprawne odpowiedzi).",
			p.TrueFalse, p.SingleChoice, p.MultiChoice),
		fmt.Sprintf("Rozkład trudności: %d łatwych, %d średnich, %d trudnych.", p.Easy, p.Medium, p.Hard),
	}

	if p.AdditionalInstructions != "" {
		parts = append(parts, fmt.Sprintf("Dodatkowe instrukcje (PRIORYTET): %s", p.AdditionalInstructions))
	}
	if failureReason != "" {
		parts = append(parts, fmt.Sprintf("UWAGA: poprzednia próba została odrzucona z powodu: %s. Popraw to w tej odpowiedzi.", failureReason))
	}

	parts = append(parts,
		"",
		"### WYMAGANY FORMAT ODPOWIEDZI (JSON):",
		"Zwróć WYŁĄCZNIE poprawny obiekt JSON o następującej strukturze:",
		"{",
		`  "title": "Krótki tytuł testu po polsku",`,
		`  "questions": [`,
		`    {`,
		`      "text": "Treść pytania",`,
		`      "is_closed": true,`,
		`      "difficulty": 1,`,
		`      "choices": ["Opcja A", "Opcja B", "Opcja C", "Opcja D"],`,
		`      "correct_choices": ["Opcja A"]`,
		`    },`,
		`    {`,
		`      "text": "Treść pytania otwartego", "is_closed": false, `,
		`      "difficulty": 2, "choices": null, "correct_choices": null`,
		`    }`,
		`  ]`,
		"}",
		"",
		"Wymagania i formatowanie:",
		latexRules,
		generalConstraints,
		"- Tytuł (`title`) musi być krótką, autonomiczną nazwą testu sformułowaną na podstawie głównego tematu dokumentu. NIE kopiuj bezkrytycznie pierwszego nagłówka z tekstu źródłowego, jeśli nie oddaje on esencji całego materiału.",
		"",
		fmt.Sprintf("Tekst źródłowy (Markdown Twin):\n%s", sourceText),
	)

	return strings.Join(parts, "\n")
}

// BuildRepairPrompt asks the model to fix its own malformed output.
// Used at most once per attempt.
func BuildRepairPrompt(badOutput string, p Params, parseErr string) string {
	parts := []string{
		persona,
		"Twoja poprzednia odpowiedź nie była poprawnym JSON-em zgodnym z wymaganym schematem.",
		fmt.Sprintf("Błąd: %s", parseErr),
		"",
		"Popraw poniższą odpowiedź i zwróć WYŁĄCZNIE poprawny obiekt JSON o strukturze:",
		`{"title": "...", "questions": [{"text": "...", "is_closed": true, "difficulty": 1, "choices": ["..."], "correct_choices": ["..."]}]}`,
		fmt.Sprintf("Test musi zawierać %d pytań Prawda/Fałsz, %d jednokrotnego wyboru, %d wielokrotnego wyboru i %d pytań otwartych.",
			p.TrueFalse, p.SingleChoice, p.MultiChoice, p.Open),
		"Nie dodawaj żadnych komentarzy ani znaczników Markdown.",
		"",
		fmt.Sprintf("Odpowiedź do naprawienia:\n%s", badOutput),
	}
	return strings.Join(parts, "\n")
}

// BuildRegenerationPrompt renders the twin-variant prompt for the given
// question payloads (already serialized to the wire schema).
func BuildRegenerationPrompt(questions []map[string]any, instruction string) string {
	raw, _ := json.Marshal(questions)

	parts := []string{
		persona,
		"Twoim zadaniem jest wygenerowanie nowych wariantów dla pytań.",
		"Zasady:",
		"- Zachowaj oryginalne 'id', 'is_closed' oraz 'difficulty' dla każdego pytania.",
		"- Zmień treść pytania i opcje tak, aby sprawdzały tę samą wiedzę, ale w nowy sposób (np. inne dane liczbowe, inne przykłady).",
		"- BĄDŹ CZUJNY NA BŁĘDY: Jeśli w wejściowym pytaniu widzisz błąd merytoryczny, językowy lub logiczny, NAPRAW GO w nowym wariancie.",
		"- Nowe pytania muszą być bezbłędne, jasne i dydaktycznie wartościowe.",
		"",
		"### WYMAGANY FORMAT ODPOWIEDZI (JSON):",
		"Zwróć WYŁĄCZNIE listę obiektów JSON (Array) o strukturze:",
		`[ {"id": "uuid", "text": "...", "is_closed": true, "difficulty": 1, "choices": ["...", "..."], "correct_choices": ["..."]} ]`,
		"",
		"Wymagania i formatowanie:",
		latexRules,
		generalConstraints,
		"",
	}
	if instruction != "" {
		parts = append(parts, fmt.Sprintf("SKUP SIĘ NA (INSTRUKCJA UŻYTKOWNIKA): %s", instruction), "")
	}
	parts = append(parts, fmt.Sprintf("Pytania do regeneracji (JSON):\n%s", raw))
	return strings.Join(parts, "\n")
}

// BuildOpenToClosedPrompt renders the open→closed conversion prompt.
func BuildOpenToClosedPrompt(questions []map[string]any) string {
	raw, _ := json.Marshal(questions)

	parts := []string{
		persona,
		"Twoim zadaniem jest przekształcenie pytań OTWARTYCH w pytania ZAMKNIĘTE (wyboru).",
		"Zasady:",
		"1. Stwórz 4 sensowne opcje wyboru (choices).",
		"2. Wskaż co najmniej jedną poprawną odpowiedź (correct_choices).",
		"3. MOŻESZ lekko zmodyfikować pole 'text', aby pasowało do formatu pytania zamkniętego.",
		"4. Zachowaj oryginalne 'id' i 'difficulty'.",
		"5. UNIKAJ pytań o metodę rozwiązania lub teorię (np. 'Jak należy obliczyć...', 'Który wzór jest poprawny...').",
		"6. ZAMIAST TEGO stwórz bezpośrednie pytanie o wynik, fakt lub informację. Opcje wyboru powinny być konkretnymi wartościami, nazwami lub odpowiedziami merytorycznymi.",
		"",
		"### WYMAGANY FORMAT ODPOWIEDZI (JSON):",
		"Zwróć WYŁĄCZNIE listę obiektów JSON (Array) o strukturze:",
		`[ {"id": "uuid", "text": "...", "is_closed": true, "difficulty": 2, "choices": ["...", "..."], "correct_choices": ["..."]} ]`,
		"",
		"Wymagania i formatowanie:",
		latexRules,
		generalConstraints,
		"",
		fmt.Sprintf("Pytania do konwersji (JSON):\n%s", raw),
	}
	return strings.Join(parts, "\n")
}

// BuildClosedToOpenPrompt renders the closed→open conversion prompt.
// Choices and correct answers ride along as context only.
func BuildClosedToOpenPrompt(questions []map[string]any) string {
	raw, _ := json.Marshal(questions)

	parts := []string{
		persona,
		"Twoim zadaniem jest przekształcenie pytań ZAMKNIĘTYCH (wyboru) w pytania OTWARTE.",
		"Otrzymasz treść pytania, opcje wyboru oraz poprawne odpowiedzi jako kontekst.",
		"",
		"Zasady:",
		"1. PRZEREDAGUJ treść pytania (pole 'text') tak, aby było samodzielnym pytaniem otwartym.",
		"2. USUŃ wszelkie nawiązania do wyboru opcji (np. 'Która z podanych...', 'Z poniższych odpowiedzi...', 'Wskaż...').",
		"3. WYKORZYSTAJ informacje z poprawnych odpowiedzi, aby pytanie było precyzyjne.",
		"4. Zachowaj oryginalne 'id' i 'difficulty'.",
		"5. Pytanie musi być sformułowane tak, aby uczeń musiał samodzielnie sformułować odpowiedź.",
		"",
		"### WYMAGANY FORMAT ODPOWIEDZI (JSON):",
		"Zwróć WYŁĄCZNIE listę obiektów JSON (Array) o strukturze:",
		`[ {"id": "uuid", "text": "...", "difficulty": 1} ]`,
		"",
		"Wymagania i formatowanie:",
		latexRules,
		generalConstraints,
		"",
		fmt.Sprintf("Pytania do konwersji z kontekstem (JSON):\n%s", raw),
	}
	return strings.Join(parts, "\n")
}

// BuildDocumentAnalysisPrompt renders the markdown-twin analysis prompt.
// Pass empty text when the document rides along as an attachment.
func BuildDocumentAnalysisPrompt(text, filename, mimeType string) string {
	var context []string
	if filename != "" {
		context = append(context, fmt.Sprintf("Nazwa pliku: %s", filename))
	}
	if mimeType != "" {
		context = append(context, fmt.Sprintf("MIME: %s", mimeType))
	}

	parts := []string{
		persona,
		"Twoim zadaniem jest przygotowanie precyzyjnego opisu dokumentu w Markdown oraz sklasyfikowanie poziomu analizy (fast/reasoning).",
		"",
		"### WYMAGANY FORMAT ODPOWIEDZI (JSON):",
		"{",
		`  "routing_tier": "fast | reasoning",`,
		`  "markdown_twin": "Pełny opis dokumentu w Markdown",`,
		`  "suggested_title": "Krótki, merytoryczny tytuł dokumentu po polsku"`,
		"}",
		"",
		"Wymagania i formatowanie:",
		latexRules,
		"",
		"Zasady:",
		"- Tytuł (`suggested_title`) musi być zwięzły (2-5 słów) i oddawać główny temat materiału.",
		"- Zachowaj kolejność treści z dokumentu.",
		"- Opisuj diagramy/rysunki tekstowo, zachowując relacje.",
		"- Nie dodawaj informacji spoza materiału.",
		"- Użyj 'reasoning' jeśli dokument jest złożony, zawiera schematy, tabele, rysunki lub jest skanem/obrazem; inaczej 'fast'.",
		"",
	}
	if len(context) > 0 {
		parts = append(parts, fmt.Sprintf("Kontekst:\n%s\n", strings.Join(context, "\n")))
	}
	if strings.TrimSpace(text) != "" {
		parts = append(parts, fmt.Sprintf("Tekst źródłowy:\n%s", text))
	} else {
		parts = append(parts, "Tekst źródłowy nie został dostarczony. Analizuj na podstawie załączonego pliku.")
	}

	return strings.Join(parts, "\n")
}
