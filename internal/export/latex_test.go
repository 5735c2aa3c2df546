package export

import (
	"strings"
	"testing"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

func TestLatexEscape(t *testing.T) {
	cases := map[string]string{
		"50% & 20$":  `50\% \& 20\$`,
		"a_b #c":     `a\_b \#c`,
		"{x}":        `\{x\}`,
		"~^":         `\textasciitilde{}\textasciicircum{}`,
		`C:\path`:    `C:\textbackslash{}path`,
		"zwykły ąćę": "zwykły ąćę",
	}
	for in, want := range cases {
		if got := LatexEscape(in); got != want {
			t.Errorf("LatexEscape(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLatexWithMathPreservesMathSegments(t *testing.T) {
	cases := map[string]string{
		"Ile wynosi $x^2$?":      `Ile wynosi $x^2$?`,
		"Wzór: $$\\frac{a}{b}$$": `Wzór: $$\frac{a}{b}$$`,
		"50% oraz $x_1$":         `50\% oraz $x_1$`,
		// Unclosed delimiter degrades to escaped plain text.
		"kwota $100":  `kwota \$100`,
		"$$a + b":     `\$\$a + b`,
		"bez matmy %": `bez matmy \%`,
	}
	for in, want := range cases {
		if got := LatexWithMath(in); got != want {
			t.Errorf("LatexWithMath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderTexNormalizesBrandColor(t *testing.T) {
	cases := map[string]string{
		"#fff":    "FFFFFF",
		"#4caf4f": "4CAF4F",
		"1A2B3C":  "1A2B3C",
		"":        "4CAF4F",
	}
	for in, want := range cases {
		tex, err := RenderTex(RenderContext{Title: "Kolor", BrandHex: in})
		if err != nil {
			t.Fatalf("RenderTex(BrandHex=%q): %v", in, err)
		}
		decl := `\definecolor{brand}{HTML}{` + want + `}`
		if !strings.Contains(tex, decl) {
			t.Errorf("BrandHex %q: output missing %q", in, decl)
		}
	}
}

func TestRenderTex(t *testing.T) {
	ctx := RenderContext{
		Title:         "Test z fizyki: $E=mc^2$",
		VariantLabel:  "A",
		ShowAnswerKey: true,
		BrandHex:      "#FF0000",
		Questions: []model.Question{
			{Text: "Prędkość światła wynosi $3 \\cdot 10^8$ m/s.", IsClosed: true,
				Choices: []string{"Prawda", "Fałsz"}, CorrectChoices: []string{"Prawda"}},
			{Text: "Wyjaśnij zasadę zachowania pędu (min. 50% strony).", IsClosed: false},
		},
	}

	tex, err := RenderTex(ctx)
	if err != nil {
		t.Fatalf("RenderTex: %v", err)
	}

	for _, want := range []string{
		`\documentclass`,
		`{FF0000}`,
		`$E=mc^2$`,
		"Grupa A",
		"Prawda",
		`min. 50\% strony`,
		"Klucz odpowiedzi",
	} {
		if !strings.Contains(tex, want) {
			t.Errorf("rendered tex missing %q", want)
		}
	}
	if strings.Contains(tex, "#FF0000") {
		t.Error("brand hex kept its # prefix")
	}
}
