package export

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

var latexReplacements = map[rune]string{
	'&':  `\&`,
	'%':  `\%`,
	'$':  `\$`,
	'#':  `\#`,
	'_':  `\_`,
	'{':  `\{`,
	'}':  `\}`,
	'~':  `\textasciitilde{}`,
	'^':  `\textasciicircum{}`,
	'\\': `\textbackslash{}`,
}

// LatexEscape escapes every LaTeX special character in text.
func LatexEscape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, ch := range text {
		if repl, ok := latexReplacements[ch]; ok {
			b.WriteString(repl)
		} else {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// LatexWithMath escapes special characters but keeps math segments
// written as $...$ or $$...$$ intact so they render in math mode.
// An unclosed delimiter downgrades the rest to plain text.
func LatexWithMath(text string) string {
	var out strings.Builder
	i, n := 0, len(text)

	for i < n {
		if strings.HasPrefix(text[i:], "$$") {
			end := strings.Index(text[i+2:], "$$")
			if end == -1 {
				out.WriteString(LatexEscape(text[i:]))
				break
			}
			out.WriteString("$$" + text[i+2:i+2+end] + "$$")
			i += 2 + end + 2
		} else if text[i] == '$' {
			end := strings.IndexByte(text[i+1:], '$')
			if end == -1 {
				out.WriteString(LatexEscape(text[i:]))
				break
			}
			out.WriteString("$" + text[i+1:i+1+end] + "$")
			i += 1 + end + 1
		} else {
			start := i
			for i < n && text[i] != '$' {
				i++
			}
			out.WriteString(LatexEscape(text[start:i]))
		}
	}
	return out.String()
}

// testTemplate renders one variant of a test. Delimiters are the default
// {{ }}; LaTeX braces inside the document body are produced by the
// escaped data, not by the template syntax.
var testTemplate = template.Must(template.New("test.tex").Funcs(template.FuncMap{
	"latex":     LatexEscape,
	"latexMath": LatexWithMath,
	"isCorrect": func(choice string, correct []string) bool {
		for _, c := range correct {
			if c == choice {
				return true
			}
		}
		return false
	},
	"answerList": func(correct []string) string {
		return strings.Join(correct, ", ")
	},
}).Parse(`\documentclass[11pt,a4paper]{article}
\usepackage{fontspec}
\usepackage{polyglossia}
\setmainlanguage{polish}
\usepackage[margin=2.2cm]{geometry}
\usepackage{xcolor}
\usepackage{enumitem}
\definecolor{brand}{HTML}{{"{"}}{{.BrandHex}}{{"}"}}

\begin{document}

\begin{center}
{\Large\bfseries\color{brand} {{latexMath .Title}}}\\[4pt]
{{if .VariantLabel}}{\large Grupa {{latex .VariantLabel}}}\\[4pt]{{end}}
{{if .HeaderSchool}}{{latex .HeaderSchool}} \hfill {{end}}{{if .HeaderSubject}}{{latex .HeaderSubject}}{{end}}
{{if .HeaderDateLine}}\vspace{6pt}\noindent Imię i nazwisko: \hrulefill \quad Data: \rule{3cm}{0.4pt}{{end}}
\end{center}

\begin{enumerate}[leftmargin=*]
{{range .Questions}}\item {{latexMath .Text}}
{{if .IsClosed}}\begin{enumerate}[label=\alph*),leftmargin=1.2cm]
{{$correct := .CorrectChoices}}{{range .Choices}}\item {{latexMath .}}{{if and $.ShowAnswerKey (isCorrect . $correct)}} \textbf{\color{brand}$\checkmark$}{{end}}
{{end}}\end{enumerate}
{{else}}\vspace{2.8cm}
{{end}}{{end}}\end{enumerate}

{{if .ShowAnswerKey}}
\newpage
\section*{Klucz odpowiedzi}
\begin{enumerate}[leftmargin=*]
{{range .Questions}}\item {{if .IsClosed}}{{latexMath (answerList .CorrectChoices)}}{{else}}pytanie otwarte{{end}}
{{end}}\end{enumerate}
{{end}}

\end{document}
`))

// normalizeHexColor converts an accepted CSS hex color into the exact
// form xcolor's HTML model takes: six uppercase hex digits, no hash.
// Shorthand "#abc" expands to "AABBCC".
func normalizeHexColor(c string) string {
	c = strings.TrimPrefix(c, "#")
	if len(c) == 3 {
		var expanded strings.Builder
		for _, r := range c {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		c = expanded.String()
	}
	return strings.ToUpper(c)
}

// RenderContext is the data handed to the LaTeX template for one variant.
type RenderContext struct {
	Title          string
	VariantLabel   string
	Questions      []model.Question
	ShowAnswerKey  bool
	BrandHex       string
	HeaderSchool   string
	HeaderSubject  string
	HeaderDateLine bool
}

// RenderTex renders the LaTeX source for one test variant.
func RenderTex(ctx RenderContext) (string, error) {
	if ctx.BrandHex == "" {
		ctx.BrandHex = "4CAF4F"
	}
	ctx.BrandHex = normalizeHexColor(ctx.BrandHex)

	var b strings.Builder
	if err := testTemplate.Execute(&b, ctx); err != nil {
		return "", fmt.Errorf("render tex template: %w", err)
	}
	return b.String(), nil
}
