package export

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// Moodle quiz XML structures. The format mirrors Moodle's own export:
// a category pseudo-question followed by multichoice/essay questions.

type xmlText struct {
	Text string `xml:"text"`
}

type xmlFormattedText struct {
	Format string `xml:"format,attr"`
	Text   string `xml:"text"`
}

type xmlAnswer struct {
	Fraction string            `xml:"fraction,attr"`
	Format   string            `xml:"format,attr,omitempty"`
	Text     string            `xml:"text"`
	Feedback *xmlFormattedText `xml:"feedback,omitempty"`
}

type xmlQuestion struct {
	Type            string            `xml:"type,attr"`
	Category        *xmlText          `xml:"category,omitempty"`
	Name            *xmlText          `xml:"name,omitempty"`
	QuestionText    *xmlFormattedText `xml:"questiontext,omitempty"`
	DefaultGrade    string            `xml:"defaultgrade,omitempty"`
	GeneralFeedback *xmlFormattedText `xml:"generalfeedback,omitempty"`
	Single          string            `xml:"single,omitempty"`
	ShuffleAnswers  string            `xml:"shuffleanswers,omitempty"`
	AnswerNumbering string            `xml:"answernumbering,omitempty"`
	Answers         []xmlAnswer       `xml:"answer"`
}

type xmlQuiz struct {
	XMLName   xml.Name      `xml:"quiz"`
	Questions []xmlQuestion `xml:"question"`
}

// TestToMoodleXML serializes a test to Moodle quiz XML. Closed questions
// become multichoice with the 100% fraction split across correct
// answers; open questions become essays.
func TestToMoodleXML(test model.Test, questions []model.Question) ([]byte, error) {
	quiz := xmlQuiz{
		Questions: []xmlQuestion{{
			Type:     "category",
			Category: &xmlText{Text: fmt.Sprintf("$course$/%s", test.Title)},
		}},
	}

	for _, q := range questions {
		shortText := q.Text
		if runes := []rune(shortText); len(runes) > 20 {
			shortText = string(runes[:20])
		}

		xq := xmlQuestion{
			Name:            &xmlText{Text: fmt.Sprintf("Q%s - %s...", q.ID, shortText)},
			QuestionText:    &xmlFormattedText{Format: "html", Text: q.Text},
			DefaultGrade:    strconv.Itoa(int(q.Difficulty)),
			GeneralFeedback: &xmlFormattedText{Format: "html"},
		}

		if !q.IsClosed {
			xq.Type = "essay"
			xq.Answers = []xmlAnswer{{Fraction: "0"}}
			quiz.Questions = append(quiz.Questions, xq)
			continue
		}

		correct := make(map[string]bool, len(q.CorrectChoices))
		for _, c := range q.CorrectChoices {
			correct[c] = true
		}
		numCorrect := len(correct)
		isSingle := numCorrect <= 1

		xq.Type = "multichoice"
		xq.Single = strconv.FormatBool(isSingle)
		xq.ShuffleAnswers = "true"
		xq.AnswerNumbering = "abc"

		correctFraction := 100.0
		if !isSingle {
			correctFraction = 100.0 / float64(numCorrect)
		}

		for _, choice := range q.Choices {
			answer := xmlAnswer{Fraction: "0", Format: "html", Text: choice}
			feedback := "Incorrect."
			if correct[choice] {
				answer.Fraction = strconv.FormatFloat(correctFraction, 'g', 5, 64)
				feedback = "Correct!"
			}
			answer.Feedback = &xmlFormattedText{Format: "html", Text: feedback}
			xq.Answers = append(xq.Answers, answer)
		}
		quiz.Questions = append(quiz.Questions, xq)
	}

	out, err := xml.MarshalIndent(quiz, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal moodle xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
