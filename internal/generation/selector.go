package generation

import (
	"fmt"
	"strings"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// ClosedKind is the detected sub-type of a closed question.
type ClosedKind int

const (
	KindTrueFalse ClosedKind = iota
	KindSingleChoice
	KindMultiChoice
	KindOpen
)

var trueFalseWords = map[string]bool{
	"prawda": true,
	"fałsz":  true,
	"falsz":  true,
	"true":   true,
	"false":  true,
}

// Classify detects a question's sub-type. Two choices worded as
// true/false mean a TF question; two or more correct answers mean
// multi-choice; anything else closed is single-choice.
func Classify(q model.Question) ClosedKind {
	if !q.IsClosed {
		return KindOpen
	}
	if len(q.Choices) == 2 {
		tf := true
		for _, ch := range q.Choices {
			if !trueFalseWords[strings.ToLower(strings.TrimSpace(ch))] {
				tf = false
				break
			}
		}
		if tf {
			return KindTrueFalse
		}
	}
	if len(q.CorrectChoices) >= 2 {
		return KindMultiChoice
	}
	return KindSingleChoice
}

// UnderDeliveryError reports a bucket the model filled short of the
// requested count. Its message feeds the retry-with-reason prompt.
type UnderDeliveryError struct {
	Bucket    string
	Requested int
	Got       int
}

func (e *UnderDeliveryError) Error() string {
	return fmt.Sprintf("model nie zwrócił wymaganej liczby pytań %s (oczekiwano %d, otrzymano %d)",
		e.Bucket, e.Requested, e.Got)
}

// Select buckets validated questions by detected sub-type and returns
// the flat selection truncated to the exact requested counts, in fixed
// order: true/false, single-choice, multi-choice, open. Excess questions
// in a bucket are discarded first-come; a short bucket is an error.
func Select(questions []model.Question, p Params) ([]model.Question, error) {
	var tf, single, multi, open []model.Question

	for _, q := range questions {
		switch Classify(q) {
		case KindTrueFalse:
			tf = append(tf, q)
		case KindSingleChoice:
			single = append(single, q)
		case KindMultiChoice:
			multi = append(multi, q)
		case KindOpen:
			open = append(open, q)
		}
	}

	buckets := []struct {
		name      string
		questions []model.Question
		want      int
	}{
		{"Prawda/Fałsz", tf, p.TrueFalse},
		{"jednokrotnego wyboru", single, p.SingleChoice},
		{"wielokrotnego wyboru", multi, p.MultiChoice},
		{"otwartych", open, p.Open},
	}

	out := make([]model.Question, 0, p.Total())
	for _, b := range buckets {
		if len(b.questions) < b.want {
			return nil, &UnderDeliveryError{Bucket: b.name, Requested: b.want, Got: len(b.questions)}
		}
		out = append(out, b.questions[:b.want]...)
	}
	return out, nil
}
