package generation

import (
	"errors"
	"fmt"
)

// MaxQuestionsPerRequest bounds a single generation request.
const MaxQuestionsPerRequest = 50

// Params describes one generation request after API-level validation.
type Params struct {
	TrueFalse    int
	SingleChoice int
	MultiChoice  int
	Open         int

	Easy   int
	Medium int
	Hard   int

	AdditionalInstructions string
}

// TotalClosed returns the requested closed-question count.
func (p Params) TotalClosed() int {
	return p.TrueFalse + p.SingleChoice + p.MultiChoice
}

// Total returns the overall requested question count.
func (p Params) Total() int {
	return p.TotalClosed() + p.Open
}

// Validate checks count bounds and the difficulty-sum invariant.
func (p Params) Validate() error {
	for _, n := range []int{p.TrueFalse, p.SingleChoice, p.MultiChoice, p.Open, p.Easy, p.Medium, p.Hard} {
		if n < 0 {
			return errors.New("liczby pytań nie mogą być ujemne")
		}
	}
	total := p.Total()
	if total == 0 {
		return errors.New("żądanie musi zawierać co najmniej jedno pytanie")
	}
	if total > MaxQuestionsPerRequest {
		return fmt.Errorf("można wygenerować maksymalnie %d pytań naraz", MaxQuestionsPerRequest)
	}
	if p.Easy+p.Medium+p.Hard != total {
		return fmt.Errorf("suma pytań według trudności (%d) musi być równa łącznej liczbie pytań (%d)",
			p.Easy+p.Medium+p.Hard, total)
	}
	return nil
}
