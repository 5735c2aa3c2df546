package generation

import (
	"math/rand"
	"testing"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

func TestShuffleWithinDifficultyKeepsBucketOrder(t *testing.T) {
	questions := []model.Question{
		{Text: "H1", Difficulty: model.DifficultyHard},
		{Text: "E1", Difficulty: model.DifficultyEasy},
		{Text: "M1", Difficulty: model.DifficultyMedium},
		{Text: "E2", Difficulty: model.DifficultyEasy},
		{Text: "H2", Difficulty: model.DifficultyHard},
		{Text: "M2", Difficulty: model.DifficultyMedium},
	}

	for seed := int64(0); seed < 10; seed++ {
		out := ShuffleWithinDifficulty(questions, rand.New(rand.NewSource(seed)))
		if len(out) != len(questions) {
			t.Fatalf("seed %d: lost questions", seed)
		}
		last := model.DifficultyEasy
		for _, q := range out {
			if q.Difficulty < last {
				t.Fatalf("seed %d: difficulty order broken: %v", seed, out)
			}
			last = q.Difficulty
		}
	}
}

func TestShuffleWithinDifficultyIsSeedable(t *testing.T) {
	questions := []model.Question{
		{Text: "E1", Difficulty: model.DifficultyEasy},
		{Text: "E2", Difficulty: model.DifficultyEasy},
		{Text: "E3", Difficulty: model.DifficultyEasy},
		{Text: "E4", Difficulty: model.DifficultyEasy},
	}

	a := ShuffleWithinDifficulty(questions, rand.New(rand.NewSource(42)))
	b := ShuffleWithinDifficulty(questions, rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i].Text != b[i].Text {
			t.Fatalf("same seed produced different orders")
		}
	}
}

func TestShuffleChoicesKeepsCorrectSubset(t *testing.T) {
	q := model.Question{
		IsClosed:       true,
		Choices:        []string{"A", "B", "C", "D"},
		CorrectChoices: []string{"B", "D"},
	}
	ShuffleChoices(&q, rand.New(rand.NewSource(7)))

	if len(q.Choices) != 4 {
		t.Fatalf("choices lost: %v", q.Choices)
	}
	for _, cc := range q.CorrectChoices {
		found := false
		for _, ch := range q.Choices {
			if ch == cc {
				found = true
			}
		}
		if !found {
			t.Fatalf("correct choice %q missing after shuffle", cc)
		}
	}
}
