package generation

import (
	"math/rand"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// ShuffleWithinDifficulty reorders questions randomly inside each
// difficulty bucket while keeping the easy→medium→hard bucket order.
// Used for A/B exam variants. Pass a seeded source for reproducibility.
func ShuffleWithinDifficulty(questions []model.Question, rng *rand.Rand) []model.Question {
	buckets := map[model.Difficulty][]model.Question{}
	for _, q := range questions {
		buckets[q.Difficulty] = append(buckets[q.Difficulty], q)
	}

	out := make([]model.Question, 0, len(questions))
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
		b := buckets[d]
		rng.Shuffle(len(b), func(i, j int) {
			b[i], b[j] = b[j], b[i]
		})
		out = append(out, b...)
	}
	return out
}

// ShuffleChoices reorders a closed question's choices in place while
// keeping correct_choices consistent (they reference choices by value,
// so only the choices slice moves).
func ShuffleChoices(q *model.Question, rng *rand.Rand) {
	if !q.IsClosed {
		return
	}
	rng.Shuffle(len(q.Choices), func(i, j int) {
		q.Choices[i], q.Choices[j] = q.Choices[j], q.Choices[i]
	})
}

// wirePayload serializes a persisted question to the JSON shape used by
// regeneration and conversion prompts.
func wirePayload(q model.Question, includeChoices bool) map[string]any {
	m := map[string]any{
		"id":         q.ID.String(),
		"text":       q.Text,
		"is_closed":  q.IsClosed,
		"difficulty": int(q.Difficulty),
	}
	if includeChoices {
		m["choices"] = q.Choices
		m["correct_choices"] = q.CorrectChoices
	}
	return m
}
