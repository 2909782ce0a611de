package comprehension

import (
	"strings"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
)

// MixedScore is the outcome of a mixed exercise.
type MixedScore struct {
	Correct int
	Total   int
	Percent int
	// PerQuestion maps every question or task id to whether it was right.
	PerQuestion map[string]bool
}

// ScoreMixed scores answers keyed by question or task id. Reading and
// listening answers are option text and must match exactly; writing answers
// match the expected answer after trimming, ignoring case.
func ScoreMixed(ex content.MixedExercise, answers map[string]string) MixedScore {
	res := MixedScore{PerQuestion: make(map[string]bool)}
	mark := func(id string, ok bool) {
		res.Total++
		res.PerQuestion[id] = ok
		if ok {
			res.Correct++
		}
	}

	if ex.Reading != nil {
		for _, q := range ex.Reading.Questions {
			mark(q.ID, answers[q.ID] == q.CorrectAnswer)
		}
	}
	if ex.Listening != nil {
		for _, q := range ex.Listening.Questions {
			mark(q.ID, answers[q.ID] == q.CorrectAnswer)
		}
	}
	if ex.Writing != nil {
		for _, task := range ex.Writing.Tasks {
			mark(task.ID, WritingMatches(answers[task.ID], task.ExpectedAnswer))
		}
	}

	res.Percent = game.Percent(res.Correct, res.Total)
	return res
}

// WritingMatches compares a short written answer with the expected one.
func WritingMatches(answer, expected string) bool {
	a := strings.TrimSpace(answer)
	return a != "" && strings.EqualFold(a, strings.TrimSpace(expected))
}
