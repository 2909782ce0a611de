// Package writing checks free-text answers to writing prompts.
package writing

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
)

// ErrEmptyAnswer is returned for blank answers.
var ErrEmptyAnswer = errors.New("answer is empty")

// Assessment describes how an answer fits a writing prompt.
type Assessment struct {
	Chars        int
	Min          int
	Max          int
	WithinLimits bool
	TooShort     bool
	TooLong      bool

	UsedVocabulary     []string
	VocabularyCoverage int
}

// Assess counts the characters of answer and which suggested words it uses.
func Assess(ex content.WritingExercise, answer string) (Assessment, error) {
	text := strings.TrimSpace(answer)
	if text == "" {
		return Assessment{}, ErrEmptyAnswer
	}

	n := utf8.RuneCountInString(text)
	a := Assessment{
		Chars:    n,
		Min:      ex.MinChars,
		Max:      ex.MaxChars,
		TooShort: n < ex.MinChars,
		TooLong:  ex.MaxChars > 0 && n > ex.MaxChars,
	}
	a.WithinLimits = !a.TooShort && !a.TooLong

	a.UsedVocabulary = lo.FilterMap(ex.SuggestedVocabulary, func(w content.SuggestedWord, _ int) (string, bool) {
		return w.Word, strings.Contains(text, w.Word)
	})
	a.VocabularyCoverage = game.Percent(len(a.UsedVocabulary), len(ex.SuggestedVocabulary))
	return a, nil
}

// CountChars returns the rune count of the trimmed text, for live counters.
func CountChars(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}
