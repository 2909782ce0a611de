// Package comprehension scores reading, listening and mixed exercises.
package comprehension

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abhisek/hanzidrill/internal/content"
	"github.com/abhisek/hanzidrill/internal/game"
)

var (
	// ErrSubmitted is returned when answers change after submission.
	ErrSubmitted = errors.New("answers already submitted")
	// ErrIncomplete is returned when submitting with unanswered questions.
	ErrIncomplete = errors.New("not every question is answered")
	// ErrUnknownQuestion is returned for a question id not on the sheet.
	ErrUnknownQuestion = errors.New("unknown question")
)

// Sheet collects one answer per multiple-choice question until submitted.
type Sheet struct {
	questions []content.ChoiceQuestion
	answers   map[string]int
	submitted bool
}

// NewSheet creates an empty sheet over questions.
func NewSheet(questions []content.ChoiceQuestion) *Sheet {
	return &Sheet{
		questions: slices.Clone(questions),
		answers:   make(map[string]int, len(questions)),
	}
}

// ForReading creates a sheet for a reading exercise.
func ForReading(ex content.ReadingExercise) *Sheet { return NewSheet(ex.Questions) }

// ForListening creates a sheet for a listening exercise.
func ForListening(ex content.ListeningExercise) *Sheet { return NewSheet(ex.Questions) }

// Questions returns the sheet's questions in order.
func (s *Sheet) Questions() []content.ChoiceQuestion { return slices.Clone(s.questions) }

func (s *Sheet) question(id string) (content.ChoiceQuestion, bool) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, true
		}
	}
	return content.ChoiceQuestion{}, false
}

// Select records option for a question, replacing any earlier choice.
func (s *Sheet) Select(questionID string, option int) error {
	if s.submitted {
		return ErrSubmitted
	}
	q, ok := s.question(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("option %d out of range for %s", option, questionID)
	}
	s.answers[questionID] = option
	return nil
}

// Answer returns the chosen option for a question.
func (s *Sheet) Answer(questionID string) (int, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

// AllAnswered reports whether every question has a choice.
func (s *Sheet) AllAnswered() bool {
	return len(s.answers) == len(s.questions)
}

// Submit locks the sheet for scoring.
func (s *Sheet) Submit() error {
	if s.submitted {
		return ErrSubmitted
	}
	if !s.AllAnswered() {
		return ErrIncomplete
	}
	s.submitted = true
	return nil
}

// Submitted reports whether Submit succeeded.
func (s *Sheet) Submitted() bool { return s.submitted }

// IsCorrect reports whether the chosen option for a question is right.
func (s *Sheet) IsCorrect(questionID string) bool {
	q, ok := s.question(questionID)
	if !ok {
		return false
	}
	a, answered := s.answers[questionID]
	return answered && a == q.CorrectAnswer
}

// Score counts correct answers.
func (s *Sheet) Score() (correct, total, percent int) {
	for _, q := range s.questions {
		if s.IsCorrect(q.ID) {
			correct++
		}
	}
	total = len(s.questions)
	return correct, total, game.Percent(correct, total)
}

// Explanation returns the explanation for a question, if any.
func (s *Sheet) Explanation(questionID string) string {
	q, _ := s.question(questionID)
	return q.Explanation
}

// Reset clears all answers and reopens the sheet.
func (s *Sheet) Reset() {
	clear(s.answers)
	s.submitted = false
}
