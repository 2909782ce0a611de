package quiz

import "github.com/abhisek/hanzidrill/internal/content"

// State is the lifecycle position of a quiz engine.
type State int

const (
	StateSelecting State = iota
	StateQuestion
	StateFeedback
	StateResults
)

func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateQuestion:
		return "question"
	case StateFeedback:
		return "feedback"
	case StateResults:
		return "results"
	}
	return "unknown"
}

// Question is one built multiple-choice question.
type Question struct {
	Item    content.VocabularyItem
	Prompt  string
	Options []string
	Correct int // index into Options
}

// CorrectAnswer returns the display string of the right option.
func (q Question) CorrectAnswer() string {
	return q.Options[q.Correct]
}

// Answer records one submission.
type Answer struct {
	Question int
	Choice   int
	Text     string
	Correct  bool
}

// View is a read-only projection of the engine for rendering.
type View struct {
	State          State
	Level          int
	QuestionNumber int // 1-based
	TotalQuestions int
	Prompt         string
	Options        []string
	Score          int

	// Populated once the current question has been answered.
	Selected      int
	CorrectAnswer int
	LastCorrect   bool
}

// Answered reports whether the view carries feedback for the current question.
func (v View) Answered() bool {
	return v.State == StateFeedback || v.State == StateResults
}

// Result is the outcome of a finished session.
type Result struct {
	Level   int
	Score   int
	Total   int
	Percent int
	Answers []Answer
}
